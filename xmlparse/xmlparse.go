// Package xmlparse parses XML fragments for structural comparison.
//
// Translatable strings are rarely complete XML documents: a fragment like
// "Click <b>here</b>" has no single root. Parse therefore supports a wrapped
// mode that encloses the text in a synthetic root element, and
// DetectWrapping picks the mode automatically. Character entities are
// stripped before parsing; entity correctness is out of scope for
// structural comparison.
package xmlparse

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// wrapperTag is the synthetic root element used in wrapped mode.
const wrapperTag = "markcheck"

// entityPattern matches XML character entities: &name; or &#NNN;.
var entityPattern = regexp.MustCompile(`&#?\w+;`)

// ParseError signals that a text could not be parsed as XML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing XML: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Node is one element of a parsed document: its expanded tag name, the
// attribute names in document order, and its child elements.
type Node struct {
	Tag      string
	Attrs    []string
	Children []*Node
}

// TagRecord is the unit of structural comparison: a tag name plus its
// attribute names in document order. Attribute values are deliberately
// excluded: they are often legitimately localized.
type TagRecord struct {
	Tag   string
	Attrs []string
}

// StripEntities replaces all character entities with a single space.
func StripEntities(s string) string {
	return entityPattern.ReplaceAllString(s, " ")
}

// Parse parses text as a single-root XML document after stripping
// entities. In wrapped mode the text is enclosed in a synthetic root
// element first. Failures are reported as *ParseError.
func Parse(text string, wrap bool) (*Node, error) {
	text = StripEntities(text)
	if wrap {
		text = "<" + wrapperTag + ">" + text + "</" + wrapperTag + ">"
	}
	return parseDocument(text)
}

// DetectWrapping parses text as XML, trying a direct parse first and
// retrying in wrapped mode on failure. It returns the parsed root and
// whether wrapping was needed. When both attempts fail, the direct
// attempt's error is returned.
func DetectWrapping(text string) (*Node, bool, error) {
	root, err := Parse(text, false)
	if err == nil {
		return root, false, nil
	}
	if root, werr := Parse(text, true); werr == nil {
		return root, true, nil
	}
	return nil, false, err
}

// CanParse reports whether text parses as XML in either mode.
func CanParse(text string) bool {
	_, _, err := DetectWrapping(text)
	return err == nil
}

// TagRecords flattens the tree into records in document order, depth-first,
// root included.
func TagRecords(root *Node) []TagRecord {
	var records []TagRecord
	var walk func(n *Node)
	walk = func(n *Node) {
		records = append(records, TagRecord{Tag: n.Tag, Attrs: n.Attrs})
		for _, c := range n.Children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return records
}

// EqualRecords reports whether two record sequences are identical: equal
// length, and per-position equality of tag name and attribute-name list.
func EqualRecords(a, b []TagRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Tag != b[i].Tag || len(a[i].Attrs) != len(b[i].Attrs) {
			return false
		}
		for j := range a[i].Attrs {
			if a[i].Attrs[j] != b[i].Attrs[j] {
				return false
			}
		}
	}
	return true
}

// parseDocument builds an element tree from a strict token stream: exactly
// one root element, nothing but whitespace, comments, processing
// instructions and directives outside it.
func parseDocument(s string) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(s))
	dec.Strict = true

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: expandName(t.Name), Attrs: attrNames(t.Attr)}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Err: errors.New("multiple root elements")}
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			// The strict decoder guarantees matching end elements.
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 && strings.TrimSpace(string(t)) != "" {
				return nil, &ParseError{Err: errors.New("text outside root element")}
			}
		case xml.ProcInst, xml.Comment, xml.Directive:
			// Allowed anywhere.
		}
	}
	if root == nil {
		return nil, &ParseError{Err: errors.New("no root element")}
	}
	return root, nil
}

// expandName renders a possibly namespaced name as {space}local.
func expandName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

func attrNames(attrs []xml.Attr) []string {
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = expandName(a.Name)
	}
	return names
}
