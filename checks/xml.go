package checks

import (
	"regexp"

	"github.com/lingokit/markcheck/xmlparse"
)

// xmlTagPattern is a shallow <...> token matcher, used to decide quickly
// whether a string looks like XML before invoking the real parser.
var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// xmlEntityPattern matches character entities for highlighting.
var xmlEntityPattern = regexp.MustCompile(`&#?\w+;`)

// xmlMeta extends the base gate with the XML family rules: HTML checking
// supersedes XML checking, the xml-text flag force-enables, and otherwise
// the check only applies when every source plural variant parses as XML.
type xmlMeta struct {
	meta
}

func (m xmlMeta) Skip(u *Unit) bool {
	if m.baseSkip(u) {
		return true
	}
	if u.Flags.Has("safe-html") {
		return true
	}
	if u.Flags.Has("xml-text") {
		return false
	}
	sources := u.SourcePlurals()
	looksLikeXML := false
	for _, s := range sources {
		if xmlTagPattern.MatchString(s) {
			looksLikeXML = true
			break
		}
	}
	if !looksLikeXML {
		return true
	}
	for _, s := range sources {
		if !xmlparse.CanParse(s) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Validity
// ---------------------------------------------------------------------------

// XMLValidityCheck verifies that the translation is valid XML, under the
// same wrapping decision as the source.
type XMLValidityCheck struct {
	xmlMeta
}

// NewXMLValidity returns the XML syntax check.
func NewXMLValidity() *XMLValidityCheck {
	return &XMLValidityCheck{xmlMeta{meta{
		id:          "xml-invalid",
		name:        "XML syntax",
		description: "The translation is not valid XML",
		defaultOn:   true,
	}}}
}

func (c *XMLValidityCheck) CheckSingle(source, target string, u *Unit) bool {
	_, wrap, err := xmlparse.DetectWrapping(source)
	if err != nil {
		// Source is not valid XML, we give up.
		return false
	}
	if _, err := xmlparse.Parse(target, wrap); err != nil {
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Structure
// ---------------------------------------------------------------------------

// XMLTagsCheck verifies that the tag structure of the translation matches
// the source: same elements in the same order with the same attribute
// names. Attribute values and text content are ignored.
type XMLTagsCheck struct {
	xmlMeta
}

// NewXMLTags returns the XML markup check.
func NewXMLTags() *XMLTagsCheck {
	return &XMLTagsCheck{xmlMeta{meta{
		id:          "xml-tags",
		name:        "XML markup",
		description: "XML tags in translation do not match source",
		defaultOn:   true,
	}}}
}

func (c *XMLTagsCheck) CheckSingle(source, target string, u *Unit) bool {
	srcRoot, wrap, err := xmlparse.DetectWrapping(source)
	if err != nil {
		// Source is not valid XML, we give up.
		return false
	}
	tgtRoot, err := xmlparse.Parse(target, wrap)
	if err != nil {
		// An unparseable target is the validity check's finding.
		return false
	}
	return !xmlparse.EqualRecords(xmlparse.TagRecords(srcRoot), xmlparse.TagRecords(tgtRoot))
}

// Highlight marks <...> tokens and character entities in the source.
// Entities that fall strictly inside an already-highlighted tag span are
// suppressed via an ordered sweep over the tag spans.
func (c *XMLTagsCheck) Highlight(source string, u *Unit) []Span {
	if c.Skip(u) {
		return nil
	}
	if !xmlparse.CanParse(source) {
		return nil
	}
	var spans []Span
	for _, loc := range xmlTagPattern.FindAllStringIndex(source, -1) {
		spans = append(spans, Span{loc[0], loc[1], source[loc[0]:loc[1]]})
	}
	skipRanges := make([][2]int, 0, len(spans)+1)
	for _, sp := range spans {
		skipRanges = append(skipRanges, [2]int{sp.Start, sp.End})
	}
	skipRanges = append(skipRanges, [2]int{len(source), len(source)})
	offset := 0
	for _, loc := range xmlEntityPattern.FindAllStringIndex(source, -1) {
		start, end := loc[0], loc[1]
		for skipRanges[offset][1] < end {
			offset++
		}
		if start > skipRanges[offset][0] && end < skipRanges[offset][1] {
			continue
		}
		spans = append(spans, Span{start, end, source[start:end]})
	}
	return spans
}
