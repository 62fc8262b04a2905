package checks

import "regexp"

// brokenLinkPattern matches the common translation mistake of inserting a
// space between the closing bracket and the opening parenthesis of a
// Markdown link, which breaks the link syntax.
var brokenLinkPattern = regexp.MustCompile(`\] +\(`)

// internalLinkStart lists the first characters of link targets that are
// compared between source and target: relative paths, anchors, and template
// variables. Absolute URLs are excluded because they may be legitimately
// localized (consider links to Wikipedia).
const internalLinkStart = ".#{"

func newMarkdownMeta(id, name, description string) meta {
	return meta{
		id:          id,
		name:        name,
		description: description,
		enableFlag:  "md-text",
	}
}

// ---------------------------------------------------------------------------
// Reference links
// ---------------------------------------------------------------------------

// MarkdownRefLinkCheck verifies that reference-style link labels in the
// translation match the source.
type MarkdownRefLinkCheck struct {
	meta
}

// NewMarkdownRefLink returns the Markdown reference link check.
func NewMarkdownRefLink() *MarkdownRefLinkCheck {
	return &MarkdownRefLinkCheck{newMarkdownMeta(
		"md-reflink",
		"Markdown references",
		"Markdown link references do not match source",
	)}
}

func (c *MarkdownRefLinkCheck) CheckSingle(source, target string, u *Unit) bool {
	srcRefs := findMarkdownRefLinks(source)
	if len(srcRefs) == 0 {
		return false
	}
	tgtRefs := findMarkdownRefLinks(target)
	return !equalTagSets(refLabelSet(srcRefs), refLabelSet(tgtRefs))
}

func refLabelSet(refs []mdRef) map[string]bool {
	set := make(map[string]bool, len(refs))
	for _, r := range refs {
		set[r.label] = true
	}
	return set
}

// ---------------------------------------------------------------------------
// Links
// ---------------------------------------------------------------------------

// MarkdownLinkCheck verifies that Markdown links in the translation match
// the source: same number of links, and the same set of internal link
// targets.
type MarkdownLinkCheck struct {
	meta
}

// NewMarkdownLink returns the Markdown link check.
func NewMarkdownLink() *MarkdownLinkCheck {
	return &MarkdownLinkCheck{newMarkdownMeta(
		"md-link",
		"Markdown links",
		"Markdown links do not match source",
	)}
}

func (c *MarkdownLinkCheck) CheckSingle(source, target string, u *Unit) bool {
	srcLinks := findMarkdownLinks(source)
	if len(srcLinks) == 0 {
		return false
	}
	tgtLinks := findMarkdownLinks(target)
	if len(srcLinks) != len(tgtLinks) {
		return true
	}
	return !equalTagSets(internalLinkSet(srcLinks), internalLinkSet(tgtLinks))
}

// Fixup offers the broken-link repair when the target contains a spaced
// "] (" sequence.
func (c *MarkdownLinkCheck) Fixup(u *Unit) []FixupRule {
	if !brokenLinkPattern.MatchString(u.Target) {
		return nil
	}
	return []FixupRule{{Pattern: brokenLinkPattern, Replacement: "]("}}
}

func internalLinkSet(links []mdLink) map[string]bool {
	set := make(map[string]bool)
	for _, l := range links {
		if l.url == "" {
			continue
		}
		for i := 0; i < len(internalLinkStart); i++ {
			if l.url[0] == internalLinkStart[i] {
				set[l.url] = true
				break
			}
		}
	}
	return set
}

// ---------------------------------------------------------------------------
// Inline syntax
// ---------------------------------------------------------------------------

// MarkdownSyntaxCheck verifies that inline Markdown markers (bold, italic,
// code, strikethrough, autolinks) in the translation match the source.
type MarkdownSyntaxCheck struct {
	meta
}

// NewMarkdownSyntax returns the Markdown syntax check.
func NewMarkdownSyntax() *MarkdownSyntaxCheck {
	return &MarkdownSyntaxCheck{newMarkdownMeta(
		"md-syntax",
		"Markdown syntax",
		"Markdown syntax does not match source",
	)}
}

func (c *MarkdownSyntaxCheck) CheckSingle(source, target string, u *Unit) bool {
	return !equalTagSets(syntaxMarkerSet(source), syntaxMarkerSet(target))
}

// Highlight emits two spans per occurrence, covering the leading and
// trailing marker. Autolinks highlight their angle brackets.
func (c *MarkdownSyntaxCheck) Highlight(source string, u *Unit) []Span {
	if c.Skip(u) {
		return nil
	}
	var spans []Span
	for _, m := range findMDSyntax(source) {
		value := m.marker
		spans = append(spans, Span{m.start, m.start + len(value), value})
		trailing := value
		if trailing == "<" {
			trailing = ">"
		}
		spans = append(spans, Span{m.end - len(value), m.end, trailing})
	}
	return spans
}

// syntaxMarkerSet collects the distinct markers of the marker-capturing
// alternatives; autolink matches contribute an empty marker.
func syntaxMarkerSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, m := range findMDSyntax(s) {
		if m.group <= mdSyntaxMarkerGroups {
			set[m.marker] = true
		} else {
			set[""] = true
		}
	}
	return set
}
