package checks

import "strings"

// ---------------------------------------------------------------------------
// BBCode scanning
// ---------------------------------------------------------------------------

// bbPair is one matched pair of BBCode tags: [tag]...[/tag], where the
// opening tag may carry an @-separated payload ([tag@value]).
type bbPair struct {
	tag        string
	openStart  int
	openEnd    int
	closeStart int
	closeEnd   int
}

// findBBCode scans s for non-overlapping BBCode tag pairs. The opening tag
// name must be repeated verbatim in the closing tag; candidates are tried
// longest-first at each opening bracket (the full bracket content, then each
// prefix ending before an "@"), and the nearest closing tag wins. The text
// between the tags must stay on one line.
func findBBCode(s string) []bbPair {
	var pairs []bbPair
	pos := 0
	for pos < len(s) {
		open := strings.IndexByte(s[pos:], '[')
		if open < 0 {
			break
		}
		open += pos
		closeBracket := strings.IndexByte(s[open+1:], ']')
		if closeBracket < 0 {
			break
		}
		closeBracket += open + 1
		content := s[open+1 : closeBracket]
		if content == "" {
			pos = open + 1
			continue
		}
		pair, ok := matchBBPair(s, open, closeBracket, content)
		if !ok {
			pos = open + 1
			continue
		}
		pairs = append(pairs, pair)
		pos = pair.closeEnd
	}
	return pairs
}

// matchBBPair tries the tag-name candidates for one opening bracket.
func matchBBPair(s string, open, closeBracket int, content string) (bbPair, bool) {
	for _, tag := range bbTagCandidates(content) {
		needle := "[/" + tag + "]"
		idx := strings.Index(s[closeBracket+1:], needle)
		if idx < 0 {
			continue
		}
		closeStart := closeBracket + 1 + idx
		// The gap between the tags may not span lines.
		if strings.IndexByte(s[closeBracket+1:closeStart], '\n') >= 0 {
			continue
		}
		return bbPair{
			tag:        tag,
			openStart:  open,
			openEnd:    closeBracket + 1,
			closeStart: closeStart,
			closeEnd:   closeStart + len(needle),
		}, true
	}
	return bbPair{}, false
}

// bbTagCandidates returns possible tag names for an opening bracket's
// content, longest first: the full content, then every prefix that ends
// right before an "@".
func bbTagCandidates(content string) []string {
	candidates := []string{content}
	for i := len(content) - 1; i > 0; i-- {
		if content[i] == '@' {
			candidates = append(candidates, content[:i])
		}
	}
	return candidates
}

// ---------------------------------------------------------------------------
// Check
// ---------------------------------------------------------------------------

// BBCodeCheck verifies that BBCode tags in the translation match the source:
// same number of tag pairs and the same set of tag names.
type BBCodeCheck struct {
	meta
}

// NewBBCode returns the BBCode markup check.
func NewBBCode() *BBCodeCheck {
	return &BBCodeCheck{meta{
		id:          "bbcode",
		name:        "BBCode markup",
		description: "BBCode in translation does not match source",
		defaultOn:   true,
	}}
}

// CheckSingle reports a mismatch when the target's tag pairs differ from the
// source's in count or in the set of tag names. Content between the tags is
// ignored.
func (c *BBCodeCheck) CheckSingle(source, target string, u *Unit) bool {
	srcPairs := findBBCode(source)
	if len(srcPairs) == 0 {
		return false
	}
	tgtPairs := findBBCode(target)
	if len(srcPairs) != len(tgtPairs) {
		return true
	}
	return !equalTagSets(bbTagSet(srcPairs), bbTagSet(tgtPairs))
}

// Highlight marks the opening and closing tag of every pair in the source.
func (c *BBCodeCheck) Highlight(source string, u *Unit) []Span {
	if c.Skip(u) {
		return nil
	}
	var spans []Span
	for _, p := range findBBCode(source) {
		spans = append(spans,
			Span{p.openStart, p.openEnd, source[p.openStart:p.openEnd]},
			Span{p.closeStart, p.closeEnd, source[p.closeStart:p.closeEnd]},
		)
	}
	return spans
}

func bbTagSet(pairs []bbPair) map[string]bool {
	set := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		set[p.tag] = true
	}
	return set
}

func equalTagSets(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for tag := range a {
		if !b[tag] {
			return false
		}
	}
	return true
}
