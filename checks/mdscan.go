package checks

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanners for the Markdown token grammars. Go's regexp engine has no
// back-references, lookaheads or conditional groups, so the grammars are
// matched by hand while keeping the reference semantics: leftmost match,
// alternatives in order, lazy quantifiers, and non-overlapping scanning that
// resumes after each match.

// ---------------------------------------------------------------------------
// Links
// ---------------------------------------------------------------------------

// mdLink is one Markdown link occurrence: an inline link [text](url "title")
// or an autolink <http://...> / <user@host>. URL holds the inline link
// target and is empty for autolinks.
type mdLink struct {
	start int
	end   int
	url   string
}

// findMarkdownLinks returns all link occurrences in s in document order.
func findMarkdownLinks(s string) []mdLink {
	var out []mdLink
	for i := 0; i < len(s); {
		switch s[i] {
		case '!', '[':
			if m, ok := matchInlineLink(s, i); ok {
				out = append(out, m)
				i = m.end
				continue
			}
		case '<':
			if end, ok := matchAutoURL(s, i); ok {
				out = append(out, mdLink{start: i, end: end})
				i = end
				continue
			}
			if end, ok := matchAutoEmail(s, i); ok {
				out = append(out, mdLink{start: i, end: end})
				i = end
				continue
			}
		}
		i++
	}
	return out
}

// matchInlineLink matches !?[text](...) at i.
func matchInlineLink(s string, i int) (mdLink, bool) {
	b := i
	if s[b] == '!' {
		b++
	}
	if b >= len(s) || s[b] != '[' {
		return mdLink{}, false
	}
	for _, close := range linkTextCloses(s, b+1) {
		if end, url, ok := matchLinkTail(s, close+1); ok {
			return mdLink{start: i, end: end, url: url}, true
		}
	}
	return mdLink{}, false
}

// linkTextCloses returns the candidate positions of the "]" closing link
// text that starts at `start`, in backtracking preference order: the greedy
// close first, then earlier consumption decisions, most recent first.
//
// Link text items are: a nested bracket pair [..] whose content has no "^"
// or "]", any character except brackets, or a "]" when another "]" occurs
// ahead of it with no "[" in between.
func linkTextCloses(s string, start int) []int {
	var decisions []int
	k := start
	var candidates []int
	for k < len(s) {
		switch s[k] {
		case '[':
			j := k + 1
			for j < len(s) && s[j] != '^' && s[j] != ']' {
				j++
			}
			if j < len(s) && s[j] == ']' {
				k = j + 1
				continue
			}
			// No item matches an unclosable "[": the text ends here and
			// cannot close, so only earlier decisions remain.
			k = len(s)
		case ']':
			if closingBracketAhead(s, k+1) {
				// Greedy: consume the "]" as text, remember the choice.
				decisions = append(decisions, k)
				k++
				continue
			}
			candidates = append(candidates, k)
			k = len(s)
		default:
			k++
		}
	}
	for j := len(decisions) - 1; j >= 0; j-- {
		candidates = append(candidates, decisions[j])
	}
	return candidates
}

// closingBracketAhead reports whether a "]" occurs at or after `from`
// before any "[".
func closingBracketAhead(s string, from int) bool {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '[':
			return false
		case ']':
			return true
		}
	}
	return false
}

// matchLinkTail matches the "(url 'title')" part starting at k, returning
// the match end and the captured URL.
func matchLinkTail(s string, k int) (int, string, bool) {
	if k >= len(s) || s[k] != '(' {
		return 0, "", false
	}
	k++
	k = skipSpace(s, k)
	if k < len(s) && s[k] == '<' {
		// Angle-wrapped URL: lazy up to each ">" in turn. When no ">"
		// yields a workable tail, the "<" is ordinary URL content and
		// the plain branch below takes over.
		for g := k + 1; g < len(s); g++ {
			if s[g] != '>' {
				continue
			}
			if end, ok := matchTitleAndClose(s, g+1); ok {
				return end, s[k+1 : g], true
			}
		}
	}
	// Lazy URL: shortest prefix whose tail parses.
	for g := k; g <= len(s); g++ {
		if end, ok := matchTitleAndClose(s, g); ok {
			return end, s[k:g], true
		}
	}
	return 0, "", false
}

// matchTitleAndClose matches an optional quoted title followed by the
// closing ")". The title branch is tried first.
func matchTitleAndClose(s string, k int) (int, bool) {
	if j := skipSpace(s, k); j > k && j < len(s) && (s[j] == '\'' || s[j] == '"') {
		// Lazy title: closed by the next quote character of either kind.
		for q := j + 1; q < len(s); q++ {
			if s[q] != '\'' && s[q] != '"' {
				continue
			}
			if end, ok := matchCloseParen(s, q+1); ok {
				return end, true
			}
		}
	}
	return matchCloseParen(s, k)
}

func matchCloseParen(s string, k int) (int, bool) {
	k = skipSpace(s, k)
	if k < len(s) && s[k] == ')' {
		return k + 1, true
	}
	return 0, false
}

// matchAutoURL matches <http://...> or <https://...> at i.
func matchAutoURL(s string, i int) (int, bool) {
	if i >= len(s) || s[i] != '<' {
		return 0, false
	}
	g := strings.IndexByte(s[i+1:], '>')
	if g < 0 {
		return 0, false
	}
	content := s[i+1 : i+1+g]
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(content, scheme) && len(content) > len(scheme) {
			return i + 1 + g + 1, true
		}
	}
	return 0, false
}

// matchAutoEmail matches <user@host.tld> at i: the bracket content must
// have at least one character before an "@", and after that "@" at least
// one character, a ".", and at least one more character.
func matchAutoEmail(s string, i int) (int, bool) {
	if i >= len(s) || s[i] != '<' {
		return 0, false
	}
	g := strings.IndexByte(s[i+1:], '>')
	if g < 0 {
		return 0, false
	}
	content := s[i+1 : i+1+g]
	for p := 1; p < len(content); p++ {
		if content[p] != '@' {
			continue
		}
		// A "." after the "@" with characters on both sides.
		for q := p + 2; q < len(content)-1; q++ {
			if content[q] == '.' {
				return i + 1 + g + 1, true
			}
		}
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Reference links
// ---------------------------------------------------------------------------

// mdRef is one reference-style link occurrence: [text][label].
type mdRef struct {
	start int
	end   int
	label string
}

// findMarkdownRefLinks returns all reference-style links in document order.
func findMarkdownRefLinks(s string) []mdRef {
	var out []mdRef
	for i := 0; i < len(s); {
		if s[i] == '!' || s[i] == '[' {
			if m, ok := matchRefLink(s, i); ok {
				out = append(out, m)
				i = m.end
				continue
			}
		}
		i++
	}
	return out
}

func matchRefLink(s string, i int) (mdRef, bool) {
	b := i
	if s[b] == '!' {
		b++
	}
	if b >= len(s) || s[b] != '[' {
		return mdRef{}, false
	}
	for _, close := range linkTextCloses(s, b+1) {
		k := skipSpace(s, close+1)
		if k >= len(s) || s[k] != '[' {
			continue
		}
		j := k + 1
		for j < len(s) && s[j] != '^' && s[j] != ']' {
			j++
		}
		if j < len(s) && s[j] == ']' {
			return mdRef{start: i, end: j + 1, label: s[k+1 : j]}, true
		}
	}
	return mdRef{}, false
}

// ---------------------------------------------------------------------------
// Inline syntax
// ---------------------------------------------------------------------------

// Alternative indices of the inline syntax grammar. The verdict set uses
// only the marker-capturing alternatives (bold through strikethrough);
// autolink matches contribute an empty marker.
const (
	mdBoldUnderscore = iota + 1
	mdBoldStar
	mdItalicUnderscore
	mdItalicStar
	mdCode
	mdStrike
	mdAutoURL
	mdAutoEmail
)

// mdSyntaxMarkerGroups is how many alternatives capture a marker literal
// for the verdict set.
const mdSyntaxMarkerGroups = 6

// mdSyntax is one inline syntax occurrence with its captured marker
// ("__", "**", "_", "*", a backtick fence, "~~", or "<").
type mdSyntax struct {
	group  int
	marker string
	start  int
	end    int
}

// findMDSyntax returns all inline syntax occurrences in document order,
// trying the alternatives in grammar order at each position.
func findMDSyntax(s string) []mdSyntax {
	var out []mdSyntax
	for i := 0; i < len(s); {
		if m, ok := matchMDSyntaxAt(s, i); ok {
			out = append(out, m)
			i = m.end
			continue
		}
		i++
	}
	return out
}

func matchMDSyntaxAt(s string, i int) (mdSyntax, bool) {
	if end, ok := matchDoubleDelim(s, i, '_'); ok {
		return mdSyntax{mdBoldUnderscore, "__", i, end}, true
	}
	if end, ok := matchDoubleDelim(s, i, '*'); ok {
		return mdSyntax{mdBoldStar, "**", i, end}, true
	}
	if end, ok := matchItalicUnderscore(s, i); ok {
		return mdSyntax{mdItalicUnderscore, "_", i, end}, true
	}
	if end, ok := matchItalicStar(s, i); ok {
		return mdSyntax{mdItalicStar, "*", i, end}, true
	}
	if end, fence, ok := matchCodeFence(s, i); ok {
		return mdSyntax{mdCode, fence, i, end}, true
	}
	if end, ok := matchStrike(s, i); ok {
		return mdSyntax{mdStrike, "~~", i, end}, true
	}
	if end, ok := matchAutoURL(s, i); ok {
		return mdSyntax{mdAutoURL, "<", i, end}, true
	}
	if end, ok := matchAutoEmail(s, i); ok {
		return mdSyntax{mdAutoEmail, "<", i, end}, true
	}
	return mdSyntax{}, false
}

// matchDoubleDelim matches dd...dd (bold): a double delimiter, lazy content
// of at least one character, and a closing double delimiter not followed by
// another delimiter character.
func matchDoubleDelim(s string, i int, d byte) (int, bool) {
	if i+1 >= len(s) || s[i] != d || s[i+1] != d {
		return 0, false
	}
	for j := i + 3; j+1 < len(s); j++ {
		if s[j] == d && s[j+1] == d && (j+2 >= len(s) || s[j+2] != d) {
			return j + 2, true
		}
	}
	return 0, false
}

// matchItalicUnderscore matches _text_ with word boundaries on both sides.
// Content units are "__" pairs or non-underscore characters; the closing
// underscore is tried lazily before consuming more content.
func matchItalicUnderscore(s string, i int) (int, bool) {
	if s[i] != '_' {
		return 0, false
	}
	if i > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:i]); isWordRune(r) {
			return 0, false
		}
	}
	k := i + 1
	units := 0
	for k < len(s) {
		if units > 0 && s[k] == '_' && wordBoundaryAfter(s, k+1) {
			return k + 1, true
		}
		if s[k] == '_' {
			if k+1 < len(s) && s[k+1] == '_' {
				k += 2
				units++
				continue
			}
			return 0, false
		}
		k++
		units++
	}
	return 0, false
}

// matchItalicStar matches *text*: content units are "**" pairs or
// non-asterisk characters; the closing asterisk must not be followed by
// another asterisk.
func matchItalicStar(s string, i int) (int, bool) {
	if s[i] != '*' {
		return 0, false
	}
	k := i + 1
	units := 0
	for k < len(s) {
		if units > 0 && s[k] == '*' && (k+1 >= len(s) || s[k+1] != '*') {
			return k + 1, true
		}
		if s[k] == '*' {
			if k+1 < len(s) && s[k+1] == '*' {
				k += 2
				units++
				continue
			}
			return 0, false
		}
		k++
		units++
	}
	return 0, false
}

// matchCodeFence matches `code` with variable-length backtick fences: the
// closing fence must repeat the opening fence length exactly and not be
// followed by another backtick, and the content must not end with a
// backtick. Shorter opening fences are tried when the full run finds no
// close.
func matchCodeFence(s string, i int) (int, string, bool) {
	if s[i] != '`' {
		return 0, "", false
	}
	run := i
	for run < len(s) && s[run] == '`' {
		run++
	}
	for n := run - i; n >= 1; n-- {
		open := i + n
		for m := open + 1; m+n <= len(s); m++ {
			if !isBacktickRun(s, m, n) {
				continue
			}
			region := s[open:m]
			if region == "" || region[len(region)-1] == '`' {
				continue
			}
			return m + n, s[i:open], true
		}
	}
	return 0, "", false
}

// isBacktickRun reports whether a run of exactly n backticks starts at m.
func isBacktickRun(s string, m, n int) bool {
	for j := m; j < m+n; j++ {
		if s[j] != '`' {
			return false
		}
	}
	return m+n >= len(s) || s[m+n] != '`'
}

// matchStrike matches ~~text~~: the content starts and ends with a
// non-space character.
func matchStrike(s string, i int) (int, bool) {
	if i+1 >= len(s) || s[i] != '~' || s[i+1] != '~' {
		return 0, false
	}
	if i+2 >= len(s) || isSpaceByte(s[i+2]) {
		return 0, false
	}
	for j := i + 3; j+2 <= len(s); j++ {
		if s[j] == '~' && s[j+1] == '~' && !isSpaceByte(s[j-1]) {
			return j + 2, true
		}
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Shared scanning helpers
// ---------------------------------------------------------------------------

func skipSpace(s string, k int) int {
	for k < len(s) && isSpaceByte(s[k]) {
		k++
	}
	return k
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBoundaryAfter reports a word boundary between an underscore at pos-1
// and the character at pos.
func wordBoundaryAfter(s string, pos int) bool {
	if pos >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[pos:])
	return !isWordRune(r)
}

// stripMarkdownLinks removes every link occurrence from s.
func stripMarkdownLinks(s string) string {
	matches := findMarkdownLinks(s)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m.start])
		last = m.end
	}
	b.WriteString(s[last:])
	return b.String()
}
