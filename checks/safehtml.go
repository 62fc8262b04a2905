package checks

import "github.com/lingokit/markcheck/htmltags"

// SafeHTMLCheck verifies that the translation only uses HTML markup that is
// also present in the source: the target is sanitized against a tag and
// attribute allow-list derived from the source, and any change means the
// target carried markup the source does not vouch for.
type SafeHTMLCheck struct {
	meta
}

// NewSafeHTML returns the unsafe HTML check.
func NewSafeHTML() *SafeHTMLCheck {
	return &SafeHTMLCheck{meta{
		id:          "safe-html",
		name:        "Unsafe HTML",
		description: "The translation uses unsafe HTML markup",
		enableFlag:  "safe-html",
	}}
}

func (c *SafeHTMLCheck) CheckSingle(source, target string, u *Unit) bool {
	// Markdown link targets would read as markup; strip the links first
	// when the unit is Markdown.
	if u.HasFlag("md-text") {
		target = stripMarkdownLinks(target)
	}
	return htmltags.Sanitize(target, htmltags.Extract(source)) != target
}
