package checks

import "github.com/lingokit/markcheck/urlvalid"

// URLCheck verifies that the translation of a URL string is itself a valid
// URL. Only the target is validated; the source merely has to be non-empty.
type URLCheck struct {
	meta
}

// NewURL returns the URL check.
func NewURL() *URLCheck {
	return &URLCheck{meta{
		id:          "url",
		name:        "URL",
		description: "The translation does not contain an URL",
		enableFlag:  "url",
	}}
}

func (c *URLCheck) CheckSingle(source, target string, u *Unit) bool {
	if source == "" {
		return false
	}
	return urlvalid.Validate(target) != nil
}
