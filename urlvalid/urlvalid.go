// Package urlvalid validates absolute URLs with the strictness of common
// web-framework validators: a known scheme, a resolvable-looking host
// (IP literal, localhost, or a dotted hostname with a plausible top-level
// domain), and no stray whitespace or control characters.
package urlvalid

import (
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// maxLength caps accepted URLs.
const maxLength = 2048

// allowedSchemes are the schemes accepted by Validate.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"ftps":  true,
}

// ValidationError is a structured rejection from the URL grammar.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid URL: " + e.Reason
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// Validate checks raw against the URL grammar and returns a
// *ValidationError describing the first violation, or nil.
func Validate(raw string) error {
	if raw == "" {
		return invalid("empty")
	}
	if len(raw) > maxLength {
		return invalid("too long")
	}
	for _, r := range raw {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return invalid("whitespace or control character")
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return invalid(err.Error())
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return invalid("unsupported scheme " + strconv.Quote(u.Scheme))
	}
	host := u.Hostname()
	if host == "" {
		return invalid("missing host")
	}
	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return invalid("port out of range")
		}
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		if addr.Is4() || addr.Is6() {
			return nil
		}
	}
	if looksLikeIPv4(host) {
		// Dotted-quad shaped but not a valid address.
		return invalid("malformed IPv4 address")
	}
	return validateHostname(host)
}

// looksLikeIPv4 reports whether the host is made of dot-separated digit
// groups, which must then be a well-formed address.
func looksLikeIPv4(host string) bool {
	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		for i := 0; i < len(p); i++ {
			if p[i] < '0' || p[i] > '9' {
				return false
			}
		}
	}
	return true
}

// validateHostname checks a dotted hostname: each label is 1-63 characters
// of letters, digits and inner hyphens, and the final label looks like a
// top-level domain. A single trailing dot is allowed. "localhost" passes
// without a domain.
func validateHostname(host string) error {
	host = strings.TrimSuffix(host, ".")
	if strings.EqualFold(host, "localhost") {
		return nil
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return invalid("missing top-level domain")
	}
	for _, label := range labels {
		if err := validateLabel(label); err != nil {
			return err
		}
	}
	return validateTLD(labels[len(labels)-1])
}

func validateLabel(label string) error {
	if label == "" || len(label) > 63 {
		return invalid("bad label length")
	}
	runes := []rune(label)
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
		case r == '-':
			if i == 0 || i == len(runes)-1 {
				return invalid("label starts or ends with hyphen")
			}
		default:
			return invalid("bad character in hostname")
		}
	}
	return nil
}

func validateTLD(tld string) error {
	if strings.HasPrefix(tld, "xn--") {
		for _, r := range tld[4:] {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return invalid("bad punycode top-level domain")
			}
		}
		return nil
	}
	runes := []rune(tld)
	if len(runes) < 2 || len(runes) > 63 {
		return invalid("bad top-level domain length")
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return invalid("bad top-level domain")
		}
	}
	return nil
}
