// Package htmltags extracts tag/attribute allow-lists from HTML fragments
// and sanitizes fragments against them.
//
// The unsafe-HTML check builds its allow-list from the source string: a
// translation may only use the tags and attributes its source uses.
// Sanitize re-serializes the fragment with everything else removed, so a
// translation is safe exactly when sanitizing leaves it unchanged.
package htmltags

import (
	"strings"

	"golang.org/x/net/html"
)

// AllowList is the markup permitted in a fragment: tag names, and
// attribute names per tag.
type AllowList struct {
	Tags  map[string]bool
	Attrs map[string]map[string]bool
}

// dropContentTags are elements whose text content is removed along with
// the element when it is not allowed.
var dropContentTags = map[string]bool{
	"script": true,
	"style":  true,
}

// Extract collects the tag names and per-tag attribute names present in
// the fragment. Tag and attribute names are lowercased by tokenization.
func Extract(fragment string) AllowList {
	allow := AllowList{
		Tags:  make(map[string]bool),
		Attrs: make(map[string]map[string]bool),
	}
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return allow
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		t := z.Token()
		allow.Tags[t.Data] = true
		for _, a := range t.Attr {
			if allow.Attrs[t.Data] == nil {
				allow.Attrs[t.Data] = make(map[string]bool)
			}
			allow.Attrs[t.Data][a.Key] = true
		}
	}
}

// Sanitize re-serializes the fragment keeping only allowed tags and
// attributes. Disallowed elements are dropped while their children are
// kept, except script and style whose content is removed entirely.
// Comments and doctypes are dropped.
func Sanitize(fragment string, allow AllowList) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.WriteString(escapeText(string(z.Text())))
		case html.StartTagToken:
			t := z.Token()
			if !allow.Tags[t.Data] {
				if dropContentTags[t.Data] {
					skipElement(z, t.Data)
				}
				continue
			}
			writeTag(&b, t, allow, false)
		case html.SelfClosingTagToken:
			t := z.Token()
			if !allow.Tags[t.Data] {
				continue
			}
			writeTag(&b, t, allow, true)
		case html.EndTagToken:
			t := z.Token()
			if allow.Tags[t.Data] {
				b.WriteString("</" + t.Data + ">")
			}
		case html.CommentToken, html.DoctypeToken:
			// Dropped.
		}
	}
}

// skipElement discards tokens until the matching end tag.
func skipElement(z *html.Tokenizer, name string) {
	for {
		switch z.Next() {
		case html.ErrorToken:
			return
		case html.EndTagToken:
			if t := z.Token(); t.Data == name {
				return
			}
		}
	}
}

func writeTag(b *strings.Builder, t html.Token, allow AllowList, selfClosing bool) {
	b.WriteByte('<')
	b.WriteString(t.Data)
	for _, a := range t.Attr {
		if !allow.Attrs[t.Data][a.Key] {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.Val))
		b.WriteByte('"')
	}
	if selfClosing {
		b.WriteByte('/')
	}
	b.WriteByte('>')
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
