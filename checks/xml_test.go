package checks

import (
	"reflect"
	"testing"
)

func xmlUnit(source, target string) *Unit {
	return &Unit{
		Sources: []string{source},
		Target:  target,
	}
}

func TestXMLValidityCheckSingle(t *testing.T) {
	c := NewXMLValidity()

	tests := []struct {
		name   string
		source string
		target string
		want   bool
	}{
		{
			name:   "both valid",
			source: "Click <b>here</b>",
			target: "Klicke <b>hier</b>",
			want:   false,
		},
		{
			name:   "unclosed target element",
			source: "Click <b>here</b>",
			target: "Klicke <b>hier",
			want:   true,
		},
		{
			name:   "mismatched target nesting",
			source: "<a><b>x</b></a>",
			target: "<a><b>x</a></b>",
			want:   true,
		},
		{
			name:   "invalid source abstains",
			source: "broken <b>source",
			target: "whatever <i>target",
			want:   false,
		},
		{
			name:   "entities do not break parsing",
			source: "Tom &amp; <b>Jerry</b>",
			target: "Tom &amp; <b>Jerry</b>",
			want:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := xmlUnit(tc.source, tc.target)
			if got := c.CheckSingle(tc.source, tc.target, u); got != tc.want {
				t.Fatalf("CheckSingle(%q, %q) = %v, want %v", tc.source, tc.target, got, tc.want)
			}
		})
	}
}

func TestXMLTagsCheckSingle(t *testing.T) {
	c := NewXMLTags()

	tests := []struct {
		name   string
		source string
		target string
		want   bool
	}{
		{
			name:   "same structure",
			source: "Click <b>here</b>",
			target: "Klicke <b>hier</b>",
			want:   false,
		},
		{
			name:   "different tag",
			source: "Click <b>here</b>",
			target: "Klicke <i>hier</i>",
			want:   true,
		},
		{
			name:   "missing element",
			source: "Click <b>here</b>",
			target: "Klicke hier",
			want:   true,
		},
		{
			name:   "attribute name changed",
			source: `<a href="x">link</a>`,
			target: `<a target="x">Link</a>`,
			want:   true,
		},
		{
			name:   "attribute value may change",
			source: `<a href="/en/">link</a>`,
			target: `<a href="/de/">Link</a>`,
			want:   false,
		},
		{
			name:   "text content ignored",
			source: "<p>one two three</p>",
			target: "<p>eins</p>",
			want:   false,
		},
		{
			name:   "unparseable target abstains",
			source: "Click <b>here</b>",
			target: "Klicke <b>hier",
			want:   false,
		},
		{
			name:   "element order matters",
			source: "<b>x</b> and <i>y</i>",
			target: "<i>y</i> und <b>x</b>",
			want:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := xmlUnit(tc.source, tc.target)
			if got := c.CheckSingle(tc.source, tc.target, u); got != tc.want {
				t.Fatalf("CheckSingle(%q, %q) = %v, want %v", tc.source, tc.target, got, tc.want)
			}
		})
	}
}

func TestXMLSkipGate(t *testing.T) {
	c := NewXMLTags()

	// No angle-bracket markup in any source variant.
	if !c.Skip(xmlUnit("plain text", "Text")) {
		t.Fatalf("Skip(plain) = false, want true")
	}

	// Markup present and parseable.
	if c.Skip(xmlUnit("Click <b>here</b>", "x")) {
		t.Fatalf("Skip(markup) = true, want false")
	}

	// A source that only looks like markup is skipped.
	if !c.Skip(xmlUnit("if a <b> c then", "x")) {
		t.Fatalf("Skip(pseudo markup) = false, want true")
	}

	// The xml-text flag forces the check on plain text.
	u := xmlUnit("plain text", "Text")
	u.Flags = NewFlags("xml-text")
	if c.Skip(u) {
		t.Fatalf("Skip(xml-text) = true, want false")
	}

	// HTML checking supersedes the XML family.
	u = xmlUnit("Click <b>here</b>", "x")
	u.Flags = NewFlags("safe-html")
	if !c.Skip(u) {
		t.Fatalf("Skip(safe-html) = false, want true")
	}

	// Every plural variant has to parse.
	u = &Unit{Sources: []string{"<b>ok</b>", "broken <b>plural"}, Target: "x"}
	if !c.Skip(u) {
		t.Fatalf("Skip(one broken plural) = false, want true")
	}
}

func TestXMLTagsHighlight(t *testing.T) {
	c := NewXMLTags()
	src := "Click <b>here</b> &amp; enjoy"
	u := xmlUnit(src, "x")

	spans := c.Highlight(src, u)
	want := []Span{
		{6, 9, "<b>"},
		{13, 17, "</b>"},
		{18, 23, "&amp;"},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Fatalf("Highlight() = %#v, want %#v", spans, want)
	}

	// Entities inside a tag token are covered by the tag span already.
	src = `<a href="?a=b&amp;c=d">x</a> &gt;`
	spans = c.Highlight(src, xmlUnit(src, "x"))
	for _, sp := range spans {
		if sp.Text == "&amp;" {
			t.Fatalf("Highlight() emitted nested entity span: %#v", spans)
		}
	}
	last := spans[len(spans)-1]
	if last.Text != "&gt;" {
		t.Fatalf("Highlight() last span = %#v, want the trailing entity", last)
	}

	// Unparseable sources highlight nothing.
	if got := c.Highlight("broken <b>", xmlUnit("broken <b>", "x")); got != nil {
		t.Fatalf("Highlight(broken) = %#v, want nil", got)
	}
}
