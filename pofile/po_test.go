package pofile

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/lingokit/markcheck/checks"
)

func TestParseWriteRoundTrip(t *testing.T) {
	input := `msgid ""
msgstr ""
"Project-Id-Version: markcheck 1.0\n"
"Language: de\n"

#. extracted comment
#: app.go:12
#, md-text
msgid "See [docs](./docs.md)"
msgstr "Siehe [Doku](./docs.md)"

#, fuzzy
#| msgid "old count"
msgid "%d file"
msgid_plural "%d files"
msgstr[0] "%d Datei"
msgstr[1] "%d Dateien"
`

	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if f.Header == nil {
		t.Fatal("header entry missing")
	}
	if len(f.Entries) != 2 {
		t.Fatalf("entries len = %d, want 2", len(f.Entries))
	}

	link := f.EntryByMsgID("See [docs](./docs.md)")
	if link == nil {
		t.Fatal("link entry not found")
	}
	if !link.HasFlag("md-text") {
		t.Fatalf("link entry flags = %v, want md-text", link.Flags)
	}
	if len(link.References) != 1 || link.References[0] != "app.go:12" {
		t.Fatalf("link entry references = %v", link.References)
	}

	plural := f.EntryByMsgID("%d file")
	if plural == nil {
		t.Fatal("plural entry not found")
	}
	if !plural.IsFuzzy() {
		t.Fatal("plural entry should be fuzzy")
	}
	if plural.PreviousMsgID != "old count" {
		t.Fatalf("PreviousMsgID = %q, want old count", plural.PreviousMsgID)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	round, err := Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Parse roundtrip error: %v", err)
	}
	if got := round.EntryByMsgID("See [docs](./docs.md)"); got == nil || got.MsgStr != "Siehe [Doku](./docs.md)" {
		t.Fatalf("roundtrip link entry mismatch: %#v", got)
	}
	roundPlural := round.EntryByMsgID("%d file")
	if roundPlural == nil {
		t.Fatal("roundtrip plural entry missing")
	}
	if !reflect.DeepEqual(roundPlural.MsgStrPlural, map[int]string{0: "%d Datei", 1: "%d Dateien"}) {
		t.Fatalf("roundtrip plural forms = %v", roundPlural.MsgStrPlural)
	}
}

func TestParseMultilineStrings(t *testing.T) {
	input := `msgid ""
"first part "
"second part"
msgstr ""
"translated part one "
"translated part two"
`

	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	e := f.EntryByMsgID("first part second part")
	if e == nil {
		t.Fatalf("multiline entry not found: %#v", f.Entries)
	}
	if e.MsgStr != "translated part one translated part two" {
		t.Fatalf("MsgStr = %q", e.MsgStr)
	}
}

func TestParseObsoleteEntries(t *testing.T) {
	input := `msgid "live"
msgstr "lebendig"

#~ msgid "gone"
#~ msgstr "verschwunden"
`

	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(f.Entries) != 2 {
		t.Fatalf("entries len = %d, want 2", len(f.Entries))
	}
	if !f.Entries[1].Obsolete {
		t.Fatal("second entry should be obsolete")
	}
	if got := f.TranslatedEntries(); len(got) != 1 || got[0].MsgID != "live" {
		t.Fatalf("TranslatedEntries() = %#v, want only the live entry", got)
	}
	if f.EntryByMsgID("gone") != nil {
		t.Fatal("EntryByMsgID should skip obsolete entries")
	}
}

func TestIsTranslated(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{
			name:  "singular translated",
			entry: Entry{MsgID: "a", MsgStr: "b"},
			want:  true,
		},
		{
			name:  "singular empty",
			entry: Entry{MsgID: "a"},
			want:  false,
		},
		{
			name: "plural complete",
			entry: Entry{
				MsgID: "a", MsgIDPlural: "as",
				MsgStrPlural: map[int]string{0: "x", 1: "y"},
			},
			want: true,
		},
		{
			name: "plural with gap",
			entry: Entry{
				MsgID: "a", MsgIDPlural: "as",
				MsgStrPlural: map[int]string{0: "x", 1: ""},
			},
			want: false,
		},
		{
			name:  "header",
			entry: Entry{MsgStr: "meta"},
			want:  false,
		},
	}

	for _, tc := range tests {
		if got := tc.entry.IsTranslated(); got != tc.want {
			t.Fatalf("%s: IsTranslated() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEntryUnits(t *testing.T) {
	e := &Entry{
		MsgID:        "%d file",
		MsgIDPlural:  "%d files",
		MsgStrPlural: map[int]string{1: "%d Dateien", 0: "%d Datei"},
		Flags:        []string{"md-text"},
	}

	units := e.Units(checks.NewFlags("url"))
	if len(units) != 2 {
		t.Fatalf("Units() len = %d, want 2", len(units))
	}
	wantSources := []string{"%d file", "%d files"}
	for i, u := range units {
		if !reflect.DeepEqual(u.Sources, wantSources) {
			t.Fatalf("unit %d sources = %v, want %v", i, u.Sources, wantSources)
		}
		if !u.Flags.Has("md-text") || !u.Flags.Has("url") {
			t.Fatalf("unit %d flags = %v, want md-text and url", i, u.Flags)
		}
	}
	// Targets follow plural-index order.
	if units[0].Target != "%d Datei" || units[1].Target != "%d Dateien" {
		t.Fatalf("unit targets = %q, %q", units[0].Target, units[1].Target)
	}

	if units := (&Entry{Obsolete: true, MsgID: "x", MsgStr: "y"}).Units(nil); units != nil {
		t.Fatalf("Units(obsolete) = %#v, want nil", units)
	}
	if units := (&Entry{MsgStr: "header"}).Units(nil); units != nil {
		t.Fatalf("Units(header) = %#v, want nil", units)
	}
}

func TestEntryTargets(t *testing.T) {
	e := &Entry{MsgID: "a", MsgStr: "b"}
	if got := e.Targets(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("Targets(singular) = %#v", got)
	}

	e = &Entry{
		MsgID: "a", MsgIDPlural: "as",
		MsgStrPlural: map[int]string{2: "three", 0: "one", 1: "two"},
	}
	if got := e.Targets(); !reflect.DeepEqual(got, []string{"one", "two", "three"}) {
		t.Fatalf("Targets(plural) = %#v", got)
	}
}

func TestQuoteUnquote(t *testing.T) {
	cases := []string{
		"plain",
		`with "quotes"`,
		"tab\there",
		"line\nbreak",
		`back\slash`,
	}
	for _, c := range cases {
		if got := unquote(quote(c)); got != c {
			t.Fatalf("unquote(quote(%q)) = %q", c, got)
		}
	}
}
