package xmlparse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFragment(t *testing.T) {
	root, err := Parse("Click <b>here</b> now", true)
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, "markcheck", root.Tag)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "b", root.Children[0].Tag)
}

func TestParseDocument(t *testing.T) {
	root, err := Parse(`<a href="/help"><b>x</b></a>`, false)
	require.NoError(t, err)
	assert.Equal(t, "a", root.Tag)
	assert.Equal(t, []string{"href"}, root.Attrs)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "b", root.Children[0].Tag)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		wrap bool
	}{
		{"unclosed element", "Click <b>here", true},
		{"mismatched nesting", "<a><b>x</a></b>", true},
		{"text outside root", "hello <b>x</b>", false},
		{"two roots", "<a>x</a><b>y</b>", false},
		{"empty document", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.in, tc.wrap)
			require.Error(t, err)
			var perr *ParseError
			assert.True(t, errors.As(err, &perr), "error is not a *ParseError: %v", err)
		})
	}
}

func TestDetectWrapping(t *testing.T) {
	root, wrapped, err := DetectWrapping("<a>whole document</a>")
	require.NoError(t, err)
	assert.False(t, wrapped)
	assert.Equal(t, "a", root.Tag)

	root, wrapped, err = DetectWrapping("Click <b>here</b>")
	require.NoError(t, err)
	assert.True(t, wrapped)
	assert.Equal(t, "markcheck", root.Tag)

	_, _, err = DetectWrapping("broken <b>")
	require.Error(t, err)
}

func TestCanParse(t *testing.T) {
	assert.True(t, CanParse("plain text"))
	assert.True(t, CanParse("Click <b>here</b>"))
	assert.True(t, CanParse("<a>doc</a>"))
	assert.False(t, CanParse("broken <b>"))
	assert.False(t, CanParse("<a><b>x</a></b>"))
}

func TestStripEntities(t *testing.T) {
	assert.Equal(t, "Tom   Jerry", StripEntities("Tom &amp; Jerry"))
	assert.Equal(t, "x   y", StripEntities("x &#160; y"))
	assert.Equal(t, "a & b", StripEntities("a & b"))
}

func TestTagRecords(t *testing.T) {
	root, err := Parse(`<a href="/x">one <b>two</b> <i class="c">three</i></a>`, false)
	require.NoError(t, err)

	records := TagRecords(root)
	want := []TagRecord{
		{Tag: "a", Attrs: []string{"href"}},
		{Tag: "b", Attrs: nil},
		{Tag: "i", Attrs: []string{"class"}},
	}
	assert.Equal(t, want, records)

	assert.Empty(t, TagRecords(nil))
}

func TestEqualRecords(t *testing.T) {
	a := []TagRecord{{Tag: "a", Attrs: []string{"href"}}, {Tag: "b"}}

	assert.True(t, EqualRecords(a, []TagRecord{{Tag: "a", Attrs: []string{"href"}}, {Tag: "b"}}))
	assert.False(t, EqualRecords(a, []TagRecord{{Tag: "a", Attrs: []string{"href"}}}))
	assert.False(t, EqualRecords(a, []TagRecord{{Tag: "a", Attrs: []string{"target"}}, {Tag: "b"}}))
	assert.False(t, EqualRecords(a, []TagRecord{{Tag: "b"}, {Tag: "a", Attrs: []string{"href"}}}))
	assert.True(t, EqualRecords(nil, nil))
}

func TestNamespaceExpansion(t *testing.T) {
	root, err := Parse(`<x:a xmlns:x="urn:ns">text</x:a>`, false)
	require.NoError(t, err)
	assert.Equal(t, "{urn:ns}a", root.Tag)
}
