package checks

import "testing"

func TestSafeHTMLCheckSingle(t *testing.T) {
	c := NewSafeHTML()

	tests := []struct {
		name   string
		source string
		target string
		flags  []string
		want   bool
	}{
		{
			name:   "same markup",
			source: `Click <a href="/help">here</a>`,
			target: `Klicke <a href="/hilfe">hier</a>`,
			flags:  []string{"safe-html"},
			want:   false,
		},
		{
			name:   "script injected",
			source: "Click <b>here</b>",
			target: "Klicke <b>hier</b><script>alert(1)</script>",
			flags:  []string{"safe-html"},
			want:   true,
		},
		{
			name:   "event handler injected",
			source: `<a href="/help">help</a>`,
			target: `<a href="/hilfe" onclick="evil()">Hilfe</a>`,
			flags:  []string{"safe-html"},
			want:   true,
		},
		{
			name:   "tag not in source",
			source: "Click <b>here</b>",
			target: "Klicke <i>hier</i>",
			flags:  []string{"safe-html"},
			want:   true,
		},
		{
			name:   "plain text is safe",
			source: "Click <b>here</b>",
			target: "Klicke hier",
			flags:  []string{"safe-html"},
			want:   false,
		},
		{
			name:   "markdown link targets ignored",
			source: "See <b>docs</b>",
			target: "Siehe <b>Doku</b> [hier](https://example.com/x<y)",
			flags:  []string{"safe-html", "md-text"},
			want:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := &Unit{
				Sources: []string{tc.source},
				Target:  tc.target,
				Flags:   NewFlags(tc.flags...),
			}
			if got := c.CheckSingle(tc.source, tc.target, u); got != tc.want {
				t.Fatalf("CheckSingle(%q, %q) = %v, want %v", tc.source, tc.target, got, tc.want)
			}
		})
	}
}
