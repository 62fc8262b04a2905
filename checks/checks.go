// Package checks implements markup consistency checks between a source
// string and its translation: BBCode, XML validity and structure, Markdown
// links, references and inline syntax, URL validity, and HTML safety.
//
// Each check is a pure function of (source, target, unit flags) returning a
// binary mismatch verdict. Selected checks additionally produce highlight
// spans over the source string for UI emphasis, and the Markdown link check
// offers an automatic fixup for a common translation mistake. Checks hold no
// mutable state and are safe for concurrent use.
//
// Usage:
//
//	reg := checks.DefaultRegistry()
//	unit := &checks.Unit{
//	    Sources: []string{"<b>Hello</b>"},
//	    Target:  "<i>Hola</i>",
//	}
//	for _, res := range reg.Run(unit) {
//	    fmt.Println(res.ID, res.Description)
//	}
package checks

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Flags and units
// ---------------------------------------------------------------------------

// Flags is a set of per-unit feature flags (e.g. "md-text", "safe-html",
// "xml-text", "ignore-bbcode").
type Flags map[string]struct{}

// NewFlags builds a flag set from individual flag names.
func NewFlags(names ...string) Flags {
	f := make(Flags, len(names))
	for _, n := range names {
		f.Add(n)
	}
	return f
}

// ParseFlags builds a flag set from a comma- or space-separated list.
func ParseFlags(list string) Flags {
	f := make(Flags)
	for _, n := range strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		f.Add(n)
	}
	return f
}

// Has reports whether the flag is present.
func (f Flags) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// Add inserts a flag. Empty names are ignored.
func (f Flags) Add(name string) {
	if name != "" {
		f[name] = struct{}{}
	}
}

// Merge inserts all flags from other.
func (f Flags) Merge(other Flags) {
	for n := range other {
		f[n] = struct{}{}
	}
}

// List returns the flags as a slice in unspecified order.
func (f Flags) List() []string {
	out := make([]string, 0, len(f))
	for n := range f {
		out = append(out, n)
	}
	return out
}

// Unit is one translatable string as seen by the checker: the source text
// (one entry per plural variant), the translated text, and metadata flags.
// Units are read-only for checks.
type Unit struct {
	// Sources holds the source plural variants, at least one.
	Sources []string
	// Target is the translated text under inspection.
	Target string
	// Flags are the unit's enabled feature flags.
	Flags Flags
	// ReadOnly marks units that must never be flagged.
	ReadOnly bool
}

// SourcePlurals returns the source plural variants, never empty.
func (u *Unit) SourcePlurals() []string {
	if len(u.Sources) == 0 {
		return []string{""}
	}
	return u.Sources
}

// HasFlag reports whether the unit carries the given flag.
func (u *Unit) HasFlag(name string) bool {
	return u != nil && u.Flags.Has(name)
}

// ---------------------------------------------------------------------------
// Check contracts
// ---------------------------------------------------------------------------

// Span is a highlighted region of the source string, used only for UI
// presentation, never for verdicts. Offsets are byte positions satisfying
// 0 <= Start < End <= len(source).
type Span struct {
	Start int
	End   int
	Text  string
}

// FixupRule is an automatic repair: replace all matches of Pattern with
// Replacement in the target string.
type FixupRule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply runs the rule over s.
func (r FixupRule) Apply(s string) string {
	return r.Pattern.ReplaceAllString(s, r.Replacement)
}

// Check is a single markup consistency check.
type Check interface {
	// ID is the stable check identifier (e.g. "bbcode", "xml-tags").
	ID() string
	// Name is the human-readable check name.
	Name() string
	// Description explains what a mismatch means.
	Description() string
	// EnabledByDefault reports whether the check runs without an explicit
	// enable flag.
	EnabledByDefault() bool
	// EnableFlag names the unit flag that enables a default-disabled check.
	EnableFlag() string
	// Skip reports whether the check is inapplicable to the unit. Skipping
	// is a normal silent outcome, not a failure.
	Skip(u *Unit) bool
	// CheckSingle compares one source variant against the target and
	// reports true on mismatch. It never panics on well-formed input;
	// parse and validation failures convert locally to verdicts.
	CheckSingle(source, target string, u *Unit) bool
}

// Highlighter is implemented by checks that can mark markup occurrences in
// the source string. Highlight recomputes its result on every call; repeated
// calls over the same source yield identical spans.
type Highlighter interface {
	Highlight(source string, u *Unit) []Span
}

// Fixer is implemented by checks that can offer automatic repairs for the
// target string.
type Fixer interface {
	Fixup(u *Unit) []FixupRule
}

// ---------------------------------------------------------------------------
// Shared check descriptor
// ---------------------------------------------------------------------------

// meta carries the static configuration of a check: identity and the
// explicit enabled-by-default record.
type meta struct {
	id          string
	name        string
	description string
	defaultOn   bool
	enableFlag  string
}

func (m meta) ID() string             { return m.id }
func (m meta) Name() string           { return m.name }
func (m meta) Description() string    { return m.description }
func (m meta) EnabledByDefault() bool { return m.defaultOn }
func (m meta) EnableFlag() string     { return m.enableFlag }

// Skip applies the base gate shared by all checks.
func (m meta) Skip(u *Unit) bool { return m.baseSkip(u) }

func (m meta) baseSkip(u *Unit) bool {
	if u == nil || u.ReadOnly || u.Target == "" {
		return true
	}
	if u.Flags.Has("ignore-" + m.id) {
		return true
	}
	if !m.defaultOn && !u.Flags.Has(m.enableFlag) {
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// Result identifies a failed check for one unit.
type Result struct {
	ID          string
	Name        string
	Description string
}

// Registry is an ordered collection of checks.
type Registry struct {
	checks []Check
}

// NewRegistry builds a registry running the given checks in order.
func NewRegistry(cs ...Check) *Registry {
	return &Registry{checks: cs}
}

// DefaultRegistry returns all built-in checks in their canonical order.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewBBCode(),
		NewXMLValidity(),
		NewXMLTags(),
		NewMarkdownRefLink(),
		NewMarkdownLink(),
		NewMarkdownSyntax(),
		NewURL(),
		NewSafeHTML(),
	)
}

// Checks returns the registered checks in order.
func (r *Registry) Checks() []Check {
	return r.checks
}

// Get returns the check with the given ID, or nil.
func (r *Registry) Get(id string) Check {
	for _, c := range r.checks {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// Without returns a registry with the named checks removed.
func (r *Registry) Without(ids ...string) *Registry {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]Check, 0, len(r.checks))
	for _, c := range r.checks {
		if !drop[c.ID()] {
			kept = append(kept, c)
		}
	}
	return &Registry{checks: kept}
}

// Run evaluates every applicable check against the unit and returns the
// mismatches in registry order. A unit mismatches a check when any source
// plural variant mismatches the target.
func (r *Registry) Run(u *Unit) []Result {
	var results []Result
	for _, c := range r.checks {
		if c.Skip(u) {
			continue
		}
		for _, src := range u.SourcePlurals() {
			if c.CheckSingle(src, u.Target, u) {
				results = append(results, Result{
					ID:          c.ID(),
					Name:        c.Name(),
					Description: c.Description(),
				})
				break
			}
		}
	}
	return results
}
