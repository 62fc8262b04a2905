// markcheck — translation markup consistency checker for gettext PO files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lingokit/markcheck/checks"
	"github.com/lingokit/markcheck/config"
	"github.com/lingokit/markcheck/i18n"
	"github.com/lingokit/markcheck/pofile"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "markcheck",
		Short: "Translation markup consistency checker",
		Long: `markcheck — translation markup consistency checker.

Compares translated strings against their sources for markup consistency:
BBCode tags, XML validity and structure, Markdown links, references and
inline syntax, URL validity, and HTML safety. Works on individual strings
or whole gettext PO files, where "#," flag comments carry per-unit check
flags (md-text, safe-html, xml-text, url, ignore-<check>).

Commands:
  check       Run checks on a source/target pair or a PO file
  highlight   Show markup spans a translator should preserve
  fixup       Apply automatic repairs to a PO file
  list        List available checks`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory (for "+config.FileName+")")

	root.AddCommand(
		newCheckCmd(),
		newHighlightCmd(),
		newFixupCmd(),
		newListCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("markcheck version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// list (read-only: available checks)
// ---------------------------------------------------------------------------

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available checks",
		Long:  `List every check with its ID, default state, and enable flag.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(i18n.T("Available checks:"))
			for _, c := range checks.DefaultRegistry().Checks() {
				state := i18n.T("enabled by default")
				if !c.EnabledByDefault() {
					state = fmt.Sprintf("%s %q", i18n.T("requires flag"), c.EnableFlag())
				}
				fmt.Printf("  %-12s %-22s %s\n", c.ID(), c.Name(), state)
			}
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// check (run checks on a string pair or a PO file)
// ---------------------------------------------------------------------------

func newCheckCmd() *cobra.Command {
	var (
		source   string
		target   string
		poPath   string
		flagList string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run checks on a source/target pair or a PO file",
		Long: `Run all applicable checks and report mismatches.

With --source/--target a single pair is checked; --flags supplies the unit
flags. With --po every translated entry of the file is checked, taking unit
flags from the entry's "#," comments. Project configuration is read from
` + config.FileName + ` under --root. Exits non-zero when any check fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if poPath == "" && target == "" {
				return fmt.Errorf("either --po or --source/--target is required")
			}
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			reg := cfg.Registry(checks.DefaultRegistry())
			extra := cfg.UnitFlags(reg)

			var failures int
			if poPath != "" {
				failures, err = checkPOFile(reg, extra, poPath)
				if err != nil {
					return err
				}
			} else {
				unit := &checks.Unit{
					Sources: []string{source},
					Target:  target,
					Flags:   checks.ParseFlags(flagList),
				}
				unit.Flags.Merge(extra)
				results := reg.Run(unit)
				for _, res := range results {
					logWarning("%s: %s", res.Name, res.Description)
				}
				failures = len(results)
			}

			if failures > 0 {
				return fmt.Errorf(i18n.N("%d check failed", "%d checks failed", failures), failures)
			}
			logSuccess("%s", i18n.T("No checks failed"))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source string")
	cmd.Flags().StringVar(&target, "target", "", "Translated string")
	cmd.Flags().StringVar(&poPath, "po", "", "PO file to check")
	cmd.Flags().StringVar(&flagList, "flags", "", "Unit flags (comma-separated)")

	return cmd
}

func checkPOFile(reg *checks.Registry, extra checks.Flags, path string) (int, error) {
	f, err := pofile.ParseFile(path)
	if err != nil {
		return 0, err
	}
	failures := 0
	for _, entry := range f.TranslatedEntries() {
		for _, unit := range entry.Units(extra) {
			for _, res := range reg.Run(unit) {
				logWarning("%s: %s\n  msgid %q", res.Name, res.Description, entry.MsgID)
				failures++
			}
		}
	}
	logInfo("%s: %d entries", path, len(f.TranslatedEntries()))
	return failures, nil
}

// ---------------------------------------------------------------------------
// highlight (show markup spans over a source string)
// ---------------------------------------------------------------------------

func newHighlightCmd() *cobra.Command {
	var (
		source   string
		flagList string
	)

	cmd := &cobra.Command{
		Use:   "highlight",
		Short: "Show markup spans a translator should preserve",
		Long: `Print the source-string spans each highlighting check would
emphasize in a translation UI, as start-end offsets with the matched text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" {
				return fmt.Errorf("--source is required")
			}
			// Highlighting gates on the unit like checking does; the
			// source stands in for the missing target.
			unit := &checks.Unit{
				Sources: []string{source},
				Target:  source,
				Flags:   checks.ParseFlags(flagList),
			}
			for _, c := range checks.DefaultRegistry().Checks() {
				h, ok := c.(checks.Highlighter)
				if !ok {
					continue
				}
				spans := h.Highlight(source, unit)
				if len(spans) == 0 {
					continue
				}
				fmt.Printf("%s:\n", c.ID())
				for _, sp := range spans {
					fmt.Printf("  %3d-%-3d %s\n", sp.Start, sp.End, sp.Text)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source string")
	cmd.Flags().StringVar(&flagList, "flags", "", "Unit flags (comma-separated)")

	return cmd
}

// ---------------------------------------------------------------------------
// fixup (apply automatic repairs to a PO file)
// ---------------------------------------------------------------------------

func newFixupCmd() *cobra.Command {
	var (
		poPath string
		write  bool
	)

	cmd := &cobra.Command{
		Use:   "fixup",
		Short: "Apply automatic repairs to a PO file",
		Long: `Apply the automatic repairs offered by checks (currently the
Markdown broken-link fix: "] (" -> "](") to every translated entry.
Without --write the repaired entries are only reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if poPath == "" {
				return fmt.Errorf("--po is required")
			}
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			reg := cfg.Registry(checks.DefaultRegistry())
			extra := cfg.UnitFlags(reg)

			f, err := pofile.ParseFile(poPath)
			if err != nil {
				return err
			}
			repaired := fixupEntries(reg, extra, f)
			if repaired == 0 {
				logInfo("%s", i18n.T("Nothing to repair"))
				return nil
			}
			logSuccess(i18n.N("%d entry repaired", "%d entries repaired", repaired), repaired)
			if write {
				return f.WriteFile(poPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&poPath, "po", "", "PO file to repair")
	cmd.Flags().BoolVar(&write, "write", false, "Write repairs back to the file")

	return cmd
}

// fixupEntries applies every fixer's rules to the file's translated
// entries and returns how many entries changed.
func fixupEntries(reg *checks.Registry, extra checks.Flags, f *pofile.File) int {
	type fixerCheck struct {
		checks.Check
		checks.Fixer
	}
	var fixers []fixerCheck
	for _, c := range reg.Checks() {
		if fx, ok := c.(checks.Fixer); ok {
			fixers = append(fixers, fixerCheck{c, fx})
		}
	}

	repaired := 0
	for _, entry := range f.TranslatedEntries() {
		changed := false
		for _, unit := range entry.Units(extra) {
			for _, fx := range fixers {
				if fx.Skip(unit) {
					continue
				}
				for _, rule := range fx.Fixup(unit) {
					if applyFixup(entry, rule) {
						changed = true
					}
				}
			}
		}
		if changed {
			repaired++
		}
	}
	return repaired
}

// applyFixup rewrites every target form of the entry and reports whether
// anything changed.
func applyFixup(entry *pofile.Entry, rule checks.FixupRule) bool {
	changed := false
	if fixed := rule.Apply(entry.MsgStr); fixed != entry.MsgStr {
		entry.MsgStr = fixed
		changed = true
	}
	for idx, form := range entry.MsgStrPlural {
		if fixed := rule.Apply(form); fixed != form {
			entry.MsgStrPlural[idx] = fixed
			changed = true
		}
	}
	return changed
}
