package vibeguard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vibeguard/vibeguard/internal/config"
	"github.com/vibeguard/vibeguard/internal/envfile"
	"github.com/vibeguard/vibeguard/internal/remediate"
	"github.com/vibeguard/vibeguard/internal/report"
	"github.com/vibeguard/vibeguard/internal/scanner"
	"github.com/vibeguard/vibeguard/internal/tui"
	"github.com/vibeguard/vibeguard/internal/types"
)

var (
	fixRoot   string
	fixFile   string
	fixLine   int
	fixName   string
	fixYes    bool
	fixDryRun bool
	fixAll    bool
)

func init() {
	fix := &cobra.Command{
		Use:   "fix --file <path> [--line N]",
		Short: "Move a hardcoded secret into .env and read it from the environment",
		Long: "Saves the secret to the env file, replaces the literal with the language's " +
			"environment lookup (adding an import when needed) and makes sure the env file is ignored by git.",
		RunE: runFix,
	}
	rootCmd.AddCommand(fix)

	fix.Flags().StringVar(&fixRoot, "root", ".", "workspace root holding the env file")
	fix.Flags().StringVarP(&fixFile, "file", "f", "", "file containing the secret")
	fix.Flags().IntVarP(&fixLine, "line", "l", 0, "only fix the secret on this line")
	fix.Flags().StringVar(&fixName, "name", "", "environment variable name (UPPER_SNAKE_CASE)")
	fix.Flags().BoolVarP(&fixYes, "yes", "y", false, "accept suggested names without prompting")
	fix.Flags().BoolVar(&fixDryRun, "dry-run", false, "preview the change without writing anything")
	fix.Flags().BoolVar(&fixAll, "all", false, "fix every secret in the file")

	var ignoreRoot string
	gitignoreCmd := &cobra.Command{
		Use:   "gitignore",
		Short: "Add the env file to .gitignore",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, s, err := loadSettings(cmd, ignoreRoot)
			if err != nil {
				return err
			}
			changed, err := newFixer(root, s).EnsureIgnored()
			if err != nil {
				return err
			}
			if changed {
				fmt.Printf("Added %s to %s\n", s.EnvFile, s.IgnoreFile)
			} else {
				fmt.Printf("%s is already listed in %s\n", s.EnvFile, s.IgnoreFile)
			}
			return nil
		},
	}
	gitignoreCmd.Flags().StringVar(&ignoreRoot, "root", ".", "workspace root")
	fix.AddCommand(gitignoreCmd)
}

func runFix(cmd *cobra.Command, _ []string) error {
	if fixFile == "" {
		return errors.New("--file is required")
	}
	if fixAll && fixName != "" {
		return errors.New("--name cannot be combined with --all")
	}
	if fixName != "" {
		if err := remediate.ValidateName(fixName); err != nil {
			return fmt.Errorf("invalid --name %q: %w", fixName, err)
		}
	}
	root, s, err := loadSettings(cmd, fixRoot)
	if err != nil {
		return err
	}
	if !s.Enable {
		fmt.Fprintln(os.Stderr, "VibeGuard is disabled for this workspace (enable: false)")
		return nil
	}
	abs, err := filepath.Abs(fixFile)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return err
	}
	text := string(b)

	var findings []types.Finding
	for _, f := range scanner.Scan(abs, text) {
		if fixLine == 0 || f.Line == fixLine {
			findings = append(findings, f)
		}
	}
	if len(findings) == 0 {
		fmt.Printf("No hardcoded secrets found in %s\n", fixFile)
		return nil
	}
	if !fixAll {
		if len(findings) > 1 {
			fmt.Fprintf(os.Stderr, "%d secrets found; fixing the first (use --all for every one)\n", len(findings))
		}
		findings = findings[:1]
	}

	fx := newFixer(root, s)
	choose := nameChooser(s)

	if fixDryRun {
		return previewFixes(fx, s, text, findings, choose)
	}

	if !fixAll {
		f := findings[0]
		if remediate.InConstant(text, f.Path, f.Span) {
			return fmt.Errorf("%s:%d: %w", fixFile, f.Line, remediate.ErrConstantDeclaration)
		}
		name, ok, err := choose(f, suggestName(text, f))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Skipped")
			return nil
		}
		out, err := fixFinding(cmd.Context(), fx, f, name)
		if err != nil {
			return err
		}
		fmt.Println(out.Summary())
		return nil
	}

	outs, err := fx.FixAll(cmd.Context(), abs, choose)
	for _, out := range outs {
		recordFix(fx, out)
		fmt.Println(out.Summary())
	}
	if err != nil {
		return err
	}
	if len(outs) == 0 {
		fmt.Println("Nothing fixed")
	}
	return nil
}

// nameChooser returns how a variable name is picked for each finding: the
// --name flag, an interactive prompt, or the suggestion as is.
func nameChooser(s config.Settings) remediate.NameFunc {
	return func(f types.Finding, suggested string) (string, bool, error) {
		if fixName != "" {
			return fixName, true, nil
		}
		if fixYes || !s.ConfirmVariableName || !tui.IsInteractive() {
			return suggested, true, nil
		}
		fmt.Fprintf(os.Stderr, "%s:%d  %s  %s\n", filepath.Base(f.Path), f.Line, f.Detector, report.MaskValue(f.Match))
		return tui.PromptName(suggested, remediate.ValidateName)
	}
}

// previewFixes prints what each fix would change, computed against the
// current file and env contents. Nothing is written.
func previewFixes(fx *remediate.Fixer, s config.Settings, text string, findings []types.Finding, choose remediate.NameFunc) error {
	envPath := filepath.Join(fx.Root, s.EnvFile)
	store, err := envfile.ReadOptional(envPath)
	if err != nil {
		return err
	}
	for _, f := range findings {
		if remediate.InConstant(text, f.Path, f.Span) {
			fmt.Printf("(dry-run) %s:%d left in place: %v\n", fixFile, f.Line, remediate.ErrConstantDeclaration)
			continue
		}
		name, ok, err := choose(f, suggestName(text, f))
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		merged, err := envfile.Merge(store, name, f.Match)
		if err != nil {
			return err
		}
		plan := remediate.PlanRewrite(text, f.Path, f.Span, merged.Name)
		start := scanner.LineStart(text, plan.Edit.Span.Start)
		end := scanner.LineEnd(text, plan.Edit.Span.End)
		// the secret itself is never printed
		before := text[start:f.Span.Start] + report.MaskValue(f.Match) + text[f.Span.End:end]
		after := text[start:plan.Edit.Span.Start] + plan.Edit.Text + text[plan.Edit.Span.End:end]
		var added []string
		if plan.Import != nil {
			added = append(added, strings.TrimRight(plan.Import.Text, "\n"))
		}
		added = append(added, after)
		report.PreviewEdit(os.Stdout, fixFile, []string{before}, added, s.NoColor)
		switch {
		case !merged.Changed:
			fmt.Printf("(dry-run) value already stored as %s in %s\n", merged.Name, s.EnvFile)
		case merged.Renamed:
			fmt.Printf("(dry-run) would save %s to %s (renamed from %s to avoid conflict)\n", merged.Name, s.EnvFile, name)
		default:
			fmt.Printf("(dry-run) would save %s to %s\n", merged.Name, s.EnvFile)
		}
		store = merged.Content
	}
	return nil
}
