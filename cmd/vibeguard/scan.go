package vibeguard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vibeguard/vibeguard/internal/config"
	"github.com/vibeguard/vibeguard/internal/detectors"
	"github.com/vibeguard/vibeguard/internal/engine"
	"github.com/vibeguard/vibeguard/internal/remediate"
	"github.com/vibeguard/vibeguard/internal/report"
	"github.com/vibeguard/vibeguard/internal/tui"
	"github.com/vibeguard/vibeguard/internal/types"
	"github.com/vibeguard/vibeguard/internal/update"
)

var (
	flagPath     string
	flagInclude  string
	flagExclude  string
	flagMaxBytes int64
	flagTable    bool
	flagText     bool
	flagTUI      bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan files for hardcoded secrets",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "workspace to scan")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (default 1 MiB)")
	cmd.Flags().BoolVar(&flagTable, "table", false, "output in table format with borders (default)")
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text columnar format")
	cmd.Flags().BoolVar(&flagTUI, "tui", false, "browse and fix findings interactively")
}

func runScan(cmd *cobra.Command, _ []string) error {
	root, s, err := loadSettings(cmd, flagPath)
	if err != nil {
		return err
	}
	if !s.Enable {
		fmt.Fprintln(os.Stderr, "VibeGuard is disabled for this workspace (enable: false)")
		return nil
	}
	cfg := engineConfig(root, s)
	cfg.IncludeGlobs = pickString(flagInclude, s.Include)
	cfg.ExcludeGlobs = pickString(flagExclude, s.Exclude)
	cfg.MaxBytes = pickInt64(flagMaxBytes, s.MaxBytes)

	machine := flagJSON || flagSARIF
	if !machine {
		if !flagNoUpdateCheck {
			if latest, newer, _ := update.Check(version, false); newer && latest != "" {
				fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'vibeguard update' to upgrade\n", latest)
			}
		}
		if flagSelfUpdate {
			if v, err := update.SelfUpdate(version); err == nil {
				fmt.Fprintf(os.Stderr, "updated to v%s; re-run command\n", v)
				return nil
			}
		}
		fmt.Fprintf(os.Stderr, "Scanning %s with %d patterns...\n", root, len(detectors.IDs()))
	}

	total := 0
	if !machine && !flagTUI {
		total, _ = engine.CountTargets(cfg)
	}
	stopProgress := func() {}
	if total > 0 {
		progress := make(chan struct{}, total)
		done := make(chan struct{})
		cfg.Progress = func() { progress <- struct{}{} }
		go func() {
			defer close(done)
			n := 0
			for range progress {
				n++
				if n%10 == 0 || n == total {
					fmt.Fprintf(os.Stderr, "\r[%d/%d] %.0f%%", n, total, float64(n)/float64(total)*100)
				}
			}
			if n > 0 {
				fmt.Fprintln(os.Stderr)
			}
		}()
		stopProgress = func() {
			close(progress)
			<-done
		}
	}

	res, err := engine.ScanWithStats(cmd.Context(), cfg)
	stopProgress()
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	findings := res.Findings
	if findings == nil {
		findings = []types.Finding{}
	} // no `null` in JSON

	opts := report.PrintOptions{NoColor: s.NoColor, Duration: res.Duration, FilesScanned: res.FilesScanned}
	switch {
	case flagSARIF:
		if err := report.WriteSARIF(os.Stdout, findings, version); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		return report.WriteJSON(os.Stdout, findings)
	case flagTUI:
		return browse(cmd, root, s, cfg, findings)
	case flagText:
		report.PrintText(os.Stdout, findings, opts)
	default:
		report.PrintTable(os.Stdout, findings, opts)
	}
	if len(findings) > 0 && !machine {
		fmt.Fprintln(os.Stderr, "\nRun 'vibeguard fix --file <path> --line <n>' to move a secret into", s.EnvFile)
	}
	return nil
}

// browse opens the findings browser with remediation wired in.
func browse(cmd *cobra.Command, root string, s config.Settings, cfg engine.Config, findings []types.Finding) error {
	if !tui.IsInteractive() {
		return fmt.Errorf("--tui needs an interactive terminal")
	}
	ctx := cmd.Context()
	fx := newFixer(root, s)
	return tui.Run(findings, tui.Options{
		Root: root,
		Rescan: func() ([]types.Finding, error) {
			return engine.Scan(ctx, cfg)
		},
		Suggest: func(f types.Finding) string {
			b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f.Path)))
			if err != nil {
				return detectors.DefaultEnvVar(f.Detector)
			}
			return suggestName(string(b), f)
		},
		Validate: remediate.ValidateName,
		Fix: func(f types.Finding, name string) (string, error) {
			out, err := fixFinding(ctx, fx, f, name)
			if err != nil {
				return "", err
			}
			return out.Summary(), nil
		},
	})
}
