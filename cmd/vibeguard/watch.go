package vibeguard

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vibeguard/vibeguard/internal/report"
	"github.com/vibeguard/vibeguard/internal/types"
	"github.com/vibeguard/vibeguard/internal/watch"
)

func init() {
	var root string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-scan files as they are saved",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, s, err := loadSettings(cmd, root)
			if err != nil {
				return err
			}
			if !s.Enable {
				fmt.Fprintln(os.Stderr, "VibeGuard is disabled for this workspace (enable: false)")
				return nil
			}
			fx := newFixer(abs, s)
			fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", abs)
			return watch.Run(cmd.Context(), engineConfig(abs, s), watch.Options{
				OnFindings: func(rel string, findings []types.Finding) {
					if len(findings) == 0 {
						return
					}
					report.PrintText(os.Stdout, findings, report.PrintOptions{NoColor: s.NoColor})
				},
				OnEnvWrite: func() {
					changed, err := fx.EnsureIgnored()
					if err != nil {
						fmt.Fprintln(os.Stderr, "warning:", err)
						return
					}
					if changed {
						fmt.Printf("Added %s to %s\n", s.EnvFile, s.IgnoreFile)
					}
				},
			})
		},
	}
	cmd.Flags().StringVar(&root, "root", ".", "workspace root")
	rootCmd.AddCommand(cmd)
}
