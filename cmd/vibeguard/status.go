package vibeguard

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibeguard/vibeguard/internal/files"
	"github.com/vibeguard/vibeguard/internal/tui"
)

func init() {
	var root string
	var fixIt bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check that the env file is kept out of git",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, s, err := loadSettings(cmd, root)
			if err != nil {
				return err
			}
			st, err := files.CheckIgnored(abs, s.EnvFile, s.IgnoreFile)
			if err != nil {
				return err
			}
			if !st.EnvExists {
				fmt.Printf("No %s yet; nothing to protect.\n", s.EnvFile)
				return nil
			}
			if st.Tracked {
				fmt.Printf("⚠️  %s is tracked by git. Ignoring it has no effect until you run: git rm --cached %s\n", s.EnvFile, s.EnvFile)
			}
			if !st.NeedsAttention() {
				fmt.Printf("%s is listed in %s ✅\n", s.EnvFile, s.IgnoreFile)
				return nil
			}
			if st.Covered {
				fmt.Printf("%s is matched by a pattern in %s but not listed by name.\n", s.EnvFile, s.IgnoreFile)
			} else {
				fmt.Printf("⚠️  %s is not in %s. Your secrets could be committed!\n", s.EnvFile, s.IgnoreFile)
			}

			if !fixIt {
				if !tui.IsInteractive() {
					fmt.Println("Run 'vibeguard fix gitignore' to add it.")
					return nil
				}
				yes, err := tui.Confirm(fmt.Sprintf("Add %s to %s?", s.EnvFile, s.IgnoreFile), true)
				if err != nil || !yes {
					return err
				}
			}
			if _, err := newFixer(abs, s).EnsureIgnored(); err != nil {
				return err
			}
			fmt.Printf("Added %s to %s\n", s.EnvFile, s.IgnoreFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", ".", "workspace root")
	cmd.Flags().BoolVar(&fixIt, "fix", false, "add the env file to the ignore file without asking")
	rootCmd.AddCommand(cmd)
}
