package vibeguard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vibeguard/vibeguard/internal/envfile"
)

func init() {
	env := &cobra.Command{Use: "env", Short: "Env file helpers"}
	rootCmd.AddCommand(env)

	var root, from, to string
	exampleCmd := &cobra.Command{
		Use:   "example",
		Short: "Write .env.example with the names from .env and blank values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, s, err := loadSettings(cmd, root)
			if err != nil {
				return err
			}
			src := filepath.Join(abs, pickString(from, s.EnvFile))
			dst := filepath.Join(abs, pickString(to, s.EnvFile+".example"))
			content, err := envfile.ReadOptional(src)
			if err != nil {
				return err
			}
			if content == "" {
				return fmt.Errorf("%s is empty or missing", src)
			}
			if err := os.WriteFile(dst, []byte(envfile.Example(content)), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", dst, err)
			}
			fmt.Printf("Wrote %s (%d variables)\n", dst, len(envfile.Parse(content)))
			return nil
		},
	}
	exampleCmd.Flags().StringVar(&root, "root", ".", "workspace root")
	exampleCmd.Flags().StringVar(&from, "from", "", "source env file (default from config, .env)")
	exampleCmd.Flags().StringVar(&to, "to", "", "destination example file (default <env file>.example)")
	env.AddCommand(exampleCmd)
}
