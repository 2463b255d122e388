package vibeguard

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibeguard/vibeguard/internal/update"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Update vibeguard to the latest release",
		RunE: func(_ *cobra.Command, _ []string) error {
			v, err := update.SelfUpdate(version)
			if err != nil {
				return fmt.Errorf("self-update failed: %w", err)
			}
			if !update.Newer(v, version) {
				fmt.Printf("vibeguard v%s is up to date\n", version)
				return nil
			}
			fmt.Printf("Updated to v%s\n", v)
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("vibeguard", version)
		},
	})
}
