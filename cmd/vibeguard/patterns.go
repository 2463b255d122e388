package vibeguard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vibeguard/vibeguard/internal/detectors"
	"github.com/vibeguard/vibeguard/internal/report"
	"github.com/vibeguard/vibeguard/internal/scanner"
	"github.com/vibeguard/vibeguard/internal/types"
)

func init() {
	cmd := &cobra.Command{
		Use:     "patterns",
		Aliases: []string{"detectors"},
		Short:   "List the credential patterns",
		Run: func(_ *cobra.Command, _ []string) {
			if flagJSON {
				for _, id := range detectors.IDs() {
					fmt.Println(id)
				}
				return
			}
			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "NAME", "SEVERITY", "ENV VAR")
			for _, p := range detectors.All() {
				_ = table.Append([]string{p.ID, p.Name, string(p.Severity), p.DefaultEnvVar})
			}
			_ = table.Render()
		},
	}
	rootCmd.AddCommand(cmd)

	test := &cobra.Command{
		Use:   "test-pattern <id>",
		Short: "Run one pattern against text from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id := args[0]
			if _, ok := detectors.Lookup(id); !ok {
				return fmt.Errorf("unknown pattern id: %s (available: %s)", id, strings.Join(detectors.IDs(), ", "))
			}
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			var fs []types.Finding
			for _, f := range scanner.Scan("stdin", string(data)) {
				if f.Detector == id {
					fs = append(fs, f)
				}
			}
			report.PrintTable(os.Stdout, fs, report.PrintOptions{})
			return nil
		},
	}
	test.Long = "Available patterns: " + strings.Join(detectors.IDs(), ", ")
	rootCmd.AddCommand(test)
}
