package vibeguard

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vibeguard/vibeguard/internal/audit"
)

func init() {
	var root string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past remediations from the audit log",
		RunE: func(_ *cobra.Command, _ []string) error {
			records, err := audit.NewAuditLog(root).LoadHistory()
			if err != nil {
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			if flagJSON {
				if records == nil {
					records = []audit.FixRecord{}
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			if len(records) == 0 {
				fmt.Println("No remediations recorded yet")
				return nil
			}
			table := tablewriter.NewWriter(os.Stdout)
			table.Header("WHEN", "FILE", "LINE", "DETECTOR", "NAME", "NOTE")
			for _, r := range records {
				note := ""
				switch {
				case r.Renamed:
					note = "renamed from " + r.Requested
				case r.Reused:
					note = "reused stored value"
				}
				_ = table.Append([]string{
					r.Timestamp.Local().Format("2006-01-02 15:04"),
					r.Path,
					strconv.Itoa(r.Line),
					r.Detector,
					r.Name,
					note,
				})
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVar(&root, "root", ".", "workspace root")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many records (0 = all)")
	rootCmd.AddCommand(cmd)
}
