package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect the local submission log",
	Long:  `List attendance submissions that were relayed from this instance.`,
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged submissions",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		records, err := provider.ListSubmissions(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing submissions: %v\n", err)
			os.Exit(1)
		}

		if len(records) == 0 {
			fmt.Println("No submissions logged.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSUBDIVISION\tTYPE\tRECORDED AT\tLOCATION\tLOGGED AT")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				rec.ID, rec.Name, rec.Subdivision, rec.AttendanceType,
				rec.RecordedAt, rec.Location, rec.CreatedAt.Format(time.RFC3339))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(recordsCmd)
	recordsCmd.AddCommand(recordsListCmd)
}
