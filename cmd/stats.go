package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// statsCmd prints per-type statistics over everything the user has saved.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print statistics about your saved book data",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, userID, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetTypeStats(context.Background(), userID)
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No data in the database to generate stats.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "TYPE\tCOUNT\tTOTAL VALUE\tAVG DISCOUNT\tAVG TAX\t")

		var totalCount int
		var totalValue float64
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%.2f\t%.1f%%\t%.1f%%\t\n", s.Type, s.Count, s.TotalValue, s.AvgDiscount, s.AvgTax)
			totalCount += s.Count
			totalValue += s.TotalValue
		}

		fmt.Fprintln(w, " \t \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t%.2f\t \t \t\n", totalCount, totalValue)

		w.Flush()

		return nil
	},
}

func init() {
	dbCmd.AddCommand(statsCmd)
}
