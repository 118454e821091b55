package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edubook/edubook/pkg/storage"
)

// exploreCmd browses saved snapshots with ad-hoc filters.
var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Browse saved book snapshots across sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, userID, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		filters := storage.SnapshotFilters{}
		filters.Class, _ = cmd.Flags().GetString("class")
		filters.BookName, _ = cmd.Flags().GetString("book")
		filters.Publisher, _ = cmd.Flags().GetString("publisher")

		snapshots, err := db.QuerySnapshots(context.Background(), userID, filters)
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			fmt.Println("No data found. Start by saving a processed book list.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CLASS\tCOURSE\tTYPE\tNAME\tPUBLISHER\tPAGES\tPRICE\tDISCOUNT\tTAX\tFINAL\tSAVED\t")
		for _, s := range snapshots {
			pages := ""
			if s.Pages > 0 {
				pages = strconv.Itoa(s.Pages)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\t%.1f%%\t%.1f%%\t%.2f\t%s\t\n",
				s.Class, s.Course, s.Type, s.BookName, s.Publisher, pages,
				s.Price, s.Discount, s.Tax, s.FinalPrice, s.CreatedAt.Format("2006-01-02"))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d record(s)\n", len(snapshots))
		return nil
	},
}

func init() {
	dbCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().String("class", "", "Only show snapshots saved for this class")
	exploreCmd.Flags().String("book", "", "Only show books whose name contains this")
	exploreCmd.Flags().String("publisher", "", "Only show books whose publisher contains this")
}
