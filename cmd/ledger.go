package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ledgerCmd prints the user's frequently-used pricing.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "List your frequently-used book pricing",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, userID, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		ledger, err := db.GetLedger(context.Background(), userID)
		if err != nil {
			return err
		}
		if len(ledger) == 0 {
			fmt.Println("No frequent pricing saved yet.")
			return nil
		}

		keys := make([]string, 0, len(ledger))
		for k := range ledger {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tPUBLISHER\tTYPE\tPAGES\tPRICE\tDISCOUNT\tTAX\t")
		for _, k := range keys {
			e := ledger[k]
			pages := ""
			if e.Pages > 0 {
				pages = strconv.Itoa(e.Pages)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%.1f%%\t%.1f%%\t\n", e.BookName, e.Publisher, e.Type, pages, e.Price, e.Discount, e.Tax)
		}
		return w.Flush()
	},
}

// wipeLedgerCmd is the bulk-wipe for frequent pricing.
var wipeLedgerCmd = &cobra.Command{
	Use:   "wipe-ledger",
	Short: "Delete all of your frequently-used book pricing",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, userID, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.DeleteAllLedgerEntries(context.Background(), userID)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d ledger entries\n", n)
		return nil
	},
}

func init() {
	dbCmd.AddCommand(ledgerCmd)
	dbCmd.AddCommand(wipeLedgerCmd)
}
