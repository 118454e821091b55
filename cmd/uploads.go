package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// uploadsCmd lists saved upload sessions.
var uploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "List your saved upload sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, userID, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		uploads, err := db.ListUploads(context.Background(), userID)
		if err != nil {
			return err
		}
		if len(uploads) == 0 {
			fmt.Println("No saved sessions yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tCLASS\tCOURSE\tTB DISC\tTB TAX\tNB DISC\tNB TAX\tCREATED\t")
		for _, u := range uploads {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\t%.1f%%\t%.1f%%\t%.1f%%\t%s\t\n",
				u.ID, u.Class, u.Course, u.TextbookDiscount, u.TextbookTax, u.NotebookDiscount, u.NotebookTax,
				u.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	dbCmd.AddCommand(uploadsCmd)
}
