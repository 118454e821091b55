package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/edubook/edubook/internal/utils"
	"github.com/edubook/edubook/pkg/books"
	"github.com/edubook/edubook/pkg/session"
	"github.com/edubook/edubook/pkg/storage"
	"github.com/edubook/edubook/pkg/tabular"
)

// processCmd imports a book list, reconciles it against the frequent-price
// ledger, applies requested edits, prints the priced lists and optionally
// exports/saves the result.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Price a book list from a spreadsheet, URL, JSON file or the built-in sample data",
	Long: `Imports a two-sheet workbook ("Textbooks" and "Notebooks"), merges each row
with your frequently-used pricing, computes final prices under the
discount-then-tax formula and prints the result. Edits given via flags are
applied in order and written back to the pricing ledger.`,
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	input, _ := flags.GetString("input")
	url, _ := flags.GetString("url")
	mock, _ := flags.GetBool("mock")
	class, _ := flags.GetString("class")
	course, _ := flags.GetString("course")
	save, _ := flags.GetBool("save")
	export, _ := flags.GetBool("export")
	out, _ := flags.GetString("out")
	groupBy, _ := flags.GetString("group-by")

	if class == "" {
		class = viper.GetString("defaults.class")
	}
	if course == "" {
		course = viper.GetString("defaults.course")
	}

	defaults := books.Defaults{
		TextbookDiscount: viper.GetFloat64("defaults.textbook.discount"),
		TextbookTax:      viper.GetFloat64("defaults.textbook.tax"),
		NotebookDiscount: viper.GetFloat64("defaults.notebook.discount"),
		NotebookTax:      viper.GetFloat64("defaults.notebook.tax"),
	}
	if flags.Changed("tb-discount") {
		defaults.TextbookDiscount, _ = flags.GetFloat64("tb-discount")
	}
	if flags.Changed("tb-tax") {
		defaults.TextbookTax, _ = flags.GetFloat64("tb-tax")
	}
	if flags.Changed("nb-discount") {
		defaults.NotebookDiscount, _ = flags.GetFloat64("nb-discount")
	}
	if flags.Changed("nb-tax") {
		defaults.NotebookTax, _ = flags.GetFloat64("nb-tax")
	}

	rawTB, rawNB, err := loadRows(input, url, mock)
	if err != nil {
		return err
	}

	ctx := context.Background()
	userID := viper.GetString("user")

	var (
		db     *storage.DB
		sink   session.Sink = session.NopSink{}
		ledger books.Ledger
	)
	if userID == "" {
		utils.Log.Warn("no user configured, pricing history disabled")
	} else {
		db, err = storage.Open(viper.GetString("dbpath"))
		if err != nil {
			utils.Log.Warnf("store unreachable, continuing without pricing history: %v", err)
			db = nil
		} else {
			defer db.Close()
			ledger, err = db.GetLedger(ctx, userID)
			if err != nil {
				return fmt.Errorf("loading frequent pricing: %w", err)
			}
			rec := session.NewRecorder(db, userID)
			defer rec.Close()
			sink = rec
		}
	}

	uploadID := ""
	if save {
		if db == nil {
			return fmt.Errorf("cannot save: %w", storage.ErrNoUser)
		}
		uploadID, err = db.CreateUploadSession(ctx, storage.UploadSession{
			UserID:           userID,
			Class:            class,
			Course:           course,
			TextbookDiscount: defaults.TextbookDiscount,
			TextbookTax:      defaults.TextbookTax,
			NotebookDiscount: defaults.NotebookDiscount,
			NotebookTax:      defaults.NotebookTax,
		})
		if err != nil {
			return fmt.Errorf("creating upload session: %w", err)
		}
	}

	lists := books.Reconcile(rawTB, rawNB, defaults, ledger, uploadID)
	sess := session.New(class, course, defaults, lists, uploadID, sink)

	if err := applyEdits(sess, flags); err != nil {
		return err
	}

	filters := books.Filters{}
	filters.BookName, _ = flags.GetString("filter-book")
	filters.Subject, _ = flags.GetString("filter-subject")
	filters.Publisher, _ = flags.GetString("filter-publisher")

	textbooks, notebooks := sess.Filtered(filters)

	fmt.Printf("Class %s (%s)\n\n", class, course)
	printList("TEXTBOOKS", textbooks, false)
	printList("NOTEBOOKS", notebooks, true)
	printSummary(textbooks, notebooks)

	if groupBy != "" {
		if err := printGroups(groupBy, append(append([]books.Book{}, textbooks...), notebooks...)); err != nil {
			return err
		}
	}

	if export || out != "" {
		path := out
		if path == "" {
			path = tabular.Filename(class, course)
		}
		if err := tabular.ExportFile(path, textbooks, notebooks); err != nil {
			return fmt.Errorf("exporting workbook: %w", err)
		}
		fmt.Printf("\nExported %s\n", path)
	}

	if save {
		// Snapshots always cover the full lists, not the filtered view.
		sess.Save()
		if err := db.BulkUpsertLedger(ctx, userID, append(append([]books.Book{}, sess.Textbooks...), sess.Notebooks...)); err != nil {
			utils.Log.Errorf("saving pricing ledger failed: %v", err)
		} else {
			fmt.Printf("\nSaved session %s\n", uploadID)
		}
	}

	return nil
}

// loadRows resolves the import source. Exactly one of input/url/mock is
// expected; mock wins over nothing, a file path is routed by extension.
func loadRows(input, url string, mock bool) ([]books.Raw, []books.Raw, error) {
	switch {
	case mock:
		return books.SampleTextbooks(), books.SampleNotebooks(), nil
	case url != "":
		return tabular.Fetch(url)
	case input != "":
		if strings.EqualFold(filepath.Ext(input), ".json") {
			data, err := os.ReadFile(input)
			if err != nil {
				return nil, nil, err
			}
			return tabular.ImportJSON(data)
		}
		return tabular.ImportFile(input)
	}
	return nil, nil, fmt.Errorf("nothing to process: pass --input, --url or --mock")
}

// applyEdits runs the mutation flags in a fixed order: point edits,
// apply-to-all, publisher discounts, bulk edits. Scoped operations that
// match nothing are reported and skipped, they never abort the run.
func applyEdits(sess *session.Session, flags *pflag.FlagSet) error {
	edits, _ := flags.GetStringArray("edit")
	for _, e := range edits {
		typ, m, err := parseEdit(e)
		if err != nil {
			return err
		}
		if _, err := sess.Update(typ, m); err != nil {
			utils.Log.Warnf("edit %q skipped: %v", e, err)
		}
	}

	allDiscounts, _ := flags.GetStringArray("all-discount")
	for _, a := range allDiscounts {
		typ, v, err := parseSheetValue(a)
		if err != nil {
			return err
		}
		if _, err := sess.Update(typ, books.ApplyAllDiscount{Value: v}); err != nil {
			utils.Log.Warnf("apply-to-all discount %q skipped: %v", a, err)
		}
	}
	allTaxes, _ := flags.GetStringArray("all-tax")
	for _, a := range allTaxes {
		typ, v, err := parseSheetValue(a)
		if err != nil {
			return err
		}
		if _, err := sess.Update(typ, books.ApplyAllTax{Value: v}); err != nil {
			utils.Log.Warnf("apply-to-all tax %q skipped: %v", a, err)
		}
	}

	if pd, _ := flags.GetString("publisher-discount"); pd != "" {
		publisher, value, err := splitKV(pd)
		if err != nil {
			return fmt.Errorf("bad --publisher-discount %q: want 'Publisher=value'", pd)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("bad --publisher-discount value %q", value)
		}
		m := books.PublisherDiscount{Publisher: publisher, Value: v}
		touched := 0
		for _, typ := range []books.Type{books.Textbook, books.Notebook} {
			n, err := sess.Update(typ, m)
			if err != nil && err != books.ErrNoMatchingRecords {
				return err
			}
			touched += n
		}
		if touched == 0 {
			utils.Log.Warnf("publisher discount: no records match publisher %q", publisher)
		} else {
			fmt.Printf("Publisher discount applied to %d record(s)\n", touched)
		}
	}

	bulks, _ := flags.GetStringArray("bulk")
	for _, b := range bulks {
		typ, m, err := parseBulk(b)
		if err != nil {
			return err
		}
		n, err := sess.Update(typ, m)
		if err != nil {
			utils.Log.Warnf("bulk edit %q skipped: %v", b, err)
			continue
		}
		fmt.Printf("Bulk edit updated %d record(s)\n", n)
	}

	return nil
}

// parseEdit parses "sheet:id:field=value" into a point mutation.
func parseEdit(s string) (books.Type, books.Mutation, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("bad --edit %q: want 'sheet:id:field=value'", s)
	}
	typ, err := parseSheetName(parts[0])
	if err != nil {
		return "", nil, err
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("bad --edit id %q", parts[1])
	}
	field, value, err := splitKV(parts[2])
	if err != nil {
		return "", nil, fmt.Errorf("bad --edit %q: want 'sheet:id:field=value'", s)
	}
	m, err := pointMutation(id, field, value)
	if err != nil {
		return "", nil, err
	}
	return typ, m, nil
}

func pointMutation(id int, field, value string) (books.Mutation, error) {
	switch strings.ToLower(field) {
	case "bookname", "name":
		return books.SetName{ID: id, Value: value}, nil
	case "subject":
		return books.SetSubject{ID: id, Value: value}, nil
	case "publisher":
		return books.SetPublisher{ID: id, Value: value}, nil
	case "pages":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("bad pages value %q", value)
		}
		return books.SetPages{ID: id, Value: n}, nil
	case "price":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad price value %q", value)
		}
		return books.SetPrice{ID: id, Value: v}, nil
	case "discount":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad discount value %q", value)
		}
		return books.SetDiscount{ID: id, Value: v}, nil
	case "tax":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad tax value %q", value)
		}
		return books.SetTax{ID: id, Value: v}, nil
	}
	return nil, fmt.Errorf("unknown field %q", field)
}

// parseBulk parses "sheet:name1,name2:field=value,field=value".
func parseBulk(s string) (books.Type, books.Mutation, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("bad --bulk %q: want 'sheet:names:field=value,...'", s)
	}
	typ, err := parseSheetName(parts[0])
	if err != nil {
		return "", nil, err
	}
	m := books.BulkEdit{Names: strings.Split(parts[1], ",")}
	for _, kv := range strings.Split(parts[2], ",") {
		field, value, err := splitKV(kv)
		if err != nil {
			return "", nil, fmt.Errorf("bad --bulk assignment %q", kv)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad --bulk value %q", value)
		}
		switch strings.ToLower(field) {
		case "price":
			m.Price = &v
		case "discount":
			m.Discount = &v
		case "tax":
			m.Tax = &v
		default:
			return "", nil, fmt.Errorf("bulk edits only cover price, discount and tax, got %q", field)
		}
	}
	return typ, m, nil
}

func parseSheetValue(s string) (books.Type, float64, error) {
	sheet, value, err := splitKV(s)
	if err != nil {
		return "", 0, fmt.Errorf("bad assignment %q: want 'sheet=value'", s)
	}
	typ, err := parseSheetName(sheet)
	if err != nil {
		return "", 0, err
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad value %q", value)
	}
	return typ, v, nil
}

func parseSheetName(s string) (books.Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "textbooks", "textbook":
		return books.Textbook, nil
	case "notebooks", "notebook":
		return books.Notebook, nil
	}
	return "", fmt.Errorf("unknown sheet %q: want 'textbooks' or 'notebooks'", s)
}

func splitKV(s string) (string, string, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return "", "", fmt.Errorf("missing '=' in %q", s)
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), nil
}

func printList(title string, list []books.Book, pages bool) {
	fmt.Println(title)
	if len(list) == 0 {
		fmt.Println("  (empty)")
		fmt.Println()
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	if pages {
		fmt.Fprintln(w, "ID\tNAME\tSUBJECT\tPUBLISHER\tPAGES\tPRICE\tDISCOUNT\tTAX\tFINAL\t")
	} else {
		fmt.Fprintln(w, "ID\tNAME\tSUBJECT\tPUBLISHER\tPRICE\tDISCOUNT\tTAX\tFINAL\t")
	}
	for _, b := range list {
		if pages {
			pg := ""
			if b.Pages > 0 {
				pg = strconv.Itoa(b.Pages)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\t%.1f%%\t%.1f%%\t%.2f\t\n", b.ID, b.BookName, b.Subject, b.Publisher, pg, b.Price, b.Discount, b.Tax, b.FinalPrice)
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%.1f%%\t%.1f%%\t%.2f\t\n", b.ID, b.BookName, b.Subject, b.Publisher, b.Price, b.Discount, b.Tax, b.FinalPrice)
		}
	}
	w.Flush()
	fmt.Println()
}

func printSummary(textbooks, notebooks []books.Book) {
	totals := books.ComputeTotals(textbooks, notebooks)
	tb := books.Summarize(textbooks)
	nb := books.Summarize(notebooks)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "\tCOUNT\tTOTAL\tAVG DISCOUNT\tAVG TAX\t")
	fmt.Fprintf(w, "Textbooks\t%d\t%.2f\t%.1f%%\t%.1f%%\t\n", tb.Count, tb.TotalValue, tb.AvgDiscount, tb.AvgTax)
	fmt.Fprintf(w, "Notebooks\t%d\t%.2f\t%.1f%%\t%.1f%%\t\n", nb.Count, nb.TotalValue, nb.AvgDiscount, nb.AvgTax)
	fmt.Fprintf(w, "GRAND TOTAL\t \t%.2f\t \t \t\n", totals.GrandTotal)
	w.Flush()
}

func printGroups(groupBy string, list []books.Book) error {
	var key func(books.Book) string
	switch strings.ToLower(groupBy) {
	case "publisher":
		key = func(b books.Book) string { return b.Publisher }
	case "subject":
		key = func(b books.Book) string { return b.Subject }
	case "type":
		key = func(b books.Book) string { return string(b.Type) }
	default:
		return fmt.Errorf("unknown --group-by %q: want publisher, subject or type", groupBy)
	}

	fmt.Printf("\nTotals by %s\n", strings.ToLower(groupBy))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
	for _, g := range books.GroupSum(list, key) {
		fmt.Fprintf(w, "%s\t%.2f\t\n", g.Key, g.Total)
	}
	w.Flush()
	return nil
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringP("input", "i", "", "Path to a .xlsx workbook or .json book list")
	processCmd.Flags().String("url", "", "Download the workbook from a URL instead of a local file")
	processCmd.Flags().Bool("mock", false, "Use the built-in sample book lists")

	processCmd.Flags().String("class", "", "Class the list belongs to (default from config)")
	processCmd.Flags().String("course", "", "Course combination (default from config)")
	processCmd.Flags().Float64("tb-discount", 10, "Default textbook discount (%)")
	processCmd.Flags().Float64("tb-tax", 5, "Default textbook tax (%)")
	processCmd.Flags().Float64("nb-discount", 15, "Default notebook discount (%)")
	processCmd.Flags().Float64("nb-tax", 5, "Default notebook tax (%)")

	processCmd.Flags().StringArray("edit", nil, "Point edit, 'sheet:id:field=value' (repeatable)")
	processCmd.Flags().StringArray("all-discount", nil, "Apply a discount to a whole sheet, 'sheet=value' (repeatable)")
	processCmd.Flags().StringArray("all-tax", nil, "Apply a tax to a whole sheet, 'sheet=value' (repeatable)")
	processCmd.Flags().String("publisher-discount", "", "Discount every record of one publisher, 'Publisher=value'")
	processCmd.Flags().StringArray("bulk", nil, "Bulk edit by book name, 'sheet:name1,name2:field=value,...' (repeatable)")

	processCmd.Flags().String("filter-book", "", "Only show records whose name contains this")
	processCmd.Flags().String("filter-subject", "", "Only show records whose subject contains this")
	processCmd.Flags().String("filter-publisher", "", "Only show records whose publisher contains this")
	processCmd.Flags().String("group-by", "", "Print grouped totals: publisher, subject or type")

	processCmd.Flags().Bool("export", false, "Export the (filtered) lists to the default workbook name")
	processCmd.Flags().StringP("out", "o", "", "Export the (filtered) lists to this path")
	processCmd.Flags().Bool("save", false, "Persist the session, snapshots and pricing ledger")
}
