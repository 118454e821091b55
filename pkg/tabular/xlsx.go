package tabular

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/edubook/edubook/internal/utils"
	"github.com/edubook/edubook/pkg/books"
)

// ErrInvalidFileFormat means the workbook has neither recognized sheet.
var ErrInvalidFileFormat = errors.New("workbook must contain a 'Textbooks' and/or 'Notebooks' sheet")

const (
	SheetTextbooks = "Textbooks"
	SheetNotebooks = "Notebooks"
)

// Export headers. Import accepts both these and the machine names
// (bookName, subject, publisher, price, pages).
var exportHeaders = []string{"Book Name", "Subject", "Publisher", "Pages", "Price", "Discount (%)", "Tax (%)", "Final Price"}

// ImportFile reads a two-sheet workbook from disk.
func ImportFile(path string) (textbooks, notebooks []books.Raw, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return importWorkbook(f)
}

// ImportReader reads a two-sheet workbook from a stream.
func ImportReader(r io.Reader) (textbooks, notebooks []books.Raw, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return importWorkbook(f)
}

func importWorkbook(f *excelize.File) ([]books.Raw, []books.Raw, error) {
	tbIdx, _ := f.GetSheetIndex(SheetTextbooks)
	nbIdx, _ := f.GetSheetIndex(SheetNotebooks)
	if tbIdx < 0 && nbIdx < 0 {
		return nil, nil, ErrInvalidFileFormat
	}

	var textbooks, notebooks []books.Raw
	if tbIdx >= 0 {
		rows, err := f.GetRows(SheetTextbooks)
		if err != nil {
			return nil, nil, err
		}
		textbooks = parseSheet(rows, false)
	}
	if nbIdx >= 0 {
		rows, err := f.GetRows(SheetNotebooks)
		if err != nil {
			return nil, nil, err
		}
		notebooks = parseSheet(rows, true)
	}
	return textbooks, notebooks, nil
}

// parseSheet maps header-addressed cells to raw rows. Missing bookName
// becomes "", missing subject/publisher become "N/A", an unparseable price
// becomes 0. Pages are read for notebooks only.
func parseSheet(rows [][]string, notebook bool) []books.Raw {
	if len(rows) < 2 {
		return nil
	}
	cols := headerColumns(rows[0])
	out := make([]books.Raw, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		r := books.Raw{
			BookName:  field(cols, row, "bookname"),
			Subject:   orNA(field(cols, row, "subject")),
			Publisher: orNA(field(cols, row, "publisher")),
		}
		if raw := field(cols, row, "price"); raw != "" {
			p, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				utils.Log.Warnf("unparseable price %q for %q, using 0", raw, r.BookName)
			} else {
				r.Price = p
			}
		}
		if notebook {
			if raw := field(cols, row, "pages"); raw != "" {
				if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
					r.Pages = n
				}
			}
		}
		out = append(out, r)
	}
	return out
}

// headerColumns maps canonical field names to column positions, accepting
// machine headers and the export's human headers.
func headerColumns(header []string) map[string]int {
	aliases := map[string]string{
		"bookname":     "bookname",
		"book name":    "bookname",
		"subject":      "subject",
		"publisher":    "publisher",
		"price":        "price",
		"pages":        "pages",
		"discount (%)": "discount",
		"tax (%)":      "tax",
		"final price":  "finalprice",
	}
	cols := make(map[string]int)
	for i, h := range header {
		if name, ok := aliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			cols[name] = i
		}
	}
	return cols
}

func field(cols map[string]int, row []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Filename builds the deterministic export name for a session.
func Filename(class, course string) string {
	return fmt.Sprintf("%s_%s_EduBook_Calculated.xlsx", class, course)
}

// ExportFile writes both working lists to a two-sheet workbook with
// human-readable headers.
func ExportFile(path string, textbooks, notebooks []books.Book) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, SheetTextbooks, textbooks, false); err != nil {
		return err
	}
	if err := writeSheet(f, SheetNotebooks, notebooks, true); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sheet string, list []books.Book, pages bool) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := exportHeaders
	if !pages {
		headers = withoutPages(headers)
	}
	for i, h := range headers {
		cellName, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellName, h); err != nil {
			return err
		}
	}
	for rowIdx, b := range list {
		values := []interface{}{b.BookName, b.Subject, b.Publisher}
		if pages {
			if b.Pages > 0 {
				values = append(values, b.Pages)
			} else {
				values = append(values, "")
			}
		}
		values = append(values, b.Price, b.Discount, b.Tax, b.FinalPrice)
		for colIdx, v := range values {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cellName, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func withoutPages(headers []string) []string {
	out := make([]string, 0, len(headers)-1)
	for _, h := range headers {
		if h == "Pages" {
			continue
		}
		out = append(out, h)
	}
	return out
}
