package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"nr6/internal/domain"
	"nr6/internal/sanitize"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns is the fixed header row of the filings export.
var Columns = []string{
	"Date",
	"Name",
	"Email",
	"Property",
	"Status",
	"Gross",
	"Expenses",
	"Savings",
}

// Writer wraps csv.Writer for exporting filings as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteFilings writes one row per filing, in the given order.
func (w *Writer) WriteFilings(filings []domain.Filing) error {
	for i := range filings {
		if err := w.csv.Write(filingToRow(&filings[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Export writes the BOM, the header and every filing, then flushes.
func Export(out io.Writer, filings []domain.Filing) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteFilings(filings); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// filingToRow converts a filing to its export row. Text cells are guarded
// against formula injection; commas and quotes are handled by encoding/csv.
func filingToRow(f *domain.Filing) []string {
	return []string{
		f.CreatedAt.Format("2006-01-02"),
		sanitize.Formula(f.FullName),
		sanitize.Formula(f.Email),
		sanitize.Formula(f.PropertyAddress),
		string(f.Status),
		formatAmount(f.Gross),
		formatAmount(f.ExpensesTotal),
		formatAmount(f.EstimatedSavings),
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildFilename returns the download name for an export taken at now.
// Format: nr6-filings-{YYYY-MM-DD}.csv
func BuildFilename(now time.Time) string {
	return "nr6-filings-" + now.Format("2006-01-02") + ".csv"
}
