package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// utf8BOM makes spreadsheet applications detect the encoding correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV renders the full materialized row set (never just a page) as UTF-8 CSV
// prefixed with a byte-order mark. The first line is the header of
// human-readable column names; fields containing a comma, quote, or newline
// are wrapped in double quotes with internal quotes doubled.
func (s Spec[R]) CSV(rows []R) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)

	header := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		header[i] = col.Header
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}

	record := make([]string, len(s.Columns))
	for _, row := range rows {
		for i, col := range s.Columns {
			record[i] = col.Value(row)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename stamps the report's export filename with the given date, e.g.
// "meal_history_report_2026-09-01.csv".
func (s Spec[R]) Filename(now time.Time) string {
	return fmt.Sprintf("%s_report_%s.csv", s.Name, now.Format("2006-01-02"))
}
