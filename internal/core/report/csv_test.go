package report

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestCSV_HeaderAndRowCount(t *testing.T) {
	rows := sampleRows()
	out, err := testSpec().CSV(rows)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("output must start with a UTF-8 BOM")
	}

	lines := strings.Split(strings.TrimRight(string(out[3:]), "\n"), "\n")
	if len(lines) != len(rows)+1 {
		t.Fatalf("expected %d lines (header + rows), got %d", len(rows)+1, len(lines))
	}
	if lines[0] != "Name,Unique ID" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "Asha Verma,M-001" {
		t.Fatalf("first row = %q", lines[1])
	}
}

func TestCSV_QuotesSpecialCharacters(t *testing.T) {
	rows := []row{{Name: `Rao, "Jr."`, UniqueID: "M-X"}}
	out, err := testSpec().CSV(rows)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	body := string(out[3:])
	if !strings.Contains(body, `"Rao, ""Jr."""`) {
		t.Fatalf("comma/quote field must be quoted with doubled quotes, got %q", body)
	}
}

func TestCSV_EmptyRowSet(t *testing.T) {
	out, err := testSpec().CSV(nil)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(out[3:]), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("empty set still writes the header, got %d lines", len(lines))
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	if got := testSpec().Filename(now); got != "test_report_2026-09-01.csv" {
		t.Fatalf("filename = %q", got)
	}
}
