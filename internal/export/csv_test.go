package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"kharcha/internal/core"
)

func TestWriteCSV(t *testing.T) {
	date := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		{
			ID:          "expense-1",
			Kind:        core.KindExpense,
			Date:        date,
			Description: "Shoes, new",
			Category:    "Shopping",
			Amount:      core.Money{Cents: -30000},
		},
		{
			ID:          "income-1",
			Kind:        core.KindIncome,
			Date:        date.AddDate(0, 0, -3),
			Description: "Feb salary",
			Category:    "Salary",
			Amount:      core.Money{Cents: 4000000},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, txs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	if strings.Join(records[0], ",") != "id,date,kind,description,category,amount" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][3] != "Shoes, new" {
		t.Fatalf("description with comma not preserved: %q", records[1][3])
	}
	if records[1][5] != "-300.00" {
		t.Fatalf("expense amount = %q, want signed decimal", records[1][5])
	}
	if records[2][5] != "40000.00" {
		t.Fatalf("income amount = %q", records[2][5])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "id,date,kind,description,category,amount" {
		t.Fatalf("empty export = %q, want header only", got)
	}
}

func TestYearPrefixedName(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"Transactions", "2026 Transactions"},
		{"2025 Transactions", "2025 Transactions"},
		{"12345", "2026 12345"},
	}
	for _, tc := range cases {
		if got := yearPrefixedName(tc.base, 2026); got != tc.want {
			t.Errorf("yearPrefixedName(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}
