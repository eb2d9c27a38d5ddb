package table

import "testing"

func TestColumnIndex_CaseAndTrimInsensitive(t *testing.T) {
	tbl := New([][]string{{" Order ID ", "Customer", "STATUS"}})

	if got := tbl.ColumnIndex("order id"); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := tbl.ColumnIndex("  customer"); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := tbl.ColumnIndex("Status"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestColumnIndex_Missing(t *testing.T) {
	tbl := New([][]string{{"SKU", "Name"}})
	if got := tbl.ColumnIndex("Quantity"); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}

func TestColumnIndex_DuplicateHeadersFirstWins(t *testing.T) {
	tbl := New([][]string{{"Name", "name", "NAME"}})
	if got := tbl.ColumnIndex("name"); got != 0 {
		t.Errorf("expected first occurrence (0), got %d", got)
	}
}

func TestNew_EmptyRows(t *testing.T) {
	tbl := New(nil)
	if !tbl.Empty() {
		t.Error("nil rows should produce an empty table")
	}
	if len(tbl.Rows()) != 0 {
		t.Error("empty table should have no data rows")
	}
	if got := tbl.ColumnIndex("anything"); got != -1 {
		t.Errorf("expected -1 on empty table, got %d", got)
	}
}

func TestNew_HeaderOnly(t *testing.T) {
	tbl := New([][]string{{"Order ID"}})
	if tbl.Empty() {
		t.Error("header-only table is not empty")
	}
	if len(tbl.Rows()) != 0 {
		t.Errorf("expected 0 data rows, got %d", len(tbl.Rows()))
	}
}

func TestCell_RaggedRow(t *testing.T) {
	row := []string{"12345", "Jane"}

	if got := Cell(row, 0); got != "12345" {
		t.Errorf("expected 12345, got %q", got)
	}
	if got := Cell(row, 2); got != "" {
		t.Errorf("expected empty for short row, got %q", got)
	}
	if got := Cell(row, -1); got != "" {
		t.Errorf("expected empty for unresolved column, got %q", got)
	}
}
