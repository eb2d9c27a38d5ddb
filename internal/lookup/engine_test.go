package lookup

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"sheetbot/internal/domain"
)

// fakeSource serves canned rows per tab, or a canned error.
type fakeSource struct {
	tabs map[string][][]string
	err  error
}

func (f *fakeSource) FetchRows(ctx context.Context, tab string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tabs[tab], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func newEngine(src domain.RowSource) *Engine {
	return New(Config{Source: src, Logger: testLogger()})
}

func ordersSource(rows ...[]string) *fakeSource {
	all := [][]string{{"Order ID", "Customer", "Status", "Updated At"}}
	all = append(all, rows...)
	return &fakeSource{tabs: map[string][][]string{"Orders": all}}
}

func TestFindOrder_Match(t *testing.T) {
	e := newEngine(ordersSource(
		[]string{"11111", "Ann", "Pending", ""},
		[]string{"12345", "Jane Doe", "Shipped", "2024-03-01"},
	))

	rec, ok, err := e.FindOrder(context.Background(), "12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a match")
	}
	if rec.OrderID != "12345" || rec.Customer != "Jane Doe" || rec.Status != "Shipped" || rec.UpdatedAt != "2024-03-01" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestFindOrder_CaseAndTrimInsensitive(t *testing.T) {
	e := newEngine(ordersSource([]string{" AB-123 ", "Jane", "Shipped", ""}))

	rec, ok, err := e.FindOrder(context.Background(), "  ab-123")
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}
	// The record carries the raw cell value, not the normalized one.
	if rec.OrderID != " AB-123 " {
		t.Errorf("expected raw cell value, got %q", rec.OrderID)
	}
}

func TestFindOrder_FirstMatchWins(t *testing.T) {
	e := newEngine(ordersSource(
		[]string{"12345", "First", "Pending", ""},
		[]string{"12345", "Second", "Shipped", ""},
	))

	rec, ok, err := e.FindOrder(context.Background(), "12345")
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}
	if rec.Customer != "First" {
		t.Errorf("expected first row to win, got %q", rec.Customer)
	}
}

func TestFindOrder_BlankIDCellsSkipped(t *testing.T) {
	e := newEngine(ordersSource(
		[]string{"", "Ghost", "Lost", ""},
		[]string{"   ", "Ghost2", "Lost", ""},
	))

	_, ok, err := e.FindOrder(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("blank id cells must never match")
	}
}

func TestFindOrder_NotFound(t *testing.T) {
	e := newEngine(ordersSource([]string{"12345", "Jane", "Shipped", ""}))

	_, ok, err := e.FindOrder(context.Background(), "99999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no match")
	}
}

func TestFindOrder_EmptyTabIsNotFound(t *testing.T) {
	e := newEngine(&fakeSource{tabs: map[string][][]string{"Orders": nil}})

	_, ok, err := e.FindOrder(context.Background(), "12345")
	if err != nil {
		t.Fatalf("zero rows should not be an error: %v", err)
	}
	if ok {
		t.Error("expected no match on empty tab")
	}
}

func TestFindOrder_MissingIDHeaderIsConfigError(t *testing.T) {
	src := &fakeSource{tabs: map[string][][]string{
		"Orders": {{"Customer", "Status"}, {"Jane", "Shipped"}},
	}}
	e := newEngine(src)

	_, _, err := e.FindOrder(context.Background(), "12345")
	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestFindOrder_OptionalColumnsAbsent(t *testing.T) {
	src := &fakeSource{tabs: map[string][][]string{
		"Orders": {{"Order ID"}, {"12345"}},
	}}
	e := newEngine(src)

	rec, ok, err := e.FindOrder(context.Background(), "12345")
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}
	if rec.Customer != "" || rec.Status != "" || rec.UpdatedAt != "" {
		t.Errorf("absent optional columns should be empty: %+v", rec)
	}
}

func TestFindOrder_FetchErrorPropagates(t *testing.T) {
	e := newEngine(&fakeSource{err: errors.New("quota exceeded")})

	_, _, err := e.FindOrder(context.Background(), "12345")
	if err == nil {
		t.Fatal("expected fetch error")
	}
}

func inventorySource(rows ...[]string) *fakeSource {
	all := [][]string{{"SKU", "Name", "Quantity", "Restock Level"}}
	all = append(all, rows...)
	return &fakeSource{tabs: map[string][][]string{"Inventory": all}}
}

func TestFindInventory_SKUExactMatch(t *testing.T) {
	e := newEngine(inventorySource(
		[]string{"SKU-1", "Widget", "10", ""},
		[]string{"SKU-10", "Widget Pro", "5", ""},
	))

	rec, ok, err := e.FindInventory(context.Background(), "sku-10")
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}
	if rec.SKU != "SKU-10" {
		t.Errorf("expected SKU-10, got %q", rec.SKU)
	}
}

func TestFindInventory_NameSubstringMatch(t *testing.T) {
	e := newEngine(inventorySource([]string{"SKU-1", "Blue Widget", "10", ""}))

	rec, ok, err := e.FindInventory(context.Background(), "widget")
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}
	if rec.Name != "Blue Widget" {
		t.Errorf("expected Blue Widget, got %q", rec.Name)
	}
	if rec.Quantity != 10 {
		t.Errorf("expected quantity 10, got %v", rec.Quantity)
	}
}

func TestFindInventory_SKUIsNotSubstringMatched(t *testing.T) {
	// "SKU-1" contains "ku-" but SKU matching is exact only.
	e := newEngine(inventorySource([]string{"SKU-1", "", "10", ""}))

	_, ok, err := e.FindInventory(context.Background(), "ku-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("SKU must match exactly, not by substring")
	}
}

func TestFindInventory_QuantityNonNumericDefaultsToZero(t *testing.T) {
	e := newEngine(inventorySource([]string{"SKU-1", "Widget", "lots", ""}))

	rec, ok, err := e.FindInventory(context.Background(), "widget")
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}
	if rec.Quantity != 0 {
		t.Errorf("expected 0 for non-numeric quantity, got %v", rec.Quantity)
	}
}

func TestFindInventory_RestockLevel(t *testing.T) {
	e := newEngine(inventorySource(
		[]string{"SKU-1", "Widget", "10", "0"},
		[]string{"SKU-2", "Gadget", "5", "n/a"},
	))

	rec, ok, err := e.FindInventory(context.Background(), "sku-1")
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}
	if rec.RestockLevel == nil || *rec.RestockLevel != 0 {
		t.Errorf("restock level zero must be kept, got %v", rec.RestockLevel)
	}

	rec, ok, err = e.FindInventory(context.Background(), "sku-2")
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}
	if rec.RestockLevel != nil {
		t.Errorf("non-numeric restock level must be omitted, got %v", *rec.RestockLevel)
	}
}

func TestFindInventory_SKUNameFallbacks(t *testing.T) {
	e := newEngine(inventorySource([]string{"", "Widget", "3", ""}))

	rec, ok, err := e.FindInventory(context.Background(), "widget")
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}
	if rec.SKU != "Widget" {
		t.Errorf("empty SKU should fall back to name, got %q", rec.SKU)
	}
}

func TestFindInventory_BothIdentifyingHeadersMissing(t *testing.T) {
	src := &fakeSource{tabs: map[string][][]string{
		"Inventory": {{"Quantity"}, {"10"}},
	}}
	e := newEngine(src)

	_, _, err := e.FindInventory(context.Background(), "widget")
	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestFindInventory_OnlyNameHeaderIsEnough(t *testing.T) {
	src := &fakeSource{tabs: map[string][][]string{
		"Inventory": {{"Name", "Quantity"}, {"Widget", "4"}},
	}}
	e := newEngine(src)

	rec, ok, err := e.FindInventory(context.Background(), "widget")
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}
	if rec.SKU != "Widget" {
		t.Errorf("SKU should fall back to name, got %q", rec.SKU)
	}
}

func TestTabOverrides(t *testing.T) {
	src := &fakeSource{tabs: map[string][][]string{
		"MyOrders": {{"Order ID"}, {"1"}},
	}}
	e := New(Config{Source: src, OrdersTab: "MyOrders", Logger: testLogger()})

	_, ok, err := e.FindOrder(context.Background(), "1")
	if err != nil || !ok {
		t.Fatalf("expected match via overridden tab, ok=%v err=%v", ok, err)
	}
}
