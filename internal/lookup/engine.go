// Package lookup answers order and inventory queries by fetching a full tab
// from the configured row source and scanning it in order. Nothing is cached
// across lookups; every query is one fetch followed by one linear scan.
package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"sheetbot/internal/domain"
	"sheetbot/internal/table"
)

const (
	defaultOrdersTab    = "Orders"
	defaultInventoryTab = "Inventory"
)

// Engine performs lookups against the Orders and Inventory tabs.
type Engine struct {
	source       domain.RowSource
	ordersTab    string
	inventoryTab string
	logger       *slog.Logger
}

type Config struct {
	Source       domain.RowSource
	OrdersTab    string // default "Orders"
	InventoryTab string // default "Inventory"
	Logger       *slog.Logger
}

func New(cfg Config) *Engine {
	if cfg.OrdersTab == "" {
		cfg.OrdersTab = defaultOrdersTab
	}
	if cfg.InventoryTab == "" {
		cfg.InventoryTab = defaultInventoryTab
	}
	return &Engine{
		source:       cfg.Source,
		ordersTab:    cfg.OrdersTab,
		inventoryTab: cfg.InventoryTab,
		logger:       cfg.Logger,
	}
}

// FindOrder scans the Orders tab for the first row whose Order ID matches the
// requested id, comparing trimmed and case-folded. The boolean is false when
// no row matches or the tab is empty. An unresolvable "Order ID" header is a
// ConfigError.
func (e *Engine) FindOrder(ctx context.Context, orderID string) (domain.OrderRecord, bool, error) {
	rows, err := e.source.FetchRows(ctx, e.ordersTab)
	if err != nil {
		return domain.OrderRecord{}, false, fmt.Errorf("orders fetch: %w", err)
	}

	tbl := table.New(rows)
	if tbl.Empty() {
		return domain.OrderRecord{}, false, nil
	}

	idIdx := tbl.ColumnIndex("Order ID")
	if idIdx < 0 {
		return domain.OrderRecord{}, false,
			domain.ConfigErrorf("orders tab %q has no %q column header", e.ordersTab, "Order ID")
	}
	customerIdx := tbl.ColumnIndex("Customer")
	statusIdx := tbl.ColumnIndex("Status")
	updatedIdx := tbl.ColumnIndex("Updated At")

	want := strings.ToLower(strings.TrimSpace(orderID))
	for _, row := range tbl.Rows() {
		id := table.Cell(row, idIdx)
		if strings.TrimSpace(id) == "" {
			continue
		}
		if strings.ToLower(strings.TrimSpace(id)) != want {
			continue
		}
		return domain.OrderRecord{
			OrderID:   id,
			Customer:  table.Cell(row, customerIdx),
			Status:    table.Cell(row, statusIdx),
			UpdatedAt: table.Cell(row, updatedIdx),
		}, true, nil
	}

	return domain.OrderRecord{}, false, nil
}

// FindInventory scans the Inventory tab for the first row whose SKU equals
// the query exactly (case-folded) or whose Name contains it as a substring.
// At least one of the SKU and Name headers must resolve; missing both is a
// ConfigError. The SKU-exact / Name-substring asymmetry is deliberate.
func (e *Engine) FindInventory(ctx context.Context, query string) (domain.InventoryRecord, bool, error) {
	rows, err := e.source.FetchRows(ctx, e.inventoryTab)
	if err != nil {
		return domain.InventoryRecord{}, false, fmt.Errorf("inventory fetch: %w", err)
	}

	tbl := table.New(rows)
	if tbl.Empty() {
		return domain.InventoryRecord{}, false, nil
	}

	skuIdx := tbl.ColumnIndex("SKU")
	nameIdx := tbl.ColumnIndex("Name")
	if skuIdx < 0 && nameIdx < 0 {
		return domain.InventoryRecord{}, false,
			domain.ConfigErrorf("inventory tab %q has neither a %q nor a %q column header", e.inventoryTab, "SKU", "Name")
	}
	quantityIdx := tbl.ColumnIndex("Quantity")
	restockIdx := tbl.ColumnIndex("Restock Level")

	want := strings.ToLower(query)
	for _, row := range tbl.Rows() {
		sku := table.Cell(row, skuIdx)
		name := table.Cell(row, nameIdx)

		if strings.ToLower(sku) != want && !strings.Contains(strings.ToLower(name), want) {
			continue
		}

		rec := domain.InventoryRecord{
			SKU:      firstNonEmpty(sku, name, query),
			Name:     firstNonEmpty(name, sku, query),
			Quantity: parseQuantity(table.Cell(row, quantityIdx)),
		}
		if lvl, ok := parseOptionalNumber(table.Cell(row, restockIdx)); ok {
			rec.RestockLevel = &lvl
		}
		return rec, true, nil
	}

	return domain.InventoryRecord{}, false, nil
}

// parseQuantity parses a cell as a number, defaulting to 0 when the cell is
// empty or non-numeric.
func parseQuantity(cell string) float64 {
	v, ok := parseOptionalNumber(cell)
	if !ok {
		return 0
	}
	return v
}

func parseOptionalNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
