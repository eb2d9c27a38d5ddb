package bot

import (
	"strings"
	"testing"

	"sheetbot/internal/domain"
)

func TestFormatOrder_AllFields(t *testing.T) {
	got := FormatOrder(domain.OrderRecord{
		OrderID:   "12345",
		Customer:  "Jane Doe",
		Status:    "Shipped",
		UpdatedAt: "2024-03-01",
	})
	want := "Order 12345\nCustomer: Jane Doe\nStatus: Shipped\nUpdated: 2024-03-01"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatOrder_SkipsEmptyFields(t *testing.T) {
	got := FormatOrder(domain.OrderRecord{OrderID: "12345", Status: "Shipped"})
	if strings.Contains(got, "Customer:") {
		t.Error("empty customer should not produce a line")
	}
	if strings.Contains(got, "Updated:") {
		t.Error("empty updatedAt should not produce a line")
	}
	if !strings.Contains(got, "Order 12345") || !strings.Contains(got, "Status: Shipped") {
		t.Errorf("missing expected lines: %q", got)
	}
}

func TestFormatInventory(t *testing.T) {
	got := FormatInventory(domain.InventoryRecord{SKU: "SKU-1", Name: "Widget", Quantity: 10})
	want := "Item: Widget\nSKU: SKU-1\nQuantity: 10"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatInventory_RestockZeroIsPrinted(t *testing.T) {
	zero := 0.0
	got := FormatInventory(domain.InventoryRecord{SKU: "SKU-1", Name: "Widget", Quantity: 10, RestockLevel: &zero})
	if !strings.Contains(got, "Restock level: 0") {
		t.Errorf("restock level zero must be printed: %q", got)
	}
}

func TestFormatInventory_FractionalQuantity(t *testing.T) {
	got := FormatInventory(domain.InventoryRecord{SKU: "S", Name: "N", Quantity: 2.5})
	if !strings.Contains(got, "Quantity: 2.5") {
		t.Errorf("expected fractional quantity preserved: %q", got)
	}
}

func TestHelpMessage_ThreeLines(t *testing.T) {
	help := HelpMessage()
	lines := strings.Split(help, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), help)
	}
	if !strings.Contains(lines[1], "order 12345") {
		t.Errorf("expected order example, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "inventory") {
		t.Errorf("expected inventory example, got %q", lines[2])
	}
}

func TestNotFoundMessagesNameTheQuery(t *testing.T) {
	if got := FormatOrderNotFound("99999"); !strings.Contains(got, "99999") {
		t.Errorf("order not-found should name the id: %q", got)
	}
	if got := FormatInventoryNotFound("widget"); !strings.Contains(got, "widget") {
		t.Errorf("inventory not-found should name the query: %q", got)
	}
}
