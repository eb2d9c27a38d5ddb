package bot

import (
	"fmt"
	"strconv"
	"strings"

	"sheetbot/internal/domain"
)

// FormatOrder renders a matched order as a multi-line reply. Only fields with
// values get a line, in a fixed order.
func FormatOrder(rec domain.OrderRecord) string {
	lines := []string{"Order " + rec.OrderID}
	if rec.Customer != "" {
		lines = append(lines, "Customer: "+rec.Customer)
	}
	if rec.Status != "" {
		lines = append(lines, "Status: "+rec.Status)
	}
	if rec.UpdatedAt != "" {
		lines = append(lines, "Updated: "+rec.UpdatedAt)
	}
	return strings.Join(lines, "\n")
}

// FormatInventory renders a matched inventory item. The restock line appears
// whenever the level is a known number, zero included.
func FormatInventory(rec domain.InventoryRecord) string {
	lines := []string{
		"Item: " + rec.Name,
		"SKU: " + rec.SKU,
		"Quantity: " + formatNumber(rec.Quantity),
	}
	if rec.RestockLevel != nil {
		lines = append(lines, "Restock level: "+formatNumber(*rec.RestockLevel))
	}
	return strings.Join(lines, "\n")
}

func FormatOrderNotFound(orderID string) string {
	return fmt.Sprintf("I couldn't find order %s. Double-check the order ID or reply 'help'.", orderID)
}

func FormatInventoryNotFound(query string) string {
	return fmt.Sprintf("I couldn't find any inventory result for %q. Try another SKU or name.", query)
}

func HelpMessage() string {
	return strings.Join([]string{
		"Hi! I'm your order and inventory assistant.",
		"• Order status: send 'order 12345'",
		"• Inventory: send 'inventory SKU123' or 'inventory widget'",
	}, "\n")
}

func UnknownMessage() string {
	return "I didn't understand that. Reply 'help' to see example commands."
}

// ErrorMessage is the generic reply for any internal failure. The underlying
// error is logged server-side and never echoed to the user.
func ErrorMessage() string {
	return "Something went wrong while checking the data. Please try again shortly."
}

// formatNumber prints whole quantities without a decimal point.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
