package bot

import (
	"testing"

	"sheetbot/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind domain.CommandKind
		arg  string
	}{
		{"empty", "", domain.CommandHelp, ""},
		{"whitespace only", "   \t \n ", domain.CommandHelp, ""},
		{"order", "order 12345", domain.CommandOrder, "12345"},
		{"order uppercase", "ORDER 12345", domain.CommandOrder, "12345"},
		{"status synonym", "Status AB-99", domain.CommandOrder, "AB-99"},
		{"order surrounding whitespace", "  order   12345  ", domain.CommandOrder, "12345"},
		{"order multiword arg rejoined", "order  big   blue  thing", domain.CommandOrder, "big blue thing"},
		{"order without arg", "order", domain.CommandUnknown, ""},
		{"order with only spaces after", "order    ", domain.CommandUnknown, ""},
		{"inventory", "inventory SKU123", domain.CommandInventory, "SKU123"},
		{"stock synonym", "stock widget", domain.CommandInventory, "widget"},
		{"inventory multiword", "inventory blue widget", domain.CommandInventory, "blue widget"},
		{"inventory without arg", "stock", domain.CommandUnknown, ""},
		{"help", "help", domain.CommandHelp, ""},
		{"menu synonym", "MENU", domain.CommandHelp, ""},
		{"help with trailing words", "help me please", domain.CommandHelp, ""},
		{"unknown", "what is this", domain.CommandUnknown, ""},
		{"unknown single word", "hello", domain.CommandUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := Parse(tt.in)
			if cmd.Kind != tt.kind {
				t.Errorf("kind: expected %q, got %q", tt.kind, cmd.Kind)
			}
			if cmd.Arg != tt.arg {
				t.Errorf("arg: expected %q, got %q", tt.arg, cmd.Arg)
			}
		})
	}
}
