package domain

// CommandKind classifies an inbound message.
type CommandKind string

const (
	CommandOrder     CommandKind = "order"
	CommandInventory CommandKind = "inventory"
	CommandHelp      CommandKind = "help"
	CommandUnknown   CommandKind = "unknown"
)

// Command is the parsed form of an inbound message. Arg carries the order ID
// for CommandOrder and the search query for CommandInventory; it is empty for
// the other kinds.
type Command struct {
	Kind CommandKind
	Arg  string
}

// OrderRecord is the projection of a matched Orders row. Optional columns
// that are absent from the sheet come through as empty strings.
type OrderRecord struct {
	OrderID   string
	Customer  string
	Status    string
	UpdatedAt string
}

// InventoryRecord is the projection of a matched Inventory row.
// RestockLevel is nil when the column is absent or the cell is non-numeric;
// a present zero is meaningful and gets rendered.
type InventoryRecord struct {
	SKU          string
	Name         string
	Quantity     float64
	RestockLevel *float64
}
