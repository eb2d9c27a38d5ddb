package bot

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"sheetbot/internal/lookup"
)

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

func testResponder(src *fakeSource) *Responder {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewResponder(ResponderConfig{
		Lookups: lookup.New(lookup.Config{Source: src, Logger: logger}),
		Logger:  logger,
	})
}

func defaultTabs() *fakeSource {
	return &fakeSource{tabs: map[string][][]string{
		"Orders": {
			{"Order ID", "Customer", "Status"},
			{"12345", "Jane Doe", "Shipped"},
		},
		"Inventory": {
			{"SKU", "Name", "Quantity"},
			{"SKU-1", "Widget", "10"},
		},
	}}
}

func TestRespond_OrderFound(t *testing.T) {
	r := testResponder(defaultTabs())
	reply := r.Respond(context.Background(), "twilio", "order 12345")

	for _, want := range []string{"Order 12345", "Customer: Jane Doe", "Status: Shipped"} {
		if !strings.Contains(reply, want) {
			t.Errorf("reply missing %q: %q", want, reply)
		}
	}
	if strings.Contains(reply, "Updated:") {
		t.Errorf("no Updated At column, so no Updated line: %q", reply)
	}
}

func TestRespond_OrderNotFound(t *testing.T) {
	r := testResponder(defaultTabs())
	reply := r.Respond(context.Background(), "twilio", "order 99999")

	if !strings.Contains(reply, "99999") {
		t.Errorf("not-found reply should name the order id: %q", reply)
	}
	if !strings.Contains(reply, "couldn't find order") {
		t.Errorf("expected the apology, got %q", reply)
	}
}

func TestRespond_InventoryByNameSubstring(t *testing.T) {
	r := testResponder(defaultTabs())
	reply := r.Respond(context.Background(), "twilio", "inventory widget")

	for _, want := range []string{"Item: Widget", "SKU: SKU-1", "Quantity: 10"} {
		if !strings.Contains(reply, want) {
			t.Errorf("reply missing %q: %q", want, reply)
		}
	}
	if strings.Contains(reply, "Restock level") {
		t.Errorf("no restock column, so no restock line: %q", reply)
	}
}

func TestRespond_EmptyInputIsHelp(t *testing.T) {
	r := testResponder(defaultTabs())
	reply := r.Respond(context.Background(), "twilio", "")

	if reply != HelpMessage() {
		t.Errorf("expected help message, got %q", reply)
	}
}

func TestRespond_Unknown(t *testing.T) {
	r := testResponder(defaultTabs())
	reply := r.Respond(context.Background(), "twilio", "do something")

	if reply != UnknownMessage() {
		t.Errorf("expected unknown message, got %q", reply)
	}
}

func TestRespond_MissingOrderIDHeaderIsGenericError(t *testing.T) {
	src := &fakeSource{tabs: map[string][][]string{
		"Orders": {{"Customer", "Status"}, {"Jane", "Shipped"}},
	}}
	r := testResponder(src)

	reply := r.Respond(context.Background(), "twilio", "order 12345")
	if reply != ErrorMessage() {
		t.Errorf("config error should surface as the generic message, got %q", reply)
	}
}

func TestRespond_FetchFailureIsGenericError(t *testing.T) {
	r := testResponder(&fakeSource{err: errors.New("network down")})

	reply := r.Respond(context.Background(), "twilio", "order 12345")
	if reply != ErrorMessage() {
		t.Errorf("fetch failure should surface as the generic message, got %q", reply)
	}
	if strings.Contains(reply, "network down") {
		t.Error("internal error detail must never reach the user")
	}
}
