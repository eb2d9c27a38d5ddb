package channel

import (
	"strings"
	"testing"
)

func TestTwiML_PlainBody(t *testing.T) {
	got := TwiML("Order 12345\nStatus: Shipped")
	want := `<?xml version="1.0" encoding="UTF-8"?><Response><Message>Order 12345
Status: Shipped</Message></Response>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTwiML_EscapesSpecialCharacters(t *testing.T) {
	got := TwiML(`<Widget & "Gadget's">`)
	want := `<?xml version="1.0" encoding="UTF-8"?><Response><Message>&lt;Widget &amp; &quot;Gadget&apos;s&gt;</Message></Response>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTwiML_NoUnescapedMarkupFromBody(t *testing.T) {
	got := TwiML(`</Message><Message>injected`)
	if strings.Contains(got, "</Message><Message>injected") {
		t.Fatalf("body broke out of the envelope: %q", got)
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(got,
		`<?xml version="1.0" encoding="UTF-8"?><Response><Message>`), "</Message></Response>")
	if strings.ContainsAny(inner, "<>\"'") {
		t.Fatalf("unescaped special character in %q", inner)
	}
}

func TestTwiML_EmptyBody(t *testing.T) {
	got := TwiML("")
	want := `<?xml version="1.0" encoding="UTF-8"?><Response><Message></Message></Response>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
