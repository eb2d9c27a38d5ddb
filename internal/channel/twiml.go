package channel

import "strings"

// xmlEscaper covers the five XML special characters so arbitrary sheet
// content cannot break out of the reply envelope.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// TwiML wraps a reply body in the Twilio messaging response envelope.
func TwiML(body string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sb.WriteString("<Response><Message>")
	sb.WriteString(xmlEscaper.Replace(body))
	sb.WriteString("</Message></Response>")
	return sb.String()
}
