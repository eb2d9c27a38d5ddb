// Package bot holds the conversational core: the command parser, the reply
// formatter, and the responder that ties them to the lookup engine.
package bot

import (
	"strings"

	"sheetbot/internal/domain"
)

// Parse classifies raw inbound text into a command. It is total: every input
// maps to some command, and empty input asks for help.
func Parse(text string) domain.Command {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.Command{Kind: domain.CommandHelp}
	}

	fields := strings.Fields(trimmed)
	keyword := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.Join(fields[1:], " "))

	switch keyword {
	case "order", "status":
		if arg != "" {
			return domain.Command{Kind: domain.CommandOrder, Arg: arg}
		}
	case "inventory", "stock":
		if arg != "" {
			return domain.Command{Kind: domain.CommandInventory, Arg: arg}
		}
	case "help", "menu":
		return domain.Command{Kind: domain.CommandHelp}
	}

	// A lookup keyword without an argument falls through to unknown.
	return domain.Command{Kind: domain.CommandUnknown}
}
