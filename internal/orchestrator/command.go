package orchestrator

import "strings"

// Command is a special in-band instruction recognized before any LLM call.
type Command int

const (
	CommandNone Command = iota
	CommandClearMemory
)

var clearCommands = map[string]struct{}{
	"/clear":       {},
	"/reset":       {},
	"clear memory": {},
	"reset memory": {},
	"forget":       {},
}

// ParseCommand matches the trimmed, lowercased query text against the fixed
// command set.
func ParseCommand(text string) Command {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if _, ok := clearCommands[normalized]; ok {
		return CommandClearMemory
	}
	return CommandNone
}
