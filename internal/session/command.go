package session

// Command is one operator instruction read by a Presenter.
type Command int

const (
	CommandNone      Command = iota
	CommandAccept            // y: accept current hunk, advance
	CommandReject            // n: reject current hunk, advance
	CommandAcceptAll         // a: accept every remaining pending hunk
	CommandRejectAll         // d: reject every remaining pending hunk
	CommandQuit              // q: stop prompting; pending hunks become rejected
	CommandEdit              // e: edit current hunk in the external editor
	CommandClear             // l / ctrl-l: clear screen and re-present
	CommandExit              // ctrl-c: abort without materializing
)

// CommandForKey maps a single keystroke to a command in immediate input
// mode. Unmapped keys return false so the read loop keeps waiting.
func CommandForKey(b byte) (Command, bool) {
	switch b {
	case 'y':
		return CommandAccept, true
	case 'n':
		return CommandReject, true
	case 'a':
		return CommandAcceptAll, true
	case 'd':
		return CommandRejectAll, true
	case 'q':
		return CommandQuit, true
	case 'e':
		return CommandEdit, true
	case 'l', 0x0c: // ctrl-l
		return CommandClear, true
	case 0x03: // ctrl-c
		return CommandExit, true
	default:
		return CommandNone, false
	}
}

// ParseCommand maps a full input line to a command in line-buffered mode.
// Unrecognized input returns false and the prompt is repeated.
func ParseCommand(line string) (Command, bool) {
	if len(line) != 1 {
		return CommandNone, false
	}
	return CommandForKey(line[0])
}
