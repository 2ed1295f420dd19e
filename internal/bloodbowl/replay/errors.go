package replay

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure of the driver wraps exactly one of them.
var (
	// ErrInputMismatch means the commands and the log disagree.
	ErrInputMismatch = errors.New("input mismatch")
	// ErrUnexpectedCommand means a command arrived that the rules state does
	// not allow.
	ErrUnexpectedCommand = errors.New("unexpected command")
	// ErrUnexpectedLogEntry means a log entry arrived that the rules state
	// does not allow.
	ErrUnexpectedLogEntry = errors.New("unexpected log entry")
	// ErrUnimplemented marks recognised situations the driver does not model.
	ErrUnimplemented = errors.New("unimplemented")
	// ErrValidation means the rosters or the board broke a rule.
	ErrValidation = errors.New("validation failure")
	// ErrEndOfCommands means the command stream ran out.
	ErrEndOfCommands = errors.New("end of commands")
	// ErrEndOfLog means the game log ran out.
	ErrEndOfLog = errors.New("end of log")
	// ErrAlreadyStarted is returned when a replay is iterated twice.
	ErrAlreadyStarted = errors.New("replay already started")
)

// Error carries where in the two input streams the driver stopped.
type Error struct {
	Kind    error
	Command int
	Batch   int
	Detail  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s (command %d, log batch %d)", e.Kind, e.Detail, e.Command, e.Batch)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// KindOf returns the error kind behind err, or nil if err did not come from
// the driver.
func KindOf(err error) error {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return nil
}

// KindName returns a short stable name for the error kind, used when storing
// run outcomes.
func KindName(err error) string {
	switch KindOf(err) {
	case ErrInputMismatch:
		return "input_mismatch"
	case ErrUnexpectedCommand:
		return "unexpected_command"
	case ErrUnexpectedLogEntry:
		return "unexpected_log_entry"
	case ErrUnimplemented:
		return "unimplemented"
	case ErrValidation:
		return "validation"
	case ErrEndOfCommands:
		return "end_of_commands"
	case ErrEndOfLog:
		return "end_of_log"
	case nil:
		if err == nil {
			return ""
		}
		return "other"
	default:
		return "other"
	}
}
