package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Mode selects which command of an entry runs.
type Mode int

const (
	// ModeNormal runs the entry's command.
	ModeNormal Mode = iota
	// ModeRollback runs the entry's rollback command.
	ModeRollback
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeRollback:
		return "rollback"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "normal", "":
		return ModeNormal, nil
	case "rollback":
		return ModeRollback, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// MarshalJSON encodes the mode by name.
func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a mode name.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Request asks for one entry to be applied or rolled back.
type Request struct {
	EntryID string `json:"entry_id"`
	Mode    Mode   `json:"mode"`
}

// Requests builds one request per id, all in the same mode.
func Requests(mode Mode, ids ...string) []Request {
	reqs := make([]Request, len(ids))
	for i, id := range ids {
		reqs[i] = Request{EntryID: id, Mode: mode}
	}
	return reqs
}

// Result is the outcome of one request. Error is nil exactly when Success
// is true.
type Result struct {
	Success bool    `json:"success"`
	Output  string  `json:"output"`
	Error   *string `json:"error"`
}

// Per-position failures. Their messages become Result.Error.
var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrNoRollback    = errors.New("no rollback available")
)

// Succeeded returns a successful result carrying output.
func Succeeded(output string) Result {
	return Result{Success: true, Output: output}
}

// Failed returns a failed result with the given output and message.
func Failed(output, message string) Result {
	return Result{Output: output, Error: &message}
}

// ErrorMessage returns *Error, or "" for a successful result.
func (r Result) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}
