package window

import "fmt"

// Code is an error or warning code. Error codes are negative; a disjoint
// positive-looking "warning" namespace is represented by the negative
// WarnXxx constants documented alongside them, matching
// original_source/src/terminal.h's T3_ERR_* / T3_WARN_* split.
type Code int

const (
	ErrNotATTY            Code = -64
	ErrTimeout            Code = -63
	ErrNoSizeInfo         Code = -62
	ErrNonPrint           Code = -61
	ErrCharsetError       Code = -60
	ErrHardcopyTerminal   Code = -59
	ErrTerminfoDBNotFound Code = -58
	ErrTerminalTooLimited Code = -57
	ErrBadArg             Code = -56
	ErrUnknown            Code = -1
)

// WarnUpdateTerminal is the warning code for a call that succeeded although
// the terminal's capabilities changed underneath the caller (e.g. resized
// into/out of a state requiring re-probe); not a failure. No function in
// this package returns it.
const WarnUpdateTerminal Code = -128

var codeStrings = map[Code]string{
	ErrNotATTY:            "not a terminal",
	ErrTimeout:            "operation timed out",
	ErrNoSizeInfo:         "could not determine terminal size",
	ErrNonPrint:           "string contains non-printable characters",
	ErrCharsetError:       "character set conversion error",
	ErrHardcopyTerminal:   "terminal is a hardcopy terminal",
	ErrTerminfoDBNotFound: "terminfo database not found",
	ErrTerminalTooLimited: "terminal does not have the required capabilities",
	ErrBadArg:             "invalid argument",
	ErrUnknown:            "unknown error",
}

// String returns a human-readable description of c, mirroring
// original_source's t3_window_strerror.
func (c Code) String() string {
	if s, ok := codeStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("error %d", int(c))
}

// Error wraps a Code with the operation that produced it and, when
// available, the underlying cause.
type Error struct {
	Op   string
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code.String(), e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code.String())
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, code Code, err error) *Error {
	return &Error{Op: op, Code: code, Err: err}
}
