package git

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindEngine Kind = iota
	KindNotInRepo
	KindNotFound
	KindUnbornHead
	KindDetached
	KindCommand
)

// Sentinels for errors.Is against an *Error of the matching kind.
var (
	ErrNotInRepo   = errors.New("not in a git repository")
	ErrNotFound    = errors.New("object not found")
	ErrUnbornHead  = errors.New("HEAD has no commits yet")
	ErrDetached    = errors.New("HEAD is detached")
	ErrCommand     = errors.New("git command failed")
	ErrEngineError = errors.New("git engine error")
)

// Error is returned for failures of the version-control engine. Help is a
// short hint meant for the user, not for logs.
type Error struct {
	Kind Kind
	Op   string
	Err  error
	Help string
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindNotInRepo:
		return ErrNotInRepo
	case KindNotFound:
		return ErrNotFound
	case KindUnbornHead:
		return ErrUnbornHead
	case KindDetached:
		return ErrDetached
	case KindCommand:
		return ErrCommand
	default:
		return ErrEngineError
	}
}

func (k Kind) defaultHelp() string {
	switch k {
	case KindNotInRepo:
		return "Run gx inside a git working tree or pass --repo."
	case KindNotFound:
		return "Check that the branch, tag or commit exists."
	case KindUnbornHead:
		return "Create a first commit before browsing history."
	case KindDetached:
		return "Switch to a branch first, e.g. 'gx checkout main'."
	case KindCommand:
		return "Ensure that 'git' is installed and available in your PATH."
	default:
		return ""
	}
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err, Help: kind.defaultHelp()}
}

// Help returns the user hint carried by err, if any.
func Help(err error) string {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Help
	}
	return ""
}
