package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupported = errors.New("protocol: unsupported ptvoice version")
	ErrInvalid     = errors.New("protocol: invalid ptvoice data")
	ErrOverMax     = errors.New("protocol: ptvoice data exceeds maximum")
	ErrIO          = errors.New("protocol: ptvoice i/o failure")
)

// IOError wraps a failure of the underlying stream.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("protocol: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func ioFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Err: err}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func unsupported(version int32) error {
	return fmt.Errorf("%w: version %d is newer than %d", ErrUnsupported, version, Version)
}

func overMax(what string, n int) error {
	return fmt.Errorf("%w: %s count %d", ErrOverMax, what, n)
}

// Error kinds reported by Kind.
const (
	KindOK          = "ok"
	KindUnsupported = "unsupported"
	KindInvalid     = "invalid"
	KindOverMax     = "over_max"
	KindIO          = "io"
	KindUnknown     = "unknown"
)

// Kind maps err onto a stable label for metrics and reporting.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrUnsupported):
		return KindUnsupported
	case errors.Is(err, ErrInvalid):
		return KindInvalid
	case errors.Is(err, ErrOverMax):
		return KindOverMax
	case errors.Is(err, ErrIO):
		return KindIO
	default:
		return KindUnknown
	}
}
