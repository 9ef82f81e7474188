package goodreads

import (
	"errors"
	"fmt"
)

// Sentinel errors for search surface operations.
var (
	ErrNotFound    = errors.New("goodreads: not found")
	ErrRateLimited = errors.New("goodreads: rate limited by server")
	ErrBadRequest  = errors.New("goodreads: bad request")
	ErrServer      = errors.New("goodreads: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // Operation: "search"
	Query string
	Err   error
}

func (e *Error) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("goodreads %s [%s]: %v", e.Op, e.Query, e.Err)
	}
	return fmt.Sprintf("goodreads %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, query string, err error) error {
	return &Error{
		Op:    op,
		Query: query,
		Err:   err,
	}
}
