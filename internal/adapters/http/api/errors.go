package api

import (
	"errors"
	"fmt"

	"github.com/okian/gymteams/internal/adapters/repository"
	service "github.com/okian/gymteams/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeded")
)

// OpError ties an error to the handler operation that produced it.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

// Unwrap returns the wrapped error.
func (e *OpError) Unwrap() error { return e.Err }

// Wrap annotates err with the handler operation.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// isUnavailable reports errors caused by results not yet being computed.
func isUnavailable(err error) bool {
	return errors.Is(err, repository.ErrNoSnapshot) || errors.Is(err, service.ErrNotReady)
}
