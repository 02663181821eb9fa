package manager

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when an operation runs before Connect.
var ErrNotConnected = errors.New("not connected to database")

// ErrAlreadyConnected is returned by Connect on a manager that already
// holds a connection. Reconnecting requires an explicit Disconnect
// first; silently replacing the handle would leak the old one.
var ErrAlreadyConnected = errors.New("already connected to database")

// ConnectError wraps a failed connection handshake.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connecting to database: %v", e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// QueryError wraps a statement that the database rejected. The current
// transaction has already been rolled back by the time it surfaces.
type QueryError struct {
	Stmt string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("executing statement: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
