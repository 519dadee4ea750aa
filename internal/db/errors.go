package db

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Get for a missing key.
var ErrKeyNotFound = errors.New("db: key not found")

// Op names the backend command that failed.
type Op string

const (
	OpDel  Op = "DEL"
	OpGet  Op = "GET"
	OpSet  Op = "SET"
	OpPing Op = "PING"
)

// Error tags a backend failure with its command.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("db %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }
