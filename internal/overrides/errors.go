package overrides

import "fmt"

// PersistenceError reports a failed read or write of the override table.
type PersistenceError struct {
	Op  string // migrate, get, put, clear
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("override store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
