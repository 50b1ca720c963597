package db

import "fmt"

// StoreConnectionError means the graph store could not be reached at
// startup. The service keeps running without a store when it sees one.
type StoreConnectionError struct {
	URI string
	Err error
}

func (e *StoreConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to graph store at %s: %v", e.URI, e.Err)
}

func (e *StoreConnectionError) Unwrap() error { return e.Err }

// StoreOperationError wraps a failed read or write against the graph
// store. Callers log it and degrade instead of aborting a whole run.
type StoreOperationError struct {
	Op  string
	Err error
}

func (e *StoreOperationError) Error() string {
	return fmt.Sprintf("graph store operation %q failed: %v", e.Op, e.Err)
}

func (e *StoreOperationError) Unwrap() error { return e.Err }
