package database

import (
	"errors"
	"fmt"
)

// StoreError is a failed archive query or write
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NotArchivedError means the archive holds no analysis for Ticker
type NotArchivedError struct {
	Ticker string
}

func (e *NotArchivedError) Error() string {
	return "no archived analysis for " + e.Ticker
}

// IsNotArchived reports whether err is or wraps a *NotArchivedError
func IsNotArchived(err error) bool {
	var nf *NotArchivedError
	return errors.As(err, &nf)
}

// RecordError rejects an archive row before it reaches the database
type RecordError struct {
	Field  string
	Reason string
	Value  string
}

func (e *RecordError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid record %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid record %s: %s", e.Field, e.Reason)
}

// storeErr returns nil for a nil err
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
