package repository

import "fmt"

// AccessError wraps any SQL or transaction-control failure with the
// entity type and lookup key it happened for. The original cause is
// always preserved for errors.Is/As; rollback has already run by the
// time one of these propagates.
type AccessError struct {
	Entity string
	Key    any
	Err    error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("data access failed for %s %v: %v", e.Entity, e.Key, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

func accessErr(entity string, key any, err error) error {
	return &AccessError{Entity: entity, Key: key, Err: err}
}
