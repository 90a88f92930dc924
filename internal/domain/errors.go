package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrCurrencyMismatch indicates arithmetic between two Money values of
	// different currencies. This is a programming error, not a runtime
	// condition to recover from.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)
