package domain

import "errors"

var (
	// ErrCapacityExceeded is returned by an insert into a full table.
	ErrCapacityExceeded = errors.New("table full")
	// ErrNotFound is returned when no row matches an update key.
	ErrNotFound = errors.New("row not found")
	// ErrCorruptRecord marks undecodable rows or a malformed backing file.
	ErrCorruptRecord = errors.New("corrupt record")
	// ErrStorageIO wraps any failure reading or writing the backing file.
	// In-memory and on-disk state may diverge after it.
	ErrStorageIO = errors.New("storage i/o failure")
	// ErrInvalidRecord rejects input at the boundary before it reaches storage.
	ErrInvalidRecord = errors.New("invalid record")
)
