package tasks

import "errors"

// Errors returned by the collection, queue, search and service operations.
// Callers should match them with errors.Is; most are wrapped with detail.
var (
	// ErrOutOfRange is returned for an index outside [0, Len).
	ErrOutOfRange = errors.New("index out of range")

	// ErrEmptyQueue is returned by Peek and Dequeue on an empty queue.
	ErrEmptyQueue = errors.New("queue is empty")

	// ErrNotFound is returned when no task or category carries the requested id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when a required parameter is nil or unusable.
	ErrInvalidArgument = errors.New("invalid argument")
)
