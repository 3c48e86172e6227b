package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for input validation
var (
	ErrEmptyText       = errors.New("text must be provided and cannot be empty")
	ErrEmptyCollection = errors.New("collection name must be provided and cannot be empty")
	ErrMissingField    = errors.New("both user and assistant messages must be provided")
)

// RemoteAPIError indicates the content API answered with a non-200 status
type RemoteAPIError struct {
	Status int
	Body   string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("content API returned status %d: %s", e.Status, e.Body)
}

// TimeoutError indicates the content API call exceeded its deadline
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("content API call timed out after %s", e.Timeout)
}

// TransportError wraps DNS, connection and other transport-level failures
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("content API call failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StoreError wraps vector store client failures
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("vector store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// MemoryBackendError wraps session store connectivity failures
type MemoryBackendError struct {
	Op  string
	Err error
}

func (e *MemoryBackendError) Error() string {
	return fmt.Sprintf("session store %s failed: %v", e.Op, e.Err)
}

func (e *MemoryBackendError) Unwrap() error {
	return e.Err
}
