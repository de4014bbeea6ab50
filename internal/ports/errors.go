package ports

import (
	"errors"
	"fmt"
)

// Expected failure modes surfaced by the verdict pipeline. Judge and
// chief failures are absorbed into fallback values and never reach the
// caller, so these two conditions plus storage errors are the pipeline's
// entire error surface.
var (
	// ErrMissingIdentifier indicates that neither a user identifier nor a
	// visitor identifier was supplied, or both were.
	ErrMissingIdentifier = errors.New("exactly one of user or visitor identifier required")

	// ErrRateLimited indicates the identifier exhausted its daily quota.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound indicates a store lookup matched no record.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidSituation indicates the submitted situation failed length
	// validation before any model work started.
	ErrInvalidSituation = errors.New("invalid situation")
)

// LLMError describes a failed call to a model. It is logged for
// operability and then converted into a fallback verdict; it never
// propagates past the judge invoker or chief synthesizer.
type LLMError struct {
	// Model is the routing identifier of the model that failed.
	Model string
	// Operation names the call site, e.g. "judge" or "chief".
	Operation string
	// Err is the underlying transport or parse failure.
	Err error
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("llm error: model=%s, operation=%s, err=%v", e.Model, e.Operation, e.Err)
}

func (e *LLMError) Unwrap() error { return e.Err }

// NewLLMError creates an LLMError for the given model and call site.
func NewLLMError(model, operation string, err error) *LLMError {
	return &LLMError{Model: model, Operation: operation, Err: err}
}

// StoreError describes a failed persistence operation, carrying the
// entity and operation for log context.
type StoreError struct {
	Entity    string
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: entity=%s, operation=%s, err=%v", e.Entity, e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError creates a StoreError for the given entity and operation.
func NewStoreError(entity, operation string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Err: err}
}
