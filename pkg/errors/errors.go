package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents knowledge-graph registry errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeIngest represents record ingestion errors
	ErrorTypeIngest ErrorType = "ingest"
	// ErrorTypeSerialization represents export/import and snapshot errors
	ErrorTypeSerialization ErrorType = "serialization"
	// ErrorTypeMirror represents Neo4j mirror errors
	ErrorTypeMirror ErrorType = "mirror"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Category returns the error category; promoted through embedding so
// IsErrorType works on the derived error types as well.
func (e *BaseError) Category() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrMissingEndpoint is returned when a relationship references an entity
// that does not exist. Recoverable: the caller creates the entity first.
type ErrMissingEndpoint struct {
	*BaseError
	Source string
	Target string
}

func NewMissingEndpoint(source, target string) *ErrMissingEndpoint {
	return &ErrMissingEndpoint{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("missing endpoint for relationship %s -> %s", source, target), nil),
		Source:    source,
		Target:    target,
	}
}

// ErrEntityNotFound is returned when an entity lookup misses
type ErrEntityNotFound struct {
	*BaseError
	EntityID string
}

func NewEntityNotFound(entityID string) *ErrEntityNotFound {
	return &ErrEntityNotFound{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("entity not found: %s", entityID), nil),
		EntityID:  entityID,
	}
}

// Serialization Errors

// ErrSerializationFailed is returned when an export, import, snapshot or
// restore operation fails. The previously saved file is left untouched.
type ErrSerializationFailed struct {
	*BaseError
	Path string
}

func NewSerializationFailed(path string, err error) *ErrSerializationFailed {
	return &ErrSerializationFailed{
		BaseError: NewBaseError(ErrorTypeSerialization, fmt.Sprintf("serialization failed: %s", path), err),
		Path:      path,
	}
}

// Ingest Errors

// ErrInvalidRecord is returned when an ingest record fails validation
type ErrInvalidRecord struct {
	*BaseError
	Kind string
}

func NewInvalidRecord(kind string, err error) *ErrInvalidRecord {
	return &ErrInvalidRecord{
		BaseError: NewBaseError(ErrorTypeIngest, fmt.Sprintf("invalid %s record", kind), err),
		Kind:      kind,
	}
}

// Mirror Errors

// ErrMirrorSyncFailed is returned when pushing the graph to Neo4j fails
type ErrMirrorSyncFailed struct {
	*BaseError
	URI string
}

func NewMirrorSyncFailed(uri string, err error) *ErrMirrorSyncFailed {
	return &ErrMirrorSyncFailed{
		BaseError: NewBaseError(ErrorTypeMirror, fmt.Sprintf("mirror sync failed: %s", uri), err),
		URI:       uri,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	if categorized, ok := err.(interface{ Category() ErrorType }); ok {
		return categorized.Category() == errType
	}
	// Check wrapped errors
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		return IsErrorType(wrapped.Unwrap(), errType)
	}
	return false
}

// IsMissingEndpoint reports whether err is a missing-endpoint failure
func IsMissingEndpoint(err error) bool {
	for err != nil {
		if _, ok := err.(*ErrMissingEndpoint); ok {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
