package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeDataset represents dataset integrity errors caught at load time
	ErrorTypeDataset ErrorType = "dataset"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeTransport represents errors in a hosting surface (HTTP, Discord, MCP)
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeRequest represents invalid caller input
	ErrorTypeRequest ErrorType = "request"
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

// Kind reports the error category. Typed errors embedding *BaseError inherit it.
func (e *BaseError) Kind() ErrorType {
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

// Dataset Errors

// ErrDuplicateEntity is returned when two entities share an id
type ErrDuplicateEntity struct {
	*BaseError
	EntityID string
}

func NewDuplicateEntity(entityID string) *ErrDuplicateEntity {
	return &ErrDuplicateEntity{
		BaseError: NewBaseError(ErrorTypeDataset, fmt.Sprintf("duplicate entity id: %s", entityID), nil),
		EntityID:  entityID,
	}
}

// ErrDanglingRelationship is returned when a relationship references a missing entity
type ErrDanglingRelationship struct {
	*BaseError
	From    string
	To      string
	Missing string
}

func NewDanglingRelationship(from, to, missing string) *ErrDanglingRelationship {
	return &ErrDanglingRelationship{
		BaseError: NewBaseError(ErrorTypeDataset, fmt.Sprintf("relationship %s -> %s references unknown entity %s", from, to, missing), nil),
		From:      from,
		To:        to,
		Missing:   missing,
	}
}

// ErrUnknownEntityType is returned for an entity type outside the closed set
type ErrUnknownEntityType struct {
	*BaseError
	EntityID string
	Value    string
}

func NewUnknownEntityType(entityID, value string) *ErrUnknownEntityType {
	return &ErrUnknownEntityType{
		BaseError: NewBaseError(ErrorTypeDataset, fmt.Sprintf("entity %s has unknown type %q", entityID, value), nil),
		EntityID:  entityID,
		Value:     value,
	}
}

// ErrUnknownRelationType is returned for a relationship type outside the closed set
type ErrUnknownRelationType struct {
	*BaseError
	From  string
	To    string
	Value string
}

func NewUnknownRelationType(from, to, value string) *ErrUnknownRelationType {
	return &ErrUnknownRelationType{
		BaseError: NewBaseError(ErrorTypeDataset, fmt.Sprintf("relationship %s -> %s has unknown type %q", from, to, value), nil),
		From:      from,
		To:        to,
		Value:     value,
	}
}

// ErrInvalidStrength is returned when a relationship strength falls outside [0,1]
type ErrInvalidStrength struct {
	*BaseError
	From     string
	To       string
	Strength float64
}

func NewInvalidStrength(from, to string, strength float64) *ErrInvalidStrength {
	return &ErrInvalidStrength{
		BaseError: NewBaseError(ErrorTypeDataset, fmt.Sprintf("relationship %s -> %s has strength %v outside [0,1]", from, to, strength), nil),
		From:      from,
		To:        to,
		Strength:  strength,
	}
}

// ErrInvalidFAQ is returned when an FAQ record is missing required text
type ErrInvalidFAQ struct {
	*BaseError
	Index  int
	Reason string
}

func NewInvalidFAQ(index int, reason string) *ErrInvalidFAQ {
	return &ErrInvalidFAQ{
		BaseError: NewBaseError(ErrorTypeDataset, fmt.Sprintf("faq #%d: %s", index, reason), nil),
		Index:     index,
		Reason:    reason,
	}
}

// ErrInvalidEvalCase is returned when a conformance case cannot be run
type ErrInvalidEvalCase struct {
	*BaseError
	Name   string
	Reason string
}

func NewInvalidEvalCase(name, reason string) *ErrInvalidEvalCase {
	return &ErrInvalidEvalCase{
		BaseError: NewBaseError(ErrorTypeDataset, fmt.Sprintf("eval case %q: %s", name, reason), nil),
		Name:      name,
		Reason:    reason,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Query string
}

func NewGraphQueryFailed(query string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", query), err),
		Query:     query,
	}
}

// Request Errors

// ErrEntityNotFound is returned when a caller asks for an entity id that does not exist
type ErrEntityNotFound struct {
	*BaseError
	EntityID string
}

func NewEntityNotFound(entityID string) *ErrEntityNotFound {
	return &ErrEntityNotFound{
		BaseError: NewBaseError(ErrorTypeRequest, fmt.Sprintf("entity not found: %s", entityID), nil),
		EntityID:  entityID,
	}
}

// ErrInvalidRequest is returned when caller input cannot be decoded or is out of range
type ErrInvalidRequest struct {
	*BaseError
	Field string
}

func NewInvalidRequest(field, reason string) *ErrInvalidRequest {
	return &ErrInvalidRequest{
		BaseError: NewBaseError(ErrorTypeRequest, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
	}
}

// Transport Errors

// ErrTransportSendFailed is returned when a reply cannot be delivered to a chat surface
type ErrTransportSendFailed struct {
	*BaseError
	Surface string
	Target  string
}

func NewTransportSendFailed(surface, target string, err error) *ErrTransportSendFailed {
	return &ErrTransportSendFailed{
		BaseError: NewBaseError(ErrorTypeTransport, fmt.Sprintf("failed to send %s reply to %s", surface, target), err),
		Surface:   surface,
		Target:    target,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

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

type kinded interface {
	Kind() ErrorType
}

// IsErrorType checks if an error, or anything it wraps, is of a specific type.
// Joined errors match when any member matches.
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	if k, ok := err.(kinded); ok && k.Kind() == errType {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if IsErrorType(inner, errType) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return IsErrorType(u.Unwrap(), errType)
	}
	return false
}

// IsNotFound reports whether err is an ErrEntityNotFound anywhere in its chain
func IsNotFound(err error) bool {
	var nf *ErrEntityNotFound
	return stderrors.As(err, &nf)
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Dataset and config errors need a redeploy, not a retry
	if IsErrorType(err, ErrorTypeDataset) || IsErrorType(err, ErrorTypeConfig) {
		return false
	}
	// Graph connection errors are retryable
	var connErr *ErrGraphConnectionFailed
	if stderrors.As(err, &connErr) {
		return true
	}
	return IsErrorType(err, ErrorTypeTransport)
}
