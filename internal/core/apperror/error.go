// Package apperror provides structured error handling for the reception gateway.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes grouped by concern.
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeUpstream = "UPSTREAM_ERROR" // ERP backend unreachable or failed

	// Validation errors (400)
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// Business rule violations (422)
	CodeUnbalancedDraft    = "UNBALANCED_DRAFT"    // override required, not a hard stop
	CodeSubmitInFlight     = "SUBMIT_IN_FLIGHT"    // a prior submit has not resolved yet
	CodeUnresolvedMaterial = "UNRESOLVED_MATERIAL" // line still pending quick-create

	// Authorization errors (401)
	CodeUnauthorized = "UNAUTHORIZED"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict     = "CONFLICT"
	CodeDuplicateSKU = "DUPLICATE_SKU"
)

// AppError is the standard error type for the service.
// It implements the error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, amounts, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewUnbalancedDraft signals that the draft differs from the invoice total
// beyond tolerance and the caller must confirm the override explicitly.
func NewUnbalancedDraft(difference string) *AppError {
	return &AppError{
		Code:       CodeUnbalancedDraft,
		Message:    "Draft totals do not match the invoice total. Confirm to save anyway.",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"difference": difference},
	}
}

// NewSubmitInFlight is returned when a submit or quick-create call is already running.
func NewSubmitInFlight() *AppError {
	return &AppError{
		Code:       CodeSubmitInFlight,
		Message:    "A save is already in progress for this draft",
		HTTPStatus: http.StatusConflict,
	}
}

// NewUnresolvedMaterial signals a line that never got a catalog identity.
func NewUnresolvedMaterial(name string) *AppError {
	return &AppError{
		Code:       CodeUnresolvedMaterial,
		Message:    "Line item is not bound to a catalog material",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"material_name": name},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUpstream wraps a failure from the ERP backend. The detail message is whatever
// the backend reported, falling back to a generic message.
func NewUpstream(status int, detail string, err error) *AppError {
	if detail == "" {
		detail = "ERP backend request failed"
	}
	httpStatus := http.StatusBadGateway
	// Preserve client-class statuses so the UI can react (404, 409, 422).
	if status >= 400 && status < 500 {
		httpStatus = status
	}
	return &AppError{
		Code:       CodeUpstream,
		Message:    detail,
		HTTPStatus: httpStatus,
		Details:    map[string]any{"upstream_status": status},
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicateSKU is returned when quick-create hits an existing catalog SKU.
func NewDuplicateSKU(sku string) *AppError {
	return &AppError{
		Code:       CodeDuplicateSKU,
		Message:    "A material with this SKU already exists",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"sku": sku},
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsValidation checks if error is CodeValidation
func IsValidation(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeValidation
	}
	return false
}

// IsDuplicateSKU checks if error is CodeDuplicateSKU
func IsDuplicateSKU(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeDuplicateSKU
	}
	return false
}

// IsUnbalancedDraft checks if error is CodeUnbalancedDraft
func IsUnbalancedDraft(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeUnbalancedDraft
	}
	return false
}
