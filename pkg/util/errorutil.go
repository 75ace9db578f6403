package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes surfaced to clients.
const (
	CodeValidationFailed        = "VALIDATION_FAILED"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeEmailTaken              = "EMAIL_TAKEN"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodePendingApproval         = "PENDING_APPROVAL"
	CodeNotFound                = "NOT_FOUND"
	CodeTooManyAttempts         = "TOO_MANY_ATTEMPTS"
	CodeInternal                = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on Code so callers can compare against the constructors' results.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewInvalidTransition(from, to string) error {
	return NewDomainError(CodeInvalidStatusTransition,
		fmt.Sprintf("cannot change status from %s to %s", from, to),
		http.StatusBadRequest,
		map[string]any{"from": from, "to": to})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

// NewConflict reports a uniqueness clash. The API contract answers these with 400.
func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeEmailTaken, message, http.StatusBadRequest, details)
}

// NewInvalidCredentials never says which half of the credentials was wrong.
func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid credentials", http.StatusBadRequest, nil)
}

func NewPendingApproval(status string) error {
	return NewDomainError(CodePendingApproval, "account pending admin approval", http.StatusForbidden,
		map[string]any{"status": status})
}

func NewTooManyAttempts(retryAfterSeconds int) error {
	return NewDomainError(CodeTooManyAttempts, "too many login attempts, try again later", http.StatusTooManyRequests,
		map[string]any{"retryAfterSeconds": retryAfterSeconds})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// CodeOf returns the code of a DomainError, or "" for anything else.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
