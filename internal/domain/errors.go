package domain

import (
	"errors"
	"log/slog"
	"net/http"
)

// ErrorCode classifies a business error. Each code has one HTTP status.
type ErrorCode int

const (
	CodeNotFound ErrorCode = iota + 1
	CodeAlreadyExists
	CodeValidation
	CodeInternal
	CodeUnauthorized
	CodeForbidden
)

var codeNames = map[ErrorCode]string{
	CodeNotFound:      "not_found",
	CodeAlreadyExists: "already_exists",
	CodeValidation:    "validation",
	CodeInternal:      "internal",
	CodeUnauthorized:  "unauthorized",
	CodeForbidden:     "forbidden",
}

var codeStatus = map[ErrorCode]int{
	CodeNotFound:      http.StatusNotFound,
	CodeAlreadyExists: http.StatusConflict,
	CodeValidation:    http.StatusBadRequest,
	CodeInternal:      http.StatusInternalServerError,
	CodeUnauthorized:  http.StatusUnauthorized,
	CodeForbidden:     http.StatusForbidden,
}

// String returns the code's snake_case name, or "unknown".
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}

// AppError is a business error: a code, a message safe to show to a writer or
// API client, and the underlying cause.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// LogValue implements slog.LogValuer.
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", e.Code.String()),
		slog.String("message", e.Message),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// Sentinel errors. Match them with the Is* helpers, which compare codes, not
// with errors.Is, which compares pointers.
var (
	ErrNotFound      = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists = &AppError{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation    = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInternal      = &AppError{Code: CodeInternal, Message: "internal error"}
	ErrUnauthorized  = &AppError{Code: CodeUnauthorized, Message: "invalid credentials"}
	ErrForbidden     = &AppError{Code: CodeForbidden, Message: "forbidden"}
)

// NewAppError creates an AppError.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the first AppError in err's chain, or 0.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}

func IsNotFound(err error) bool      { return CodeOf(err) == CodeNotFound }
func IsAlreadyExists(err error) bool { return CodeOf(err) == CodeAlreadyExists }
func IsValidation(err error) bool    { return CodeOf(err) == CodeValidation }
func IsInternal(err error) bool      { return CodeOf(err) == CodeInternal }
func IsUnauthorized(err error) bool  { return CodeOf(err) == CodeUnauthorized }
func IsForbidden(err error) bool     { return CodeOf(err) == CodeForbidden }

// HTTPStatusCode maps err to the status of its code. Errors without a known
// code are 500.
func HTTPStatusCode(err error) int {
	if status, ok := codeStatus[CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
