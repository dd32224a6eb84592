package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeRateLimited   ErrorCode = "RATE_LIMITED"

	// Коды движка сопоставления и проверки заявок.
	ErrCodeInsufficientDistractors ErrorCode = "INSUFFICIENT_DISTRACTORS"
	ErrCodeClaimNotPending         ErrorCode = "CLAIM_NOT_PENDING"
	ErrCodeUnknownOption           ErrorCode = "UNKNOWN_OPTION"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду, чтобы errors.Is находил сентинелы
// и после Wrap с тем же кодом.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && (t.Message == "" || e.Message == t.Message)
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation - короткая форма для ошибок валидации входных данных.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeUnknownOption:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeClaimNotPending:
		return http.StatusConflict
	case ErrCodeInsufficientDistractors:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func IsForbidden(err error) bool {
	return hasCode(err, ErrCodeForbidden)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func IsDatabase(err error) bool {
	return hasCode(err, ErrCodeDatabaseError)
}

func IsInsufficientDistractors(err error) bool {
	return hasCode(err, ErrCodeInsufficientDistractors)
}

func IsClaimNotPending(err error) bool {
	return hasCode(err, ErrCodeClaimNotPending)
}

func IsUnknownOption(err error) bool {
	return hasCode(err, ErrCodeUnknownOption)
}

var (
	ErrItemNotFound  = New(ErrCodeNotFound, "вещь не найдена")
	ErrMatchNotFound = New(ErrCodeNotFound, "совпадение не найдено")
	ErrClaimNotFound = New(ErrCodeNotFound, "заявка не найдена")
	ErrUnauthorized  = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden     = New(ErrCodeForbidden, "недостаточно прав")

	ErrInsufficientDistractors = New(ErrCodeInsufficientDistractors, "пока недостаточно похожих вещей для проверки, уточните описание или попробуйте позже")
	ErrClaimNotPending         = New(ErrCodeClaimNotPending, "заявка уже проверена, создайте новую")
	ErrUnknownOption           = New(ErrCodeUnknownOption, "выбранный вариант не относится к заявке")
	ErrPendingClaimExists      = New(ErrCodeConflict, "у вас уже есть незавершённая заявка на эту вещь, сначала ответьте на неё")
	ErrMatchNotPending         = New(ErrCodeConflict, "совпадение уже подтверждено или отклонено")
)
