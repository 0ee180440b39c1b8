package errors

import (
	"errors"
	"fmt"
)

const (
	CodeDatabase            = "DATABASE_ERROR"
	CodeShortCodeGeneration = "SHORT_CODE_GENERATION"
)

// ValidationError reports client input that cannot be processed. Maps to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// BusinessError is a server-side failure carrying a stable code. Maps to 500.
type BusinessError struct {
	Code    string
	Message string
	Cause   error
}

func (e *BusinessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Cause
}

func NewBusinessError(code, message string, cause error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewStoreError wraps a persistence failure.
func NewStoreError(message string, cause error) *BusinessError {
	return NewBusinessError(CodeDatabase, message, cause)
}

// NewGenerationError wraps a failure of the randomness source.
func NewGenerationError(cause error) *BusinessError {
	return NewBusinessError(CodeShortCodeGeneration, "failed to generate short code", cause)
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

func GetValidationError(err error) *ValidationError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}

func GetBusinessError(err error) *BusinessError {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr
	}
	return nil
}

// HasCode reports whether err wraps a BusinessError with the given code.
func HasCode(err error, code string) bool {
	businessErr := GetBusinessError(err)
	return businessErr != nil && businessErr.Code == code
}
