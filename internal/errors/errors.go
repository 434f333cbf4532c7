// Package errors defines the application error taxonomy: configuration,
// decode, translation and webhook registration failures. Each kind carries a
// stable code used in logs and metric labels.
package errors

import (
	"errors"
	"fmt"
)

// Standard error codes for the application.
const (
	CodeUnknown      = "UNKNOWN"
	CodeConfig       = "CONFIG"
	CodeDecode       = "DECODE"
	CodeTranslation  = "TRANSLATION"
	CodeRegistration = "REGISTRATION"
)

// ApplicationError is the interface that all our custom errors implement.
type ApplicationError interface {
	error
	Code() string
	Unwrap() error
}

// Error represents a basic application error.
type Error struct {
	code    string
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}

	return e.message
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the code of the first ApplicationError in err's chain,
// or CodeUnknown if it doesn't have one.
func Code(err error) string {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}

	return CodeUnknown
}

// Backend returns the backend named by the first TranslationError in err's
// chain, or "" if there is none.
func Backend(err error) string {
	var te *TranslationError
	if errors.As(err, &te) {
		return te.Backend
	}

	return ""
}

type ConfigError struct {
	base Error
}

func (e *ConfigError) Error() string { return e.base.Error() }
func (e *ConfigError) Code() string  { return e.base.Code() }
func (e *ConfigError) Unwrap() error { return e.base.Unwrap() }

// NewConfigError reports a configuration problem that prevents startup.
func NewConfigError(message string, cause error) error {
	return &ConfigError{
		base: Error{
			code:    CodeConfig,
			message: message,
			err:     cause,
		},
	}
}

type DecodeError struct {
	base Error
}

func (e *DecodeError) Error() string { return e.base.Error() }
func (e *DecodeError) Code() string  { return e.base.Code() }
func (e *DecodeError) Unwrap() error { return e.base.Unwrap() }

// NewDecodeError reports a malformed inbound webhook body.
func NewDecodeError(message string, cause error) error {
	return &DecodeError{
		base: Error{
			code:    CodeDecode,
			message: message,
			err:     cause,
		},
	}
}

// TranslationError is returned by translation backends. Backend holds the
// backend name so callers can label failures without parsing messages.
type TranslationError struct {
	Backend string
	base    Error
}

func (e *TranslationError) Error() string { return e.base.Error() }
func (e *TranslationError) Code() string  { return e.base.Code() }
func (e *TranslationError) Unwrap() error { return e.base.Unwrap() }

// NewTranslationError wraps a failure from the named backend.
func NewTranslationError(backend, message string, cause error) error {
	return &TranslationError{
		Backend: backend,
		base: Error{
			code:    CodeTranslation,
			message: backend + ": " + message,
			err:     cause,
		},
	}
}

type RegistrationError struct {
	base Error
}

func (e *RegistrationError) Error() string { return e.base.Error() }
func (e *RegistrationError) Code() string  { return e.base.Code() }
func (e *RegistrationError) Unwrap() error { return e.base.Unwrap() }

// NewRegistrationError reports a failure talking to Telegram about the webhook.
func NewRegistrationError(message string, cause error) error {
	return &RegistrationError{
		base: Error{
			code:    CodeRegistration,
			message: message,
			err:     cause,
		},
	}
}
