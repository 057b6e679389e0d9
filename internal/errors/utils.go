package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a ThemaError if the
// input is not already one.
func Wrap(err error, errType ErrorType, code, message string) *ThemaError {
	if err == nil {
		return nil
	}

	// If it's already a ThemaError, preserve its properties but update the message
	var te *ThemaError
	if errors.As(err, &te) {
		return &ThemaError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       te,
			Context:     te.Context,
			Component:   te.Component,
			Recoverable: te.Recoverable,
		}
	}

	return &ThemaError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeConflict,
	}
}

// WrapStorage wraps an error as a persistence failure with component context.
func WrapStorage(err error, code, message, component string) *ThemaError {
	themaErr := Wrap(err, ErrorTypeStorage, code, message)
	if themaErr != nil {
		themaErr.Component = component
		themaErr.Recoverable = false
	}
	return themaErr
}

// WrapValidation wraps an error as a validation error.
func WrapValidation(err error, code, message string) *ThemaError {
	return Wrap(err, ErrorTypeValidation, code, message)
}

// WrapConfig wraps an error as a configuration error.
func WrapConfig(err error, code, message string) *ThemaError {
	themaErr := Wrap(err, ErrorTypeConfig, code, message)
	if themaErr != nil {
		themaErr.Recoverable = false
	}
	return themaErr
}
