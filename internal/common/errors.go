// Package common defines shared sentinel errors and small byte helpers used
// across SubControl layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Domain validation errors.
	ErrorValidation = errors.New("validation error")
)
