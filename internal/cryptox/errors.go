package cryptox

import "errors"

var (
	ErrAuthenticationFailure = errors.New("authentication failed: data is corrupted or was sealed with a different key")
	ErrKeyUnavailable        = errors.New("encryption key unavailable")
)
