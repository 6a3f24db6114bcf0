package backup

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned by Deserialize for input that is not a
// structurally valid backup document.
var ErrMalformedPayload = errors.New("malformed backup payload")

// VersionError is returned by Deserialize when the "version" member is
// missing, is not a string, or names a version other than Version. Found is
// the member's raw JSON text, empty when the member is absent.
type VersionError struct {
	Found string
}

func (e *VersionError) Error() string {
	if e.Found == "" {
		return "backup payload has no version"
	}
	return "unsupported backup payload version " + e.Found
}

// FailureKind classifies why a backup operation failed.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureVersionIncompatible
	FailureValidation
	FailureNoValidRecords
	FailureDecryption
	FailureRead
	FailureMalformedPayload
	FailureApply
	FailureWrite
	FailureSerialize
	FailureEncryption
)

var failureKindNames = map[FailureKind]string{
	FailureUnknown:             "unknown",
	FailureVersionIncompatible: "version_incompatible",
	FailureValidation:          "validation_failed",
	FailureNoValidRecords:      "no_valid_records",
	FailureDecryption:          "decryption_failed",
	FailureRead:                "read_failed",
	FailureMalformedPayload:    "malformed_payload",
	FailureApply:               "apply_failed",
	FailureWrite:               "write_failed",
	FailureSerialize:           "serialize_failed",
	FailureEncryption:          "encryption_failed",
}

func (k FailureKind) String() string {
	if name, ok := failureKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FailureKind(%d)", int(k))
}

// Failure is the only error type returned by Writer, Restorer and Probe.
// Message is safe to show to the user; Err keeps the cause for logs.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return f.Message + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(kind FailureKind, msg string, err error) *Failure {
	return &Failure{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the FailureKind carried by err, or FailureUnknown.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureUnknown
}
