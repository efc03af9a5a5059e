package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing anchor.
	ErrNotFound = errors.New("anchor not found")
	// ErrObjectNotFound signals a missing AR object.
	ErrObjectNotFound = errors.New("ar object not found")
	// ErrFingerprintNotFound signals that an object has no stored fingerprint.
	ErrFingerprintNotFound = errors.New("fingerprint not found")
	// ErrVectorNotFound signals a missing approach vector.
	ErrVectorNotFound = errors.New("approach vector not found")
	// ErrMagneticNotFound signals a missing magnetic fingerprint.
	ErrMagneticNotFound = errors.New("magnetic fingerprint not found")

	// ErrInvalidInput signals a request that is missing required fields or carries bad values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCorruptRecord signals a stored record that can no longer be decoded.
	ErrCorruptRecord = errors.New("corrupt record")
)

// InvalidField builds an ErrInvalidInput naming the offending field.
func InvalidField(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}
