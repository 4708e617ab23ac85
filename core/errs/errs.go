// Package errs holds the typed errors surfaced by the core packages.
// Each type matches its sentinel with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrDataIntegrity    = errors.New("data integrity error")
	ErrConfiguration    = errors.New("configuration error")
	ErrInsufficientData = errors.New("insufficient data")
)

// DataIntegrityError reports input whose identity assumptions are violated,
// e.g. a protein ID that occurs more than once in the database.
type DataIntegrityError struct {
	ID     string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrDataIntegrity, e.ID, e.Reason)
}

func (e *DataIntegrityError) Is(target error) bool { return target == ErrDataIntegrity }

// ConfigurationError reports an unknown or out-of-range setting.
type ConfigurationError struct {
	Key     string
	Value   string
	Allowed []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("%v: invalid %s %q", ErrConfiguration, e.Key, e.Value)
	}
	return fmt.Sprintf("%v: unknown %s %q (want one of %v)", ErrConfiguration, e.Key, e.Value, e.Allowed)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InsufficientDataError reports that a statistic cannot be derived.
type InsufficientDataError struct {
	What string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInsufficientData, e.What)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }
