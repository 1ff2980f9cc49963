// FILE: lixenwraith/confmgr/errors.go
package confmgr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedScheme is returned when no provider is registered for a location scheme
	ErrUnsupportedScheme = errors.New("unsupported config location scheme")
	// ErrUnsupportedFormat is returned when no codec claims the location path suffix
	ErrUnsupportedFormat = errors.New("unsupported config location format")
	// ErrUnreadableLocation wraps failures opening or decoding a location
	ErrUnreadableLocation = errors.New("unreadable config location")
	// ErrUnwritableLocation wraps failures preparing, encoding or writing a location
	ErrUnwritableLocation = errors.New("unwritable config location")
	// ErrUnsupportedOperation is returned when a provider cannot perform the operation (bundle writes)
	ErrUnsupportedOperation = errors.New("operation not supported")
	// ErrLocationNotFound is reported by providers whose missing locations contribute nothing
	ErrLocationNotFound = errors.New("config location not found")
	// ErrInvalidLocation is returned when a location identifier cannot be parsed
	ErrInvalidLocation = errors.New("invalid config location")
	// ErrKeyConflict is returned when flat keys cannot be rebuilt into one document
	ErrKeyConflict = errors.New("conflicting config keys")
	// ErrListTooLong is returned when a list index or length helper exceeds what the entries can fill
	ErrListTooLong = errors.New("config list too long")
)

// UnsupportedSchemeError reports a location whose scheme matches no provider.
type UnsupportedSchemeError struct {
	Location Location
	Valid    []string
}

func (e *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("unknown config location scheme %q in %s, valid schemes are [%s]",
		e.Location.Scheme(), e.Location, strings.Join(e.Valid, ", "))
}

func (e *UnsupportedSchemeError) Unwrap() error {
	return ErrUnsupportedScheme
}

// UnsupportedFormatError reports a location whose path matches no codec suffix.
type UnsupportedFormatError struct {
	Location Location
	Path     string
	Valid    []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported config location format %q in %s, valid formats should end with [%s]",
		e.Path, e.Location, strings.Join(e.Valid, ", "))
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// LocationError records a failed read or write of a location.
// Kind is one of the package sentinels, Err the underlying cause.
type LocationError struct {
	Op       string
	Location Location
	Kind     error
	Err      error
}

func (e *LocationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Location, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Location, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *LocationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func unreadable(loc Location, err error) error {
	return &LocationError{Op: "read", Location: loc, Kind: ErrUnreadableLocation, Err: err}
}

func unwritable(loc Location, err error) error {
	return &LocationError{Op: "write", Location: loc, Kind: ErrUnwritableLocation, Err: err}
}

// InvalidDocumentError occurs when a source holds malformed content for its format.
type InvalidDocumentError struct {
	Format string
	Cause  error
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Format, e.Cause)
}

func (e *InvalidDocumentError) Unwrap() error {
	return e.Cause
}
