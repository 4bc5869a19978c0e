package shipping

import (
	"errors"
	"fmt"
)

// Sentinel errors for shipping computations.
var (
	// ErrMissingInput means the computation cannot run yet. Callers show a
	// pending state instead of a cost.
	ErrMissingInput = errors.New("insufficient input")

	// ErrAddressRequired indicates neither coordinates nor a matching city are known.
	ErrAddressRequired = fmt.Errorf("%w: address required", ErrMissingInput)

	// ErrNoRateTable indicates no shipping rates are configured.
	ErrNoRateTable = fmt.Errorf("%w: no rate table", ErrMissingInput)

	// ErrNoBoxCatalog indicates no packaging boxes are configured.
	ErrNoBoxCatalog = fmt.Errorf("%w: no packaging boxes", ErrMissingInput)

	// ErrEmptyOrder indicates the order has no items.
	ErrEmptyOrder = fmt.Errorf("%w: order has no items", ErrMissingInput)

	// ErrConfigurationGap indicates the rate configuration cannot price the order.
	ErrConfigurationGap = errors.New("shipping configuration gap")

	// ErrInvalidLine indicates a cart line violates its invariants.
	ErrInvalidLine = errors.New("invalid cart line")

	// ErrMalformedCatalogData is reported by the strict validator only.
	ErrMalformedCatalogData = errors.New("malformed catalog data")

	// ErrProfileNotFound indicates the requested service profile is not registered.
	ErrProfileNotFound = errors.New("profile not found")
)

// Configuration error codes.
const (
	CodeNoZone        = "NO_ZONE"
	CodeNoOverageRule = "NO_OVERAGE_RULE"
	CodeEmptyZone     = "EMPTY_ZONE"
	CodeOverlap       = "OVERLAPPING_BOUNDS"
	CodeInvalidBound  = "INVALID_BOUND"
	CodeInvalidCost   = "INVALID_COST"
)

// ConfigError is a configuration gap that prevents pricing an order.
type ConfigError struct {
	Code    string
	Zone    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	prefix := "shipping config"
	if e.Zone != "" {
		prefix = fmt.Sprintf("shipping config zone %q", e.Zone)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", prefix, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", prefix, e.Code, e.Message)
}

// Unwrap returns the underlying cause, or ErrConfigurationGap.
func (e *ConfigError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrConfigurationGap
}

// Is matches another ConfigError by code.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewConfigError creates a new ConfigError.
func NewConfigError(code, message string) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
	}
}

// WithZone sets the zone the error refers to.
func (e *ConfigError) WithZone(zone string) *ConfigError {
	e.Zone = zone
	return e
}

// WithCause adds a cause to the error. The cause should wrap
// ErrConfigurationGap to keep errors.Is working on the sentinel.
func (e *ConfigError) WithCause(err error) *ConfigError {
	e.Cause = err
	return e
}

// ProfileError ties a quoting failure to the profile that produced it.
type ProfileError struct {
	Profile string
	Err     error
}

// Error implements the error interface.
func (e *ProfileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Profile, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProfileError) Unwrap() error {
	return e.Err
}

// ProfileOf returns the profile named by a ProfileError in err's chain.
func ProfileOf(err error) string {
	var perr *ProfileError
	if errors.As(err, &perr) {
		return perr.Profile
	}
	return ""
}

// IsMissingInput reports whether err means the inputs are incomplete.
func IsMissingInput(err error) bool {
	return errors.Is(err, ErrMissingInput)
}

// IsConfigurationGap reports whether err is a rate configuration gap.
func IsConfigurationGap(err error) bool {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return true
	}
	return errors.Is(err, ErrConfigurationGap)
}
