package acoustic

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against the structured errors below.
var (
	ErrConfiguration = errors.New("acoustic: invalid configuration")
	ErrNumericDomain = errors.New("acoustic: outside numeric domain")
)

// ConfigurationError reports a physically impossible definition detected at
// construction time. Definitions are never auto-corrected.
type ConfigurationError struct {
	Component string  // e.g. "driver", "segment 1", "throat chamber"
	Field     string  // offending field
	Value     float64 // offending value
	Reason    string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("acoustic: invalid %s: %s", e.Component, e.Reason)
	}

	return fmt.Sprintf("acoustic: invalid %s %s = %g: %s", e.Component, e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is(err, ErrConfiguration) succeed.
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NumericDomainError reports that an intermediate quantity would have to be
// evaluated outside its valid domain, for example a non-positive
// characteristic impedance or a flare-length product large enough to
// overflow the complex exponentials.
type NumericDomainError struct {
	Frequency float64 // Hz, 0 when not frequency-specific
	Segment   int     // horn segment index, -1 when not segment-specific
	Quantity  string
	Value     float64
	Reason    string
}

func (e *NumericDomainError) Error() string {
	where := fmt.Sprintf("at %g Hz", e.Frequency)
	if e.Segment >= 0 {
		where += fmt.Sprintf(" in segment %d", e.Segment)
	}

	return fmt.Sprintf("acoustic: %s = %g %s: %s", e.Quantity, e.Value, where, e.Reason)
}

// Unwrap lets errors.Is(err, ErrNumericDomain) succeed.
func (e *NumericDomainError) Unwrap() error { return ErrNumericDomain }
