// Package model defines the value types shared across the validation
// engine: severities, requirements, checks, issues, results, and the
// lifecycle event stream.
package model

import "fmt"

// Severity orders how strictly a requirement binds a crate.
//
// Severities are totally ordered: OPTIONAL < RECOMMENDED < REQUIRED.
// A requirement-severity threshold configured at validation time
// selects which checks run: a check runs iff its effective severity is
// greater than or equal to the threshold.
type Severity int

const (
	// Optional marks a requirement a crate may freely ignore.
	Optional Severity = iota
	// Recommended marks a requirement a crate should satisfy.
	Recommended
	// Required marks a requirement a crate must satisfy.
	Required
)

// String renders the severity the way profile descriptors and issue
// messages spell it.
func (s Severity) String() string {
	switch s {
	case Optional:
		return "OPTIONAL"
	case Recommended:
		return "RECOMMENDED"
	case Required:
		return "REQUIRED"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ParseSeverity parses a severity name, accepting both the canonical
// names and the RFC2119 keywords profiles and settings may use.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "OPTIONAL", "MAY":
		return Optional, nil
	case "RECOMMENDED", "SHOULD", "SHOULD_NOT":
		return Recommended, nil
	case "REQUIRED", "MUST", "MUST_NOT", "SHALL", "SHALL_NOT":
		return Required, nil
	default:
		return 0, fmt.Errorf("model: unknown severity %q", s)
	}
}

// MarshalYAML implements yaml.Marshaler so severities round-trip in
// profile descriptors and settings files as their canonical name.
func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Severity) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
