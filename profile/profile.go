// Package profile implements the Profile Registry, Inheritance
// Resolver, and Profile Selector: discovering profiles on disk,
// resolving their parent chains, and choosing which profile(s) a
// crate's conformsTo declarations select.
package profile

import "github.com/rocrate-validator/rocval/model"

// Profile is a named, versioned collection of requirements.
type Profile struct {
	// URI uniquely identifies the profile across the registry.
	URI string
	// Token is the stable identifier token, e.g. "workflow-ro-crate".
	Token string
	// Version is the optional version suffix, e.g. "1.0". Empty for an
	// unversioned profile.
	Version string
	// Name is the profile's display name.
	Name string
	// Description is a human-readable description.
	Description string
	// Requirements is this profile's own (non-inherited) requirement
	// list, in descriptor order.
	Requirements []model.Requirement
	// ParentURIs lists the profile's declared parent URIs (isProfileOf
	// followed by isTransitiveProfileOf),
	// resolved through the Registry on demand rather than held as a
	// direct handle — this keeps cycles detectable at resolution time.
	ParentURIs []string
	// SeverityOverrides maps a requirement identifier to the severity
	// this profile asserts for it, overriding the requirement's own
	// declared severity (and any inherited requirement of the same
	// identifier).
	SeverityOverrides map[string]model.Severity
}

// Ordinal returns the version's numeric ordinal for downgrade-match
// comparison. Unversioned profiles sort last (treated as "+∞", i.e.
// latest).
func (p Profile) Ordinal() versionOrdinal {
	return parseVersion(p.Version)
}
