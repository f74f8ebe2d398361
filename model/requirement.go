package model

// CheckKind distinguishes the two ways a Check's logic is supplied.
// The executor dispatches once per kind, matching the tagged-variant
// design the engine uses instead of open-ended polymorphism.
type CheckKind int

const (
	// ShapeCheck is backed by a SHACL shape node.
	ShapeCheck CheckKind = iota
	// ProgrammaticCheck is backed by a predicate over a loaded crate.
	ProgrammaticCheck
)

// EngineInternalCheckID is the reserved check identifier used for
// issues synthesized by the engine itself (shape-engine failures,
// programmatic-check panics) rather than produced by a real check.
const EngineInternalCheckID = "__engine_internal__"

// Check is the atomic unit executed against a crate.
type Check struct {
	// ID is unique within the owning Requirement.
	ID string
	// Kind selects whether ShapeIRI or PredicateName applies.
	Kind CheckKind
	// ShapeIRI identifies the SHACL shape backing a ShapeCheck. Empty
	// for programmatic checks.
	ShapeIRI string
	// PredicateName names the built-in programmatic predicate backing
	// a ProgrammaticCheck. Empty for shape checks.
	PredicateName string
	// MessageTemplate, when set, replaces the default issue message.
	// Shape checks interpolate the failing focus node's @id; the
	// file_presence predicate interpolates the missing path; other
	// predicates use it verbatim.
	MessageTemplate string
	// Severity is this check's effective severity, after any
	// requirement- or check-level override has been applied.
	Severity Severity
	// RequirementID is the identifier of the owning Requirement.
	RequirementID string
	// Overrides lists identifiers of sibling/parent checks this check
	// replaces when a descendant profile redeclares the same
	// requirement identifier.
	Overrides []string
	// Constraint holds the SHACL Core constraint a ShapeCheck encodes.
	// nil for programmatic checks.
	Constraint *ShapeConstraint
}

// ShapeConstraint is the SHACL Core constraint subset a shape.Engine
// evaluates: one property path plus the restrictions declared on it.
type ShapeConstraint struct {
	// Path is the property IRI (or, in this engine's YAML shape
	// vocabulary, the bare JSON-LD property name) the constraint
	// applies to.
	Path string
	// MinCount / MaxCount bound the cardinality of Path's values. nil
	// means unbounded.
	MinCount *int
	MaxCount *int
	// Pattern, when non-empty, is a regular expression every string
	// value of Path must match.
	Pattern string
	// Class, when non-empty, requires every value of Path to be an
	// entity declaring this @type.
	Class string
	// Datatype, when non-empty, requires every literal value of Path
	// to be of this XSD datatype.
	Datatype string
	// NodeKind, when non-empty, restricts whether Path's values must
	// be IRIs ("IRI"), literals ("Literal"), or blank nodes
	// ("BlankNode").
	NodeKind string
}

// Requirement is a named unit of conformance within a profile.
type Requirement struct {
	// ID is stable across profile versions when the requirement's
	// intent is preserved.
	ID string
	// Name is a human-readable label.
	Name string
	// Description documents the requirement's intent.
	Description string
	// Severity is the requirement's declared severity, before any
	// profile-level override.
	Severity Severity
	// Checks are the one or more checks composing this requirement.
	Checks []Check
	// ProfileURI is the URI of the owning profile.
	ProfileURI string
	// Target names the @type a shape-backed requirement's checks apply
	// to (every entity declaring that type becomes a focus node).
	// Empty means the requirement targets only the crate's root data
	// entity. Unused by programmatic requirements.
	Target string
}

// EffectiveSeverity returns *override, or the requirement's own
// Severity if override is nil (no override configured).
func (r Requirement) EffectiveSeverity(override *Severity) Severity {
	if override != nil {
		return *override
	}
	return r.Severity
}
