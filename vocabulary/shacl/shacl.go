// Package shacl declares SHACL namespace terms. The YAML shape loader
// and the HTTPEngine report mapper use bare field names; no other
// package imports these constants.
package shacl

// Namespace is the SHACL Core namespace.
const Namespace = "http://www.w3.org/ns/shacl#"

// Severity node terms, in SHACL's own vocabulary. These map onto
// model.Severity: Violation -> Required, Warning -> Recommended,
// Info -> Optional.
const (
	Violation = Namespace + "Violation"
	Warning   = Namespace + "Warning"
	Info      = Namespace + "Info"
)

// Report and shape term IRIs.
const (
	SourceShape    = Namespace + "sourceShape"
	ResultSeverity = Namespace + "resultSeverity"
	ResultMessage  = Namespace + "resultMessage"
	FocusNode      = Namespace + "focusNode"
	ResultPath     = Namespace + "resultPath"
	Value          = Namespace + "value"
	Conforms       = Namespace + "conforms"

	NodeShape     = Namespace + "NodeShape"
	PropertyShape = Namespace + "PropertyShape"
	Path          = Namespace + "path"
	MinCount      = Namespace + "minCount"
	MaxCount      = Namespace + "maxCount"
	Pattern       = Namespace + "pattern"
	Class         = Namespace + "class"
	Datatype      = Namespace + "datatype"
	NodeKind      = Namespace + "nodeKind"
)
