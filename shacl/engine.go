// Package shacl implements the Check Executor's SHACL evaluation
// boundary. Per the purpose-and-scope note that "the SHACL evaluator
// itself is assumed to exist as a library dependency," the Executor
// depends only on the Engine interface here; LocalEngine and
// HTTPEngine are two concrete ways to satisfy it.
package shacl

import (
	"context"

	"github.com/rocrate-validator/rocval/graph"
	"github.com/rocrate-validator/rocval/model"
)

// Violation is one finding from a SHACL validation report, in the
// shape the Check Executor maps back to an Issue via the owning
// check's ShapeIRI.
type Violation struct {
	// SourceShapeIRI identifies the shape that produced this
	// violation. The Executor looks this up in a shape_iri ->
	// (requirement, check) table built from the profile being run;
	// an unrecognized IRI is classified as an internal error.
	SourceShapeIRI string
	FocusNode      string
	ResultPath     string
	Severity       model.Severity
	Message        string
}

// Report is the outcome of validating a data graph against a set of
// shapes.
type Report struct {
	Conforms   bool
	Violations []Violation
}

// Engine validates a crate's metadata graph against a set of
// shape-backed requirements.
type Engine interface {
	Validate(ctx context.Context, data *graph.Document, requirements []model.Requirement) (*Report, error)
}
