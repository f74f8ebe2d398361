package shacl

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rocrate-validator/rocval/graph"
	"github.com/rocrate-validator/rocval/model"
)

// LocalEngine evaluates the SHACL Core subset this engine's YAML shape
// vocabulary expresses (minCount, maxCount, pattern, class, datatype,
// nodeKind) directly over a graph.Document, with no external process
// and no network. class is checked only against nodes present in the
// same document; an external reference has nothing local to check
// against and is skipped. datatype and nodeKind cover the small set
// of XSD types and SHACL node kinds (IRI, Literal) the built-in
// profiles use, not the full SHACL/XSD vocabularies. It is the
// default engine, sufficient for the built-in ro-crate and
// workflow-ro-crate profiles; profiles needing full SHACL/SPARQL
// constraint coverage (property paths, SPARQL-based constraints,
// closed shapes) should instead use HTTPEngine.
type LocalEngine struct{}

// NewLocalEngine constructs a LocalEngine.
func NewLocalEngine() *LocalEngine {
	return &LocalEngine{}
}

func (e *LocalEngine) Validate(_ context.Context, data *graph.Document, requirements []model.Requirement) (*Report, error) {
	report := &Report{Conforms: true}

	for _, req := range requirements {
		focusNodes := e.targets(data, req)
		for _, focus := range focusNodes {
			for _, chk := range req.Checks {
				if chk.Kind != model.ShapeCheck || chk.Constraint == nil {
					continue
				}
				v, err := evaluateConstraint(data, focus, chk)
				if err != nil {
					return nil, fmt.Errorf("shacl: evaluating shape %s: %w", chk.ShapeIRI, err)
				}
				if v != nil {
					report.Conforms = false
					report.Violations = append(report.Violations, *v)
				}
			}
		}
	}

	sort.Slice(report.Violations, func(i, j int) bool {
		a, b := report.Violations[i], report.Violations[j]
		if a.SourceShapeIRI != b.SourceShapeIRI {
			return a.SourceShapeIRI < b.SourceShapeIRI
		}
		return a.FocusNode < b.FocusNode
	})
	return report, nil
}

// targets resolves a requirement's focus nodes: every entity declaring
// req.Target as a @type, or just the root data entity when Target is
// unset.
func (e *LocalEngine) targets(data *graph.Document, req model.Requirement) []*graph.Entity {
	if req.Target == "" {
		if root := data.RootEntity(); root != nil {
			return []*graph.Entity{root}
		}
		return nil
	}
	entities := data.EntitiesByType(req.Target)
	sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })
	return entities
}

func evaluateConstraint(data *graph.Document, focus *graph.Entity, chk model.Check) (*Violation, error) {
	c := chk.Constraint
	values := focus.StringValues(c.Path)

	if c.MinCount != nil && len(values) < *c.MinCount {
		return violation(focus, chk, fmt.Sprintf("expected at least %d value(s) for %q, found %d", *c.MinCount, c.Path, len(values)))
	}
	if c.MaxCount != nil && len(values) > *c.MaxCount {
		return violation(focus, chk, fmt.Sprintf("expected at most %d value(s) for %q, found %d", *c.MaxCount, c.Path, len(values)))
	}
	if c.Pattern != "" {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", c.Pattern, err)
		}
		for _, v := range values {
			if !re.MatchString(v) {
				return violation(focus, chk, fmt.Sprintf("value %q of %q does not match pattern %q", v, c.Path, c.Pattern))
			}
		}
	}
	if c.Class != "" {
		for _, id := range values {
			target, ok := data.ByID[id]
			if !ok {
				// The reference doesn't resolve to a node in this
				// document (an external IRI, most likely); nothing
				// local to check its type against.
				continue
			}
			if !target.HasType(c.Class) {
				return violation(focus, chk, fmt.Sprintf("value %q of %q is not typed %q", id, c.Path, c.Class))
			}
		}
	}
	if c.Datatype != "" {
		for _, v := range focus.RawValues(c.Path) {
			if !matchesDatatype(v, c.Datatype) {
				return violation(focus, chk, fmt.Sprintf("value %v of %q does not match datatype %q", v, c.Path, c.Datatype))
			}
		}
	}
	if c.NodeKind != "" {
		for _, v := range focus.RawValues(c.Path) {
			if !matchesNodeKind(v, c.NodeKind) {
				return violation(focus, chk, fmt.Sprintf("value %v of %q does not match nodeKind %q", v, c.Path, c.NodeKind))
			}
		}
	}
	return nil, nil
}

// matchesDatatype reports whether v's decoded JSON type is consistent
// with an XSD datatype name, accepting either the bare local name
// ("dateTime") or a prefixed/full IRI form ("xsd:dateTime",
// ".../XMLSchema#dateTime"). An unrecognized datatype name matches
// everything, since LocalEngine only knows the common XSD types the
// built-in profiles use.
func matchesDatatype(v any, datatype string) bool {
	switch localName(datatype) {
	case "string":
		_, ok := v.(string)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "integer", "int", "long", "nonNegativeInteger":
		f, ok := v.(float64)
		return ok && f == float64(int64(f))
	case "decimal", "double", "float":
		_, ok := v.(float64)
		return ok
	case "date", "dateTime":
		s, ok := v.(string)
		if !ok {
			return false
		}
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	case "anyURI":
		s, ok := v.(string)
		return ok && strings.Contains(s, "://")
	default:
		return true
	}
}

// matchesNodeKind reports whether v is a reference (SHACL "IRI") or a
// plain literal (SHACL "Literal"), the two nodeKinds the built-in
// profiles' shape vocabulary actually needs; any other nodeKind name
// matches everything.
func matchesNodeKind(v any, nodeKind string) bool {
	switch localName(nodeKind) {
	case "IRI":
		return isReferenceValue(v)
	case "Literal":
		return !isReferenceValue(v)
	default:
		return true
	}
}

func isReferenceValue(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		_, ok := t["@id"]
		return ok
	case string:
		return strings.Contains(t, "://")
	default:
		return false
	}
}

// localName strips a namespace prefix or IRI fragment, so "xsd:dateTime"
// and "http://www.w3.org/2001/XMLSchema#dateTime" both resolve to
// "dateTime".
func localName(term string) string {
	if idx := strings.LastIndexAny(term, "#/:"); idx >= 0 {
		return term[idx+1:]
	}
	return term
}

func violation(focus *graph.Entity, chk model.Check, message string) (*Violation, error) {
	if chk.MessageTemplate != "" {
		message = fmt.Sprintf(chk.MessageTemplate, focus.ID)
	}
	return &Violation{
		SourceShapeIRI: chk.ShapeIRI,
		FocusNode:      focus.ID,
		ResultPath:     chk.Constraint.Path,
		Severity:       chk.Severity,
		Message:        message,
	}, nil
}
