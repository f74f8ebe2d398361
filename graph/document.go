// Package graph provides a lightweight JSON-LD entity index over an
// RO-Crate metadata document: enough to resolve entities by @id, walk
// @type, and follow nested-reference properties, without pulling in a
// general-purpose RDF/JSON-LD library (none exists in the retrieved
// dependency corpus for this engine's ecosystem — see DESIGN.md).
package graph

import (
	"encoding/json"
	"fmt"
)

// Entity is one node of the JSON-LD @graph array, keyed by @id.
type Entity struct {
	ID         string
	Types      []string
	Properties map[string]any
}

// HasType reports whether the entity declares typ among its @type
// values.
func (e *Entity) HasType(typ string) bool {
	for _, t := range e.Types {
		if t == typ {
			return true
		}
	}
	return false
}

// StringValues returns property as a slice of strings, resolving
// nested {"@id": "..."} reference objects to their id and coercing a
// bare scalar into a one-element slice. Missing properties yield nil.
func (e *Entity) StringValues(property string) []string {
	raw, ok := e.Properties[property]
	if !ok {
		return nil
	}
	items, isSlice := raw.([]any)
	if !isSlice {
		items = []any{raw}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			if id, ok := v["@id"].(string); ok {
				out = append(out, id)
			}
		}
	}
	return out
}

// StringValue returns the first value of StringValues, or "".
func (e *Entity) StringValue(property string) string {
	values := e.StringValues(property)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// RawValues returns property as a slice of its decoded JSON values
// (string, float64, bool, or a {"@id": ...} map), coercing a bare
// scalar into a one-element slice the same way StringValues does.
// Unlike StringValues, reference objects are not resolved to their id
// string, so callers that need to distinguish a literal from a
// reference (datatype and nodeKind constraints) see the original
// shape.
func (e *Entity) RawValues(property string) []any {
	raw, ok := e.Properties[property]
	if !ok {
		return nil
	}
	if items, isSlice := raw.([]any); isSlice {
		return items
	}
	return []any{raw}
}

// Document is the parsed form of a ro-crate-metadata.json document: an
// index of every entity in its @graph array, plus the resolved root
// data entity.
type Document struct {
	// ByID indexes every entity in the graph by its @id.
	ByID map[string]*Entity
	// RootID is the @id of the root data entity, resolved from the
	// metadata descriptor entity's "about" property (default "./").
	RootID string
}

type rawGraph struct {
	Graph []map[string]any `json:"@graph"`
}

// ParseDocument parses a ro-crate-metadata.json document's raw bytes
// into a Document.
func ParseDocument(data []byte) (*Document, error) {
	var raw rawGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("graph: malformed JSON-LD: %w", err)
	}
	if raw.Graph == nil {
		return nil, fmt.Errorf("graph: metadata document has no @graph array")
	}

	doc := &Document{ByID: make(map[string]*Entity, len(raw.Graph))}
	for _, node := range raw.Graph {
		entity := entityFromNode(node)
		if entity.ID == "" {
			continue
		}
		doc.ByID[entity.ID] = entity
	}

	doc.RootID = "./"
	if descriptor, ok := doc.ByID["ro-crate-metadata.json"]; ok {
		if about := descriptor.StringValue("about"); about != "" {
			doc.RootID = about
		}
	}
	return doc, nil
}

func entityFromNode(node map[string]any) *Entity {
	entity := &Entity{Properties: make(map[string]any, len(node))}
	for k, v := range node {
		switch k {
		case "@id":
			if id, ok := v.(string); ok {
				entity.ID = id
			}
		case "@type":
			entity.Types = coerceStrings(v)
		default:
			entity.Properties[k] = v
		}
	}
	return entity
}

func coerceStrings(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// RootEntity returns the root data entity, or nil if the document has
// no entity at RootID.
func (d *Document) RootEntity() *Entity {
	return d.ByID[d.RootID]
}

// EntitiesByType returns every entity declaring typ among its @type
// values, in indeterminate map order — callers needing a stable order
// must sort by ID themselves.
func (d *Document) EntitiesByType(typ string) []*Entity {
	var out []*Entity
	for _, e := range d.ByID {
		if e.HasType(typ) {
			out = append(out, e)
		}
	}
	return out
}
