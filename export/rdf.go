// Package export serializes a loaded crate's metadata graph to RDF, for
// callers that want the resolved entity graph on disk rather than just
// a pass/fail result.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rocrate-validator/rocval/graph"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// ParseFormat parses a settings-file format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTurtle, FormatNTriples, FormatJSONLD:
		return Format(s), nil
	default:
		return "", fmt.Errorf("export: unsupported format %q", s)
	}
}

// GraphExporter serializes a graph.Document's entities to RDF.
type GraphExporter struct {
	baseIRI  string
	prefixes map[string]string
}

// NewGraphExporter constructs a GraphExporter. baseIRI resolves
// relative @id values (e.g. "./", "data/image.png") to absolute IRIs;
// callers typically pass the crate's own URI.
func NewGraphExporter(baseIRI string) *GraphExporter {
	if !strings.HasSuffix(baseIRI, "/") {
		baseIRI += "/"
	}
	return &GraphExporter{
		baseIRI:  baseIRI,
		prefixes: defaultPrefixes(),
	}
}

// defaultPrefixes returns the namespace prefixes RO-Crate metadata
// documents are built from.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":    "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":   "http://www.w3.org/2000/01/rdf-schema#",
		"xsd":    "http://www.w3.org/2001/XMLSchema#",
		"schema": "http://schema.org/",
		"dc":     "http://purl.org/dc/terms/",
	}
}

// Export serializes every entity in doc to the given format, in
// ascending @id order for deterministic output.
func (e *GraphExporter) Export(doc *graph.Document, format Format) (string, error) {
	ids := make([]string, 0, len(doc.ByID))
	for id := range doc.ByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	switch format {
	case FormatTurtle:
		return e.toTurtle(doc, ids), nil
	case FormatNTriples:
		return e.toNTriples(doc, ids), nil
	case FormatJSONLD:
		return e.toJSONLD(doc, ids), nil
	default:
		return "", fmt.Errorf("export: unsupported format %q", format)
	}
}

// WriteToFile exports doc and writes the result to path, creating
// parent directories as needed.
func WriteToFile(doc *graph.Document, baseIRI string, format Format, path string) error {
	exporter := NewGraphExporter(baseIRI)
	data, err := exporter.Export(doc, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("export: write output file: %w", err)
	}
	return nil
}

func (e *GraphExporter) toTurtle(doc *graph.Document, ids []string) string {
	var sb strings.Builder

	prefixKeys := sortedKeys(e.prefixes)
	for _, prefix := range prefixKeys {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, e.prefixes[prefix]))
	}
	sb.WriteString("\n")

	for _, id := range ids {
		e.writeEntityTurtle(&sb, doc.ByID[id])
		sb.WriteString("\n")
	}

	return sb.String()
}

func (e *GraphExporter) writeEntityTurtle(sb *strings.Builder, entity *graph.Entity) {
	iri := e.entityIDToIRI(entity.ID)
	sb.WriteString(fmt.Sprintf("<%s>\n", iri))

	propKeys := sortedKeys(entity.Properties)
	total := len(entity.Types) + len(propKeys)
	written := 0

	for _, typeIRI := range entity.Types {
		written++
		sb.WriteString(fmt.Sprintf("    a %s", e.termIRI(typeIRI)))
		sb.WriteString(terminator(written, total))
	}
	for _, key := range propKeys {
		written++
		sb.WriteString(fmt.Sprintf("    %s %s", e.termIRI(key), e.formatObject(entity.Properties[key])))
		sb.WriteString(terminator(written, total))
	}
}

func (e *GraphExporter) toNTriples(doc *graph.Document, ids []string) string {
	var sb strings.Builder
	const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	for _, id := range ids {
		entity := doc.ByID[id]
		iri := e.entityIDToIRI(entity.ID)

		for _, typeIRI := range entity.Types {
			sb.WriteString(fmt.Sprintf("<%s> <%s> <%s> .\n", iri, rdfType, e.expand(typeIRI)))
		}
		for _, key := range sortedKeys(entity.Properties) {
			sb.WriteString(fmt.Sprintf("<%s> <%s> %s .\n", iri, e.expand(key), e.formatObjectNTriples(entity.Properties[key])))
		}
	}

	return sb.String()
}

func (e *GraphExporter) toJSONLD(doc *graph.Document, ids []string) string {
	var sb strings.Builder

	sb.WriteString("{\n  \"@context\": {\n")
	prefixKeys := sortedKeys(e.prefixes)
	for i, prefix := range prefixKeys {
		sb.WriteString(fmt.Sprintf("    \"%s\": \"%s\"", prefix, e.prefixes[prefix]))
		if i < len(prefixKeys)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  },\n  \"@graph\": [\n")

	for i, id := range ids {
		e.writeEntityJSONLD(&sb, doc.ByID[id])
		if i < len(ids)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("  ]\n}\n")
	return sb.String()
}

func (e *GraphExporter) writeEntityJSONLD(sb *strings.Builder, entity *graph.Entity) {
	iri := e.entityIDToIRI(entity.ID)

	sb.WriteString("    {\n")
	sb.WriteString(fmt.Sprintf("      \"@id\": \"%s\"", iri))

	if len(entity.Types) > 0 {
		sb.WriteString(",\n      \"@type\": [")
		for i, t := range entity.Types {
			sb.WriteString(fmt.Sprintf("\"%s\"", e.expand(t)))
			if i < len(entity.Types)-1 {
				sb.WriteString(", ")
			}
		}
		sb.WriteString("]")
	}

	for _, key := range sortedKeys(entity.Properties) {
		sb.WriteString(",\n")
		sb.WriteString(fmt.Sprintf("      \"%s\": %s", e.expand(key), e.formatObjectJSONLD(entity.Properties[key])))
	}

	sb.WriteString("\n    }")
}

// entityIDToIRI resolves a possibly-relative @id against baseIRI.
// Absolute IRIs (already carrying a scheme) pass through unchanged.
func (e *GraphExporter) entityIDToIRI(id string) string {
	if strings.Contains(id, "://") {
		return id
	}
	return e.baseIRI + strings.TrimPrefix(id, "./")
}

// termIRI resolves a property or type name that is already an IRI, or
// otherwise expands it against the schema.org vocabulary RO-Crate
// terms default to.
func (e *GraphExporter) termIRI(term string) string {
	return fmt.Sprintf("<%s>", e.expand(term))
}

func (e *GraphExporter) expand(term string) string {
	if strings.Contains(term, "://") {
		return term
	}
	return e.prefixes["schema"] + term
}

func terminator(written, total int) string {
	if written == total {
		return " .\n"
	}
	return " ;\n"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatObject formats a JSON-LD property value for Turtle output.
// RO-Crate properties are either bare scalars, nested {"@id": "..."}
// reference objects (kept as maps by graph.Entity and rendered as IRIs
// by formatScalar), or slices of either.
func (e *GraphExporter) formatObject(v any) string {
	switch t := v.(type) {
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, e.formatScalar(item))
		}
		return strings.Join(parts, ", ")
	default:
		return e.formatScalar(v)
	}
}

func (e *GraphExporter) formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		if ref, ok := asReference(v); ok {
			return fmt.Sprintf("<%s>", e.entityIDToIRI(ref))
		}
		if _, err := time.Parse(time.RFC3339, t); err == nil {
			return fmt.Sprintf("\"%s\"^^xsd:dateTime", t)
		}
		return fmt.Sprintf("\"%s\"", escapeString(t))
	case map[string]any:
		if id, ok := t["@id"].(string); ok {
			return fmt.Sprintf("<%s>", e.entityIDToIRI(id))
		}
		return fmt.Sprintf("\"%v\"", t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("\"%d\"^^xsd:integer", int64(t))
		}
		return fmt.Sprintf("\"%f\"^^xsd:decimal", t)
	case bool:
		return fmt.Sprintf("\"%t\"^^xsd:boolean", t)
	default:
		return fmt.Sprintf("\"%v\"", t)
	}
}

func (e *GraphExporter) formatObjectNTriples(v any) string {
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return "\"\""
		}
		return e.formatScalarNTriples(t[0])
	default:
		return e.formatScalarNTriples(v)
	}
}

func (e *GraphExporter) formatScalarNTriples(v any) string {
	switch t := v.(type) {
	case string:
		if ref, ok := asReference(v); ok {
			return fmt.Sprintf("<%s>", e.entityIDToIRI(ref))
		}
		return fmt.Sprintf("\"%s\"", escapeString(t))
	case map[string]any:
		if id, ok := t["@id"].(string); ok {
			return fmt.Sprintf("<%s>", e.entityIDToIRI(id))
		}
		return fmt.Sprintf("\"%v\"", t)
	default:
		return fmt.Sprintf("\"%v\"", t)
	}
}

func (e *GraphExporter) formatObjectJSONLD(v any) string {
	switch t := v.(type) {
	case map[string]any:
		if id, ok := t["@id"].(string); ok {
			return fmt.Sprintf("{\"@id\": \"%s\"}", e.entityIDToIRI(id))
		}
		return "{}"
	case string:
		if ref, ok := asReference(v); ok {
			return fmt.Sprintf("{\"@id\": \"%s\"}", e.entityIDToIRI(ref))
		}
		return fmt.Sprintf("\"%s\"", escapeString(t))
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, e.formatObjectJSONLD(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("\"%v\"", t)
	}
}

// asReference reports whether a bare string value (as opposed to a
// {"@id": ...} map, handled separately in each formatScalar variant)
// looks like an entity reference rather than a literal: only an
// absolute IRI counts, since a literal string value has no reliable
// way to be told apart from a relative reference otherwise.
func asReference(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	if strings.Contains(s, "://") {
		return s, true
	}
	return "", false
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
