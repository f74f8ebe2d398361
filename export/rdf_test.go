package export_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocrate-validator/rocval/export"
	"github.com/rocrate-validator/rocval/graph"
)

const sampleMetadata = `{
  "@context": "https://w3id.org/ro/crate/1.1/context",
  "@graph": [
    {
      "@id": "ro-crate-metadata.json",
      "@type": "CreativeWork",
      "about": {"@id": "./"}
    },
    {
      "@id": "./",
      "@type": "Dataset",
      "name": "Auth Token Refresh",
      "hasPart": [{"@id": "workflow/main.cwl"}],
      "datePublished": "2025-01-28T10:30:00Z"
    },
    {
      "@id": "workflow/main.cwl",
      "@type": "File",
      "name": "main.cwl"
    }
  ]
}`

func loadSampleDocument(t *testing.T) *graph.Document {
	t.Helper()
	doc, err := graph.ParseDocument([]byte(sampleMetadata))
	require.NoError(t, err)
	return doc
}

func TestExportTurtle(t *testing.T) {
	doc := loadSampleDocument(t)
	exporter := export.NewGraphExporter("https://example.org/crate/")

	output, err := exporter.Export(doc, export.FormatTurtle)
	require.NoError(t, err)

	require.Contains(t, output, "@prefix")
	require.Contains(t, output, "https://example.org/crate/")
	require.Contains(t, output, "Auth Token Refresh")
	require.Contains(t, output, "a <http://schema.org/Dataset>")
}

func TestExportNTriples(t *testing.T) {
	doc := loadSampleDocument(t)
	exporter := export.NewGraphExporter("https://example.org/crate/")

	output, err := exporter.Export(doc, export.FormatNTriples)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		require.True(t, strings.HasSuffix(line, " ."), "line should end with ' .': %s", line)
	}
}

func TestExportJSONLD(t *testing.T) {
	doc := loadSampleDocument(t)
	exporter := export.NewGraphExporter("https://example.org/crate/")

	output, err := exporter.Export(doc, export.FormatJSONLD)
	require.NoError(t, err)

	require.Contains(t, output, "@context")
	require.Contains(t, output, "@graph")
	require.Contains(t, output, "@id")
	require.Contains(t, output, "@type")
}

func TestExportResolvesRelativeReferences(t *testing.T) {
	doc := loadSampleDocument(t)
	exporter := export.NewGraphExporter("https://example.org/crate/")

	output, err := exporter.Export(doc, export.FormatTurtle)
	require.NoError(t, err)

	require.Contains(t, output, "<https://example.org/crate/workflow/main.cwl>")
}

func TestExportObjectTypes(t *testing.T) {
	doc := loadSampleDocument(t)
	exporter := export.NewGraphExporter("https://example.org/crate/")

	output, err := exporter.Export(doc, export.FormatTurtle)
	require.NoError(t, err)

	require.Contains(t, output, "xsd:dateTime")
}

func TestUnsupportedFormat(t *testing.T) {
	doc := loadSampleDocument(t)
	exporter := export.NewGraphExporter("https://example.org/crate/")

	_, err := exporter.Export(doc, export.Format("unknown"))
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("jsonld")
	require.NoError(t, err)
	require.Equal(t, export.FormatJSONLD, f)

	_, err = export.ParseFormat("bogus")
	require.Error(t, err)
}

func TestWriteToFile(t *testing.T) {
	doc := loadSampleDocument(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.ttl")

	err := export.WriteToFile(doc, "https://example.org/crate/", export.FormatTurtle, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "@prefix")
}
