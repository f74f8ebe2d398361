package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleMetadata = `{
  "@context": "https://w3id.org/ro/crate/1.1/context",
  "@graph": [
    {
      "@id": "ro-crate-metadata.json",
      "@type": "CreativeWork",
      "conformsTo": {"@id": "https://w3id.org/ro/crate/1.1"},
      "about": {"@id": "./"}
    },
    {
      "@id": "./",
      "@type": "Dataset",
      "conformsTo": [{"@id": "https://w3id.org/workflowhub/workflow-ro-crate/1.0"}],
      "hasPart": [{"@id": "sort-and-change-case.ga"}],
      "mainEntity": {"@id": "sort-and-change-case.ga"}
    },
    {
      "@id": "sort-and-change-case.ga",
      "@type": "File",
      "name": "sort-and-change-case.ga"
    }
  ]
}`

func TestParseDocumentResolvesRoot(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleMetadata))
	require.NoError(t, err)
	require.Equal(t, "./", doc.RootID)

	root := doc.RootEntity()
	require.NotNil(t, root)
	require.True(t, root.HasType("Dataset"))
	require.Equal(t, "sort-and-change-case.ga", root.StringValue("mainEntity"))
	require.Equal(t, []string{"https://w3id.org/workflowhub/workflow-ro-crate/1.0"}, root.StringValues("conformsTo"))
}

func TestParseDocumentMalformed(t *testing.T) {
	_, err := ParseDocument([]byte("not json"))
	require.Error(t, err)
}

func TestParseDocumentMissingGraph(t *testing.T) {
	_, err := ParseDocument([]byte(`{"@context": {}}`))
	require.Error(t, err)
}

func TestEntitiesByType(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleMetadata))
	require.NoError(t, err)
	files := doc.EntitiesByType("File")
	require.Len(t, files, 1)
	require.Equal(t, "sort-and-change-case.ga", files[0].ID)
}
