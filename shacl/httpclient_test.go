package shacl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocrate-validator/rocval/model"
)

func TestHTTPEngineValidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/validate", r.URL.Path)

		var req validateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Shapes, 1)
		require.Equal(t, "https://example.org/shapes#license", req.Shapes[0].ShapeIRI)

		resp := validateResponse{
			Conforms: false,
			Violations: []httpViolation{
				{
					SourceShapeIRI: "https://example.org/shapes#license",
					FocusNode:      "./",
					ResultPath:     "license",
					Severity:       "REQUIRED",
					Message:        "license is missing",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	doc := parseTestDocument(t, `{
  "@graph": [
    {"@id": "ro-crate-metadata.json", "about": {"@id": "./"}},
    {"@id": "./", "@type": "Dataset"}
  ]
}`)

	req := model.Requirement{
		ID: "root_descriptors",
		Checks: []model.Check{
			{
				ID:       "license_present",
				Kind:     model.ShapeCheck,
				ShapeIRI: "https://example.org/shapes#license",
				Constraint: &model.ShapeConstraint{
					Path:     "license",
					MinCount: intPtr(1),
				},
			},
		},
	}

	engine := NewHTTPEngine(server.URL, nil)
	report, err := engine.Validate(context.Background(), doc, []model.Requirement{req})
	require.NoError(t, err)
	require.False(t, report.Conforms)
	require.Len(t, report.Violations, 1)
	require.Equal(t, model.Required, report.Violations[0].Severity)
}

func TestHTTPEngineNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	doc := parseTestDocument(t, `{"@graph": [{"@id": "ro-crate-metadata.json", "about": {"@id": "./"}}, {"@id": "./"}]}`)

	engine := NewHTTPEngine(server.URL, nil)
	_, err := engine.Validate(context.Background(), doc, nil)
	require.Error(t, err)
}
