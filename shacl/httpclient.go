package shacl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rocrate-validator/rocval/graph"
	"github.com/rocrate-validator/rocval/model"
)

// HTTPEngine delegates SHACL evaluation to an external validation
// service over HTTP: the Executor only ever sees the Engine interface,
// never the transport behind it. Use this when a profile's shapes
// exceed the Core subset LocalEngine covers.
type HTTPEngine struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPEngine constructs an HTTPEngine posting requests to baseURL.
// A nil client defaults to a 30 second timeout.
func NewHTTPEngine(baseURL string, client *http.Client) *HTTPEngine {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPEngine{BaseURL: baseURL, Client: client}
}

type validateRequest struct {
	Data   json.RawMessage       `json:"data"`
	Shapes []httpShapeDescriptor `json:"shapes"`
}

type httpShapeDescriptor struct {
	ShapeIRI string `json:"shapeIri"`
	Target   string `json:"target,omitempty"`
	Path     string `json:"path"`
	MinCount *int   `json:"minCount,omitempty"`
	MaxCount *int   `json:"maxCount,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
	Class    string `json:"class,omitempty"`
	Datatype string `json:"datatype,omitempty"`
	NodeKind string `json:"nodeKind,omitempty"`
	Message  string `json:"message,omitempty"`
}

type validateResponse struct {
	Conforms   bool            `json:"conforms"`
	Violations []httpViolation `json:"violations"`
}

type httpViolation struct {
	SourceShapeIRI string `json:"sourceShapeIri"`
	FocusNode      string `json:"focusNode"`
	ResultPath     string `json:"resultPath"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
}

func (e *HTTPEngine) Validate(ctx context.Context, data *graph.Document, requirements []model.Requirement) (*Report, error) {
	body, err := e.buildRequest(data, requirements)
	if err != nil {
		return nil, fmt.Errorf("shacl: building request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/validate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("shacl: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shacl: request to %s: %w", e.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shacl: validation service returned status %d", resp.StatusCode)
	}

	var parsed validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("shacl: decoding response: %w", err)
	}

	return toReport(parsed), nil
}

func (e *HTTPEngine) buildRequest(data *graph.Document, requirements []model.Requirement) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var shapes []httpShapeDescriptor
	for _, req := range requirements {
		for _, chk := range req.Checks {
			if chk.Kind != model.ShapeCheck || chk.Constraint == nil {
				continue
			}
			shapes = append(shapes, httpShapeDescriptor{
				ShapeIRI: chk.ShapeIRI,
				Target:   req.Target,
				Path:     chk.Constraint.Path,
				MinCount: chk.Constraint.MinCount,
				MaxCount: chk.Constraint.MaxCount,
				Pattern:  chk.Constraint.Pattern,
				Class:    chk.Constraint.Class,
				Datatype: chk.Constraint.Datatype,
				NodeKind: chk.Constraint.NodeKind,
				Message:  chk.MessageTemplate,
			})
		}
	}

	return json.Marshal(validateRequest{Data: raw, Shapes: shapes})
}

func toReport(resp validateResponse) *Report {
	report := &Report{Conforms: resp.Conforms}
	for _, v := range resp.Violations {
		sev, err := model.ParseSeverity(v.Severity)
		if err != nil {
			sev = model.Required
		}
		report.Violations = append(report.Violations, Violation{
			SourceShapeIRI: v.SourceShapeIRI,
			FocusNode:      v.FocusNode,
			ResultPath:     v.ResultPath,
			Severity:       sev,
			Message:        v.Message,
		})
	}
	return report
}
