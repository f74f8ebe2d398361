package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationResultValid(t *testing.T) {
	r := &ValidationResult{
		Threshold: Required,
		Issues: []Issue{
			{CheckID: "root_license", Severity: Recommended},
		},
	}
	assert.True(t, r.Valid(), "a Recommended issue must not fail a Required threshold")

	r.Issues = append(r.Issues, Issue{CheckID: "file_presence", Severity: Required})
	assert.False(t, r.Valid())
}

func TestIssuesAtOrAbove(t *testing.T) {
	r := &ValidationResult{
		Issues: []Issue{
			{CheckID: "a", Severity: Optional},
			{CheckID: "b", Severity: Recommended},
			{CheckID: "c", Severity: Required},
		},
	}
	assert.Len(t, r.IssuesAtOrAbove(Recommended), 2)
	assert.Len(t, r.IssuesAtOrAbove(Required), 1)
	assert.Len(t, r.IssuesAtOrAbove(Optional), 3)
}

func TestIssueDedupKey(t *testing.T) {
	a := Issue{CheckID: "file_presence", FocusNode: "./", Path: "hasPart", Message: "missing"}
	b := a
	assert.Equal(t, a.DedupKey(), b.DedupKey())

	b.Message = "different"
	assert.NotEqual(t, a.DedupKey(), b.DedupKey())
}
