package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, Optional < Recommended)
	assert.True(t, Recommended < Required)
}

func TestParseSeverityRFC2119Keywords(t *testing.T) {
	cases := map[string]Severity{
		"MAY":         Optional,
		"OPTIONAL":    Optional,
		"SHOULD":      Recommended,
		"SHOULD_NOT":  Recommended,
		"RECOMMENDED": Recommended,
		"MUST":        Required,
		"MUST_NOT":    Required,
		"SHALL":       Required,
		"SHALL_NOT":   Required,
		"REQUIRED":    Required,
	}
	for name, want := range cases {
		got, err := ParseSeverity(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestParseSeverityUnknown(t *testing.T) {
	_, err := ParseSeverity("BOGUS")
	assert.Error(t, err)
}

func TestSeverityStringRoundTrip(t *testing.T) {
	for _, sev := range []Severity{Optional, Recommended, Required} {
		parsed, err := ParseSeverity(sev.String())
		require.NoError(t, err)
		assert.Equal(t, sev, parsed)
	}
}
