package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitTokenVersion(t *testing.T) {
	cases := []struct {
		raw, token, version string
	}{
		{"workflow-ro-crate-1.0", "workflow-ro-crate", "1.0"},
		{"ro-crate", "ro-crate", ""},
		{"thing-2", "thing", "2"},
		{"thing-1.2.3", "thing", "1.2.3"},
	}
	for _, tc := range cases {
		token, version := splitTokenVersion(tc.raw)
		require.Equal(t, tc.token, token, tc.raw)
		require.Equal(t, tc.version, version, tc.raw)
	}
}

func TestVersionOrdinalCompare(t *testing.T) {
	require.Equal(t, -1, parseVersion("1.0").compare(parseVersion("2.0")))
	require.Equal(t, 1, parseVersion("2.0").compare(parseVersion("1.0")))
	require.Equal(t, 0, parseVersion("1.0").compare(parseVersion("1.0")))
	require.Equal(t, 1, parseVersion("").compare(parseVersion("99.0")), "unversioned is latest")
}
