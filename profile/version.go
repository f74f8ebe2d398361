package profile

import (
	"regexp"
	"strconv"
	"strings"
)

// tokenVersionPattern matches an identifier token's optional trailing
// numeric version suffix: <name>(-<major>(.<minor>(.<patch>)?)?)?
var tokenVersionPattern = regexp.MustCompile(`^(.*?)(?:-v?(\d+(?:\.\d+(?:\.\d+)?)?))?$`)

// splitTokenVersion splits a raw profile directory/identifier name
// into its base token and version suffix, if any.
func splitTokenVersion(raw string) (token string, version string) {
	match := tokenVersionPattern.FindStringSubmatch(raw)
	if match == nil || match[2] == "" {
		return raw, ""
	}
	return match[1], match[2]
}

// versionOrdinal is a comparable numeric ordinal for a (possibly
// partial) major.minor.patch version. Unversioned is the largest
// possible ordinal, so it always wins an "unversioned request, latest
// wins" or "no version <= requested" comparison correctly depending on
// which side is being compared.
type versionOrdinal struct {
	unversioned bool
	major       int
	minor       int
	patch       int
}

func parseVersion(v string) versionOrdinal {
	if v == "" {
		return versionOrdinal{unversioned: true}
	}
	parts := strings.SplitN(v, ".", 3)
	var ord versionOrdinal
	if len(parts) > 0 {
		ord.major, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		ord.minor, _ = strconv.Atoi(parts[1])
	}
	if len(parts) > 2 {
		ord.patch, _ = strconv.Atoi(parts[2])
	}
	return ord
}

// compare returns -1, 0, or 1 as a compares to b, treating unversioned
// as greater than every concrete version (i.e. "latest").
func (a versionOrdinal) compare(b versionOrdinal) int {
	if a.unversioned && b.unversioned {
		return 0
	}
	if a.unversioned {
		return 1
	}
	if b.unversioned {
		return -1
	}
	if a.major != b.major {
		return sign(a.major - b.major)
	}
	if a.minor != b.minor {
		return sign(a.minor - b.minor)
	}
	return sign(a.patch - b.patch)
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
