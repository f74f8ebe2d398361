package config

import (
	"os"
	"strings"
)

// ExpandEnvWithDefaults expands ${VAR} and ${VAR:-default} references
// in s against the process environment, in the two-step
// "expand-then-parse" shape used throughout this engine's ambient
// configuration loading: this runs before YAML unmarshalling, never
// after.
func ExpandEnvWithDefaults(s string) string {
	return os.Expand(s, func(ref string) string {
		name, def, hasDefault := strings.Cut(ref, ":-")
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		if hasDefault {
			return def
		}
		return ""
	})
}
