// Package check implements the Check variant types and the built-in
// programmatic check predicates: file presence, root entity shape, and
// recommended-property checks over a loaded crate.
package check

import (
	"context"
	"fmt"

	"github.com/rocrate-validator/rocval/crate"
	"github.com/rocrate-validator/rocval/model"
)

// Predicate is the signature every programmatic check implements: a
// function over the loaded crate that returns zero or more issues.
type Predicate func(ctx context.Context, c *crate.Crate, check model.Check) ([]model.Issue, error)

var registry = map[string]Predicate{}

// Register adds a named predicate to the registry profile descriptors
// reference by name. Profiles declare programmatic checks by
// predicate name rather than by shipping arbitrary executable code,
// since Go has no equivalent of dynamically importing a .py module at
// validation time.
func Register(name string, p Predicate) {
	registry[name] = p
}

// Lookup returns the predicate registered under name.
func Lookup(name string) (Predicate, bool) {
	p, ok := registry[name]
	return p, ok
}

func init() {
	Register("root_id", rootID)
	Register("file_presence", filePresence)
	Register("root_license", rootHasProperty("license"))
	Register("root_name", rootHasProperty("name"))
	Register("main_entity_present", rootHasProperty("mainEntity"))
}

func issue(c model.Check, focusNode, path, message string) model.Issue {
	return model.Issue{
		CheckID:       c.ID,
		RequirementID: c.RequirementID,
		Severity:      c.Severity,
		Message:       message,
		FocusNode:     focusNode,
		Path:          path,
	}
}

func renderMessage(c model.Check, fallback string, args ...any) string {
	if c.MessageTemplate == "" {
		return fallback
	}
	return fmt.Sprintf(c.MessageTemplate, args...)
}
