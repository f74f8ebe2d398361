package check

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rocrate-validator/rocval/crate"
	"github.com/rocrate-validator/rocval/model"
	"github.com/rocrate-validator/rocval/vocabulary/rocrate"
)

// rootID checks that the crate declares a root data entity at the
// conventional "@id": "./". An entity using some other id key instead
// of "@id" never resolves to a root entity at all, which this
// predicate catches as a missing root.
func rootID(_ context.Context, c *crate.Crate, chk model.Check) ([]model.Issue, error) {
	doc := c.MetadataGraph()
	root := doc.RootEntity()
	if root == nil || root.ID != rocrate.RootID {
		msg := renderMessage(chk, fmt.Sprintf("root data entity not found at %q", rocrate.RootID))
		return []model.Issue{issue(chk, doc.RootID, "@id", msg)}, nil
	}
	return nil, nil
}

// filePresence checks that every data entity referenced by the
// metadata with a relative @id (as an @graph node or as a hasPart
// value) resolves through the crate's contents oracle.
func filePresence(_ context.Context, c *crate.Crate, chk model.Check) ([]model.Issue, error) {
	doc := c.MetadataGraph()

	referenced := make(map[string]bool)
	for id, e := range doc.ByID {
		referenced[id] = true
		for _, part := range e.StringValues("hasPart") {
			referenced[part] = true
		}
	}

	var missing []string
	for id := range referenced {
		if !isRelativeDataEntity(id) {
			continue
		}
		if !c.FileExists(id) {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)

	issues := make([]model.Issue, 0, len(missing))
	for _, path := range missing {
		msg := renderMessage(chk, fmt.Sprintf("referenced file not found in crate contents: %s", path), path)
		issues = append(issues, issue(chk, path, "hasPart", msg))
	}
	return issues, nil
}

func isRelativeDataEntity(id string) bool {
	if id == "" || id == rocrate.RootID || id == rocrate.MetadataFileName {
		return false
	}
	if strings.HasPrefix(id, "#") {
		return false
	}
	if strings.Contains(id, "://") {
		return false
	}
	if strings.HasPrefix(id, "urn:") {
		return false
	}
	return true
}

// rootHasProperty builds a predicate asserting the root data entity
// declares a non-empty value for property.
func rootHasProperty(property string) Predicate {
	return func(_ context.Context, c *crate.Crate, chk model.Check) ([]model.Issue, error) {
		doc := c.MetadataGraph()
		root := doc.RootEntity()
		if root == nil || root.StringValue(property) != "" {
			return nil, nil
		}
		msg := renderMessage(chk, fmt.Sprintf("root data entity is missing a %q property", property))
		return []model.Issue{issue(chk, doc.RootID, property, msg)}, nil
	}
}
