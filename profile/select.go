package profile

import (
	"github.com/rocrate-validator/rocval/model"
	"github.com/rocrate-validator/rocval/vocabulary/rocrate"
)

// SelectionMode controls what the Selector does when none of the
// crate's conformsTo values match a registered profile.
type SelectionMode int

const (
	// NonInteractive validates against every candidate profile,
	// falling back to the base ro-crate profile if there are none.
	NonInteractive SelectionMode = iota
	// Interactive returns the full candidate list for the caller to
	// choose from, rather than picking automatically.
	Interactive
)

// Warning records a non-fatal selection event: a conformsTo value that
// could not be matched, or a fallback that was taken. Alias of
// model.SelectionWarning so a Selection's warnings can be copied
// straight onto a ValidationResult without conversion.
type Warning = model.SelectionWarning

// Selection is the result of running the Selector: the ordered,
// de-duplicated list of profiles to validate against, any warnings,
// and (in Interactive mode with no exact/downgrade match) the
// candidate list for the caller to choose from instead.
type Selection struct {
	Profiles   []Profile
	Warnings   []Warning
	Candidates []Profile // populated only when Interactive mode needs a caller choice
}

// Select implements the profile selection algorithm: choose a profile
// from a crate's conformsTo declarations, falling back to a parent
// profile or interactive selection when nothing matches directly.
// explicitProfileURI, when non-empty, is an explicit override: that
// profile is used and conformsTo is consulted only for warnings.
func (r *Registry) Select(conformsTo []string, explicitProfileURI string, mode SelectionMode) (Selection, error) {
	if explicitProfileURI != "" {
		p, err := r.Get(explicitProfileURI)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Profiles: []Profile{p}}, nil
	}

	var sel Selection
	seen := make(map[string]bool)

	for _, c := range conformsTo {
		if p, ok := r.FindByURI(c); ok {
			addProfile(&sel, seen, p)
			continue
		}

		token, version := splitTokenVersion(c)
		versions := r.versionsForToken(token)
		if len(versions) == 0 {
			sel.Warnings = append(sel.Warnings, Warning{ConformsTo: c, Reason: "no registered profile for token"})
			continue
		}

		if version == "" {
			// Unversioned request: latest registered version wins.
			addProfile(&sel, seen, versions[len(versions)-1])
			continue
		}

		requested := parseVersion(version)
		best, ok := highestAtOrBelow(versions, requested)
		if !ok {
			sel.Warnings = append(sel.Warnings, Warning{ConformsTo: c, Reason: "no registered version <= requested"})
			continue
		}
		addProfile(&sel, seen, best)
	}

	if len(sel.Profiles) > 0 {
		return sel, nil
	}

	// No conformsTo value matched anything: candidate gathering.
	candidates := r.candidatesFor(conformsTo)
	if mode == Interactive {
		sel.Candidates = candidates
		return sel, nil
	}

	sel.Warnings = append(sel.Warnings, Warning{Reason: "no conformsTo match; falling back", Fallback: true})
	if len(candidates) > 0 {
		sel.Profiles = candidates
		return sel, nil
	}

	base, ok := r.baseProfile()
	if !ok {
		return sel, nil
	}
	sel.Profiles = []Profile{base}
	return sel, nil
}

func addProfile(sel *Selection, seen map[string]bool, p Profile) {
	if seen[p.URI] {
		return
	}
	seen[p.URI] = true
	sel.Profiles = append(sel.Profiles, p)
}

// highestAtOrBelow returns the highest-versioned profile in versions
// (sorted ascending) whose ordinal is <= requested.
func highestAtOrBelow(versions []Profile, requested versionOrdinal) (Profile, bool) {
	var best Profile
	found := false
	for _, p := range versions {
		if p.Ordinal().unversioned {
			continue // an unversioned entry can't satisfy a versioned downgrade match
		}
		if p.Ordinal().compare(requested) <= 0 {
			best = p
			found = true
		}
	}
	return best, found
}

// candidatesFor returns every registered profile whose token appears
// anywhere in conformsTo, plus the base ro-crate profile.
func (r *Registry) candidatesFor(conformsTo []string) []Profile {
	tokens := make(map[string]bool)
	for _, c := range conformsTo {
		token, _ := splitTokenVersion(c)
		tokens[token] = true
	}
	tokens[rocrate.DefaultProfileToken] = true

	var out []Profile
	seen := make(map[string]bool)
	for token := range tokens {
		for _, p := range r.versionsForToken(token) {
			if seen[p.URI] {
				continue
			}
			seen[p.URI] = true
			out = append(out, p)
		}
	}
	return out
}

func (r *Registry) baseProfile() (Profile, bool) {
	versions := r.versionsForToken(rocrate.DefaultProfileToken)
	if len(versions) == 0 {
		return Profile{}, false
	}
	return versions[len(versions)-1], true
}
