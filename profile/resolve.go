package profile

import (
	"fmt"

	"github.com/rocrate-validator/rocval/model"
)

// Resolve returns the effective requirement list for profile p: the
// concatenation, base-first, of requirements from p's transitive
// parents followed by p's own, with per-identifier overrides applying
// to inherited requirements (a same-identifier requirement in a
// descendant replaces the parent's). Traversal is a deterministic
// depth-first topological sort; cycles return ErrProfileCycle.
func (r *Registry) Resolve(p Profile) ([]model.Requirement, error) {
	order, err := r.ancestorOrder(p, make(map[string]bool), make(map[string]bool))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int)
	var result []model.Requirement
	for _, ancestor := range order {
		for _, req := range ancestor.Requirements {
			if idx, exists := byID[req.ID]; exists {
				result[idx] = req // descendant overrides ancestor's same-identifier requirement
				continue
			}
			byID[req.ID] = len(result)
			result = append(result, req)
		}
	}
	return result, nil
}

// ancestorOrder returns p's transitive parent chain, base-first,
// followed by p itself, via depth-first topological sort.
func (r *Registry) ancestorOrder(p Profile, visiting, done map[string]bool) ([]Profile, error) {
	if visiting[p.URI] {
		return nil, fmt.Errorf("%w: %s", ErrProfileCycle, p.URI)
	}
	if done[p.URI] {
		return nil, nil
	}
	visiting[p.URI] = true

	var order []Profile
	for _, parentURI := range p.ParentURIs {
		parent, err := r.Get(parentURI)
		if err != nil {
			return nil, err
		}
		ancestors, err := r.ancestorOrder(parent, visiting, done)
		if err != nil {
			return nil, err
		}
		order = append(order, ancestors...)
	}

	visiting[p.URI] = false
	done[p.URI] = true
	order = append(order, p)
	return order, nil
}
