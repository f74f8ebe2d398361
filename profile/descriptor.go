package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rocrate-validator/rocval/model"
	"github.com/rocrate-validator/rocval/vocabulary/rocrate"
)

// descriptorFile is the YAML shape the engine reads against. This is
// the only wire format the engine writes against; shape files and
// programmatic check declarations are profile-internal. It conveys
// the same fields a Profiles Vocabulary RDF profile descriptor would
// (prof:hasToken, prof:isProfileOf, prof:isTransitiveProfileOf,
// dct:hasVersion), reserialized as YAML since no Turtle parsing
// library exists in this engine's dependency corpus.
type descriptorFile struct {
	URI                   string            `yaml:"uri"`
	Token                 string            `yaml:"token"`
	Name                  string            `yaml:"name"`
	Description           string            `yaml:"description"`
	Version               string            `yaml:"version"`
	IsProfileOf           []string          `yaml:"isProfileOf"`
	IsTransitiveProfileOf []string          `yaml:"isTransitiveProfileOf"`
	SeverityOverrides     map[string]string `yaml:"severityOverrides"`
}

// shapesFile is the YAML shape-constraint vocabulary understood by
// shacl.LocalEngine. Each top-level node becomes a Requirement; each
// listed property becomes a Check.
type shapesFile struct {
	Shapes []nodeShapeYAML `yaml:"shapes"`
}

type nodeShapeYAML struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	Severity    string              `yaml:"severity"`
	Target      string              `yaml:"target"`
	Properties  []propertyShapeYAML `yaml:"properties"`
}

type propertyShapeYAML struct {
	ID        string `yaml:"id"`
	Path      string `yaml:"path"`
	MinCount  *int   `yaml:"minCount"`
	MaxCount  *int   `yaml:"maxCount"`
	Pattern   string `yaml:"pattern"`
	Class     string `yaml:"class"`
	Datatype  string `yaml:"datatype"`
	NodeKind  string `yaml:"nodeKind"`
	Severity  string `yaml:"severity"`
	Message   string `yaml:"message"`
}

// requirementsFile declares the profile's programmatic requirements,
// each check referencing a predicate registered by name in the check
// package. This is the Go-idiomatic analogue of the Python original's
// dynamically-imported .py check modules: rather than loading
// arbitrary code from disk, the descriptor names a predicate that
// must already be registered in the running binary.
type requirementsFile struct {
	Requirements []requirementYAML `yaml:"requirements"`
}

type requirementYAML struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Severity    string      `yaml:"severity"`
	Checks      []checkYAML `yaml:"checks"`
}

type checkYAML struct {
	ID        string `yaml:"id"`
	Predicate string `yaml:"predicate"`
	Severity  string `yaml:"severity"`
	Message   string `yaml:"message"`
}

// loadProfileDir parses one profile directory into a Profile. dirName
// is used as the fallback token/version source when the descriptor
// omits them.
func loadProfileDir(dir, dirName string) (Profile, error) {
	descPath := filepath.Join(dir, rocrate.ProfileDescriptorFileName)
	data, err := os.ReadFile(descPath)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %s: %v", ErrProfileMalformed, descPath, err)
	}

	var desc descriptorFile
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return Profile{}, fmt.Errorf("%w: %s: %v", ErrProfileMalformed, descPath, err)
	}

	token, version := desc.Token, desc.Version
	if token == "" {
		token, version = splitTokenVersion(dirName)
	}
	if desc.URI == "" {
		return Profile{}, fmt.Errorf("%w: %s: uri is required", ErrProfileMalformed, descPath)
	}

	overrides, err := parseSeverityOverrides(desc.SeverityOverrides)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %s: %v", ErrProfileMalformed, descPath, err)
	}

	p := Profile{
		URI:               desc.URI,
		Token:             token,
		Version:           version,
		Name:              desc.Name,
		Description:       desc.Description,
		ParentURIs:        append(append([]string{}, desc.IsProfileOf...), desc.IsTransitiveProfileOf...),
		SeverityOverrides: overrides,
	}

	shapeReqs, err := loadShapeRequirements(dir, p.URI)
	if err != nil {
		return Profile{}, err
	}
	progReqs, err := loadProgrammaticRequirements(dir, p.URI)
	if err != nil {
		return Profile{}, err
	}

	p.Requirements = append(shapeReqs, progReqs...)
	for i := range p.Requirements {
		if override, ok := p.SeverityOverrides[p.Requirements[i].ID]; ok {
			p.Requirements[i].Severity = override
			for j := range p.Requirements[i].Checks {
				p.Requirements[i].Checks[j].Severity = override
			}
		}
	}
	return p, nil
}

func parseSeverityOverrides(raw map[string]string) (map[string]model.Severity, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]model.Severity, len(raw))
	for id, name := range raw {
		sev, err := model.ParseSeverity(name)
		if err != nil {
			return nil, fmt.Errorf("severityOverrides[%s]: %w", id, err)
		}
		out[id] = sev
	}
	return out, nil
}

func loadShapeRequirements(dir, profileURI string) ([]model.Requirement, error) {
	path := filepath.Join(dir, rocrate.ShapesFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProfileMalformed, path, err)
	}

	var sf shapesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProfileMalformed, path, err)
	}

	reqs := make([]model.Requirement, 0, len(sf.Shapes))
	for _, shape := range sf.Shapes {
		sev := model.Required
		if shape.Severity != "" {
			parsed, err := model.ParseSeverity(shape.Severity)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: shape %s: %v", ErrProfileMalformed, path, shape.Name, err)
			}
			sev = parsed
		}
		req := model.Requirement{
			ID:          shape.Name,
			Name:        shape.Name,
			Description: shape.Description,
			Severity:    sev,
			ProfileURI:  profileURI,
			Target:      shape.Target,
		}
		for idx, prop := range shape.Properties {
			checkSev := sev
			if prop.Severity != "" {
				parsed, err := model.ParseSeverity(prop.Severity)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: shape %s property %d: %v", ErrProfileMalformed, path, shape.Name, idx, err)
				}
				checkSev = parsed
			}
			id := prop.ID
			if id == "" {
				id = fmt.Sprintf("%s_%d", shape.Name, idx)
			}
			req.Checks = append(req.Checks, model.Check{
				ID:              id,
				Kind:            model.ShapeCheck,
				ShapeIRI:        profileURI + "#" + shape.Name + "/" + id,
				MessageTemplate: prop.Message,
				Severity:        checkSev,
				RequirementID:   req.ID,
				Constraint: &model.ShapeConstraint{
					Path:     prop.Path,
					MinCount: prop.MinCount,
					MaxCount: prop.MaxCount,
					Pattern:  prop.Pattern,
					Class:    prop.Class,
					Datatype: prop.Datatype,
					NodeKind: prop.NodeKind,
				},
			})
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func loadProgrammaticRequirements(dir, profileURI string) ([]model.Requirement, error) {
	path := filepath.Join(dir, "requirements.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProfileMalformed, path, err)
	}

	var rf requirementsFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProfileMalformed, path, err)
	}

	reqs := make([]model.Requirement, 0, len(rf.Requirements))
	for _, r := range rf.Requirements {
		sev := model.Required
		if r.Severity != "" {
			parsed, err := model.ParseSeverity(r.Severity)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: requirement %s: %v", ErrProfileMalformed, path, r.ID, err)
			}
			sev = parsed
		}
		req := model.Requirement{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Severity:    sev,
			ProfileURI:  profileURI,
		}
		for _, c := range r.Checks {
			checkSev := sev
			if c.Severity != "" {
				parsed, err := model.ParseSeverity(c.Severity)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: check %s: %v", ErrProfileMalformed, path, c.ID, err)
				}
				checkSev = parsed
			}
			req.Checks = append(req.Checks, model.Check{
				ID:              c.ID,
				Kind:            model.ProgrammaticCheck,
				PredicateName:   c.Predicate,
				MessageTemplate: c.Message,
				Severity:        checkSev,
				RequirementID:   req.ID,
			})
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
