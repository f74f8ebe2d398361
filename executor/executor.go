package executor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rocrate-validator/rocval/check"
	"github.com/rocrate-validator/rocval/crate"
	"github.com/rocrate-validator/rocval/model"
	"github.com/rocrate-validator/rocval/shacl"
)

// ResolvedProfile pairs a profile URI with its effective requirement
// list, already computed by the Inheritance Resolver. Run itself
// filters the checks against Options.Threshold.
type ResolvedProfile struct {
	URI          string
	Requirements []model.Requirement
}

// Options configures one Run call.
type Options struct {
	// Threshold is the minimum check severity that runs.
	Threshold model.Severity
	// AbortOnFirst stops the run after the first issue at or above
	// Threshold.
	AbortOnFirst bool
	// Publisher receives lifecycle events. May be nil.
	Publisher *Publisher
	// Cancel is polled at each check boundary. May be nil.
	Cancel *CancellationToken
}

// Executor runs the three-phase state machine (prepare, execute,
// finalize) for a set of resolved profiles against a loaded crate.
type Executor struct {
	ShapeEngine shacl.Engine
}

// New constructs an Executor backed by the given SHACL engine.
func New(shapeEngine shacl.Engine) *Executor {
	return &Executor{ShapeEngine: shapeEngine}
}

// Run executes profiles in the order given against c, publishing
// events to opts.Publisher and returning the accumulated
// ValidationResult. Run never returns an error for conformance
// findings — those are always Issues on the result — only for
// situations the loader/profile stages should have already prevented.
func (e *Executor) Run(ctx context.Context, c *crate.Crate, profiles []ResolvedProfile, opts Options) *model.ValidationResult {
	pub := opts.Publisher
	if pub == nil {
		pub = NewPublisher()
	}

	result := &model.ValidationResult{
		RunID:     uuid.New(),
		Threshold: opts.Threshold,
		StartedAt: timeNow(),
	}
	for _, p := range profiles {
		result.Profiles = append(result.Profiles, p.URI)
	}

	run := &run{
		ctx:    ctx,
		crate:  c,
		opts:   opts,
		pub:    pub,
		result: result,
		seen:   make(map[string]bool),
	}

	pub.Notify(model.Event{Type: model.ValidationStarted, Timestamp: timeNow()})

	for _, p := range profiles {
		if run.stopped() {
			break
		}
		run.runProfile(e.ShapeEngine, p)
	}

	result.FinishedAt = timeNow()
	if result.Cancelled {
		pub.Notify(model.Event{Type: model.ValidationCancelled, Timestamp: timeNow()})
	} else {
		pub.Notify(model.Event{Type: model.ValidationFinished, Timestamp: timeNow()})
	}
	return result
}

// run carries the mutable state of one Run call.
type run struct {
	ctx       context.Context
	crate     *crate.Crate
	opts      Options
	pub       *Publisher
	result    *model.ValidationResult
	seen      map[string]bool
	abortedOn bool // AbortOnFirst tripped
}

func (r *run) stopped() bool {
	if r.result.Cancelled || r.abortedOn {
		return true
	}
	if r.opts.Cancel != nil && r.opts.Cancel.Cancelled() {
		r.result.Cancelled = true
		return true
	}
	return false
}

func (r *run) runProfile(engine shacl.Engine, p ResolvedProfile) {
	r.pub.Notify(model.Event{Type: model.ProfileStarted, Timestamp: timeNow(), Profile: p.URI})

	shapeReqs, progReqs, skipped := partition(p.Requirements, r.opts.Threshold)
	for _, s := range skipped {
		r.result.SkippedChecks = append(r.result.SkippedChecks, s)
	}

	if len(flattenChecks(shapeReqs)) > 0 {
		if !r.runShapePhase(engine, p.URI, shapeReqs) {
			r.pub.Notify(model.Event{Type: model.ProfileFinished, Timestamp: timeNow(), Profile: p.URI})
			return
		}
	}

	r.runProgrammaticPhase(p.URI, progReqs)

	r.pub.Notify(model.Event{Type: model.ProfileFinished, Timestamp: timeNow(), Profile: p.URI})
}

// runShapePhase runs one batched SHACL validation call for the
// profile's shape-backed requirements, then replays per-check events
// in the deterministic order the resolver already established. It
// returns false if a shape-engine failure aborted the profile.
func (r *run) runShapePhase(engine shacl.Engine, profileURI string, shapeReqs []model.Requirement) bool {
	report, err := engine.Validate(r.ctx, r.crate.MetadataGraph(), shapeReqs)
	if err != nil {
		issue := model.InternalError(profileURI, fmt.Sprintf("shape engine failure: %v", err))
		r.addIssue(issue)
		return false
	}

	byShapeIRI := make(map[string]shapeCheckRef)
	for _, req := range shapeReqs {
		for _, chk := range req.Checks {
			byShapeIRI[chk.ShapeIRI] = shapeCheckRef{requirement: req, check: chk}
		}
	}

	issuesByCheck := make(map[string][]model.Issue)
	var unknownShapes []shacl.Violation
	for _, v := range report.Violations {
		ref, ok := byShapeIRI[v.SourceShapeIRI]
		if !ok {
			unknownShapes = append(unknownShapes, v)
			continue
		}
		key := ref.requirement.ID + "\x00" + ref.check.ID
		issuesByCheck[key] = append(issuesByCheck[key], model.Issue{
			CheckID:       ref.check.ID,
			RequirementID: ref.requirement.ID,
			ProfileURI:    profileURI,
			Severity:      ref.check.Severity,
			Message:       v.Message,
			FocusNode:     v.FocusNode,
			Path:          v.ResultPath,
		})
	}

	for _, req := range shapeReqs {
		if r.stopped() {
			return true
		}
		reqID := req.ID
		r.runRequirementChecks(profileURI, req, func(chk model.Check) []model.Issue {
			return issuesByCheck[reqID+"\x00"+chk.ID]
		})
	}

	for _, v := range unknownShapes {
		r.addIssue(model.InternalError(profileURI, fmt.Sprintf("unknown source shape: %s", v.SourceShapeIRI)))
	}
	return true
}

func (r *run) runProgrammaticPhase(profileURI string, progReqs []model.Requirement) {
	for _, req := range progReqs {
		if r.stopped() {
			return
		}
		r.runRequirementChecks(profileURI, req, func(chk model.Check) []model.Issue {
			return r.executeProgrammaticCheck(profileURI, chk)
		})
	}
}

func (r *run) executeProgrammaticCheck(profileURI string, chk model.Check) (issues []model.Issue) {
	predicate, ok := check.Lookup(chk.PredicateName)
	if !ok {
		return []model.Issue{model.InternalError(profileURI, fmt.Sprintf("unregistered predicate: %s", chk.PredicateName))}
	}

	defer func() {
		if rec := recover(); rec != nil {
			issues = []model.Issue{withCheck(model.InternalError(profileURI, fmt.Sprintf("check %s panicked: %v", chk.ID, rec)), chk)}
		}
	}()

	found, err := predicate(r.ctx, r.crate, chk)
	if err != nil {
		return []model.Issue{withCheck(model.InternalError(profileURI, fmt.Sprintf("check %s failed: %v", chk.ID, err)), chk)}
	}
	for i := range found {
		found[i].ProfileURI = profileURI
	}
	return found
}

func withCheck(issue model.Issue, chk model.Check) model.Issue {
	issue.RequirementID = chk.RequirementID
	return issue
}

// runRequirementChecks emits RequirementStarted/Finished around the
// requirement's checks, in check-ID order, dispatching to issuesFor to
// obtain each check's issues regardless of whether it is shape-backed
// or programmatic.
func (r *run) runRequirementChecks(profileURI string, req model.Requirement, issuesFor func(model.Check) []model.Issue) {
	checks := append([]model.Check{}, req.Checks...)
	sort.Slice(checks, func(i, j int) bool { return checks[i].ID < checks[j].ID })

	r.pub.Notify(model.Event{Type: model.RequirementStarted, Timestamp: timeNow(), Profile: profileURI, Requirement: req.ID})

	for _, chk := range checks {
		if r.stopped() {
			break
		}
		r.pub.Notify(model.Event{Type: model.CheckStarted, Timestamp: timeNow(), Profile: profileURI, Requirement: req.ID, Check: chk.ID})

		for _, issue := range issuesFor(chk) {
			r.addIssue(issue)
			if r.abortedOn {
				break
			}
		}

		r.result.ExecutedChecks = append(r.result.ExecutedChecks, model.ExecutedCheck{
			CheckID:       chk.ID,
			RequirementID: req.ID,
			ProfileURI:    profileURI,
		})
		r.pub.Notify(model.Event{Type: model.CheckFinished, Timestamp: timeNow(), Profile: profileURI, Requirement: req.ID, Check: chk.ID})
	}

	r.pub.Notify(model.Event{Type: model.RequirementFinished, Timestamp: timeNow(), Profile: profileURI, Requirement: req.ID})
}

// addIssue de-duplicates by (check_id, focus_node, path, message)
// across the whole run, irrespective of which profile produced it,
// notifies subscribers, and trips AbortOnFirst when configured.
func (r *run) addIssue(issue model.Issue) {
	key := issue.DedupKey()
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	r.result.Issues = append(r.result.Issues, issue)
	r.pub.Notify(model.Event{Type: model.IssueFound, Timestamp: timeNow(), Profile: issue.ProfileURI, Requirement: issue.RequirementID, Check: issue.CheckID, Issue: &issue})

	if r.opts.AbortOnFirst && issue.Severity >= r.opts.Threshold {
		r.abortedOn = true
	}
}

type shapeCheckRef struct {
	requirement model.Requirement
	check       model.Check
}

// partition splits requirements' checks by severity threshold and
// kind, returning filtered copies (shape-only, programmatic-only) plus
// the checks the threshold excluded.
func partition(requirements []model.Requirement, threshold model.Severity) (shapeReqs, progReqs []model.Requirement, skipped []model.SkippedCheck) {
	for _, req := range requirements {
		var shapeChecks, progChecks []model.Check
		for _, chk := range req.Checks {
			if chk.Severity < threshold {
				skipped = append(skipped, model.SkippedCheck{
					ExecutedCheck: model.ExecutedCheck{CheckID: chk.ID, RequirementID: req.ID, ProfileURI: req.ProfileURI},
					Reason:        "below configured severity threshold",
				})
				continue
			}
			if chk.Kind == model.ShapeCheck {
				shapeChecks = append(shapeChecks, chk)
			} else {
				progChecks = append(progChecks, chk)
			}
		}
		if len(shapeChecks) > 0 {
			sr := req
			sr.Checks = shapeChecks
			shapeReqs = append(shapeReqs, sr)
		}
		if len(progChecks) > 0 {
			pr := req
			pr.Checks = progChecks
			progReqs = append(progReqs, pr)
		}
	}
	return shapeReqs, progReqs, skipped
}

func flattenChecks(requirements []model.Requirement) []model.Check {
	var out []model.Check
	for _, r := range requirements {
		out = append(out, r.Checks...)
	}
	return out
}

// timeNow is a seam so tests can observe event ordering without
// depending on wall-clock precision; production code just wants
// "now".
var timeNow = time.Now
