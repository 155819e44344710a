// Package workspace owns the in-memory state of one open project and
// coordinates the asynchronous operations that mutate it. All reconciliation
// goes through the controller so that overlapping operations can never
// corrupt each other's results.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"draftline/internal/domain"
	"draftline/internal/history"
)

// Service is the slice of the drafting service the controller drives. It is
// implemented by *api.Client; tests substitute fakes.
type Service interface {
	GetProject(ctx context.Context, id int64) (domain.ProjectDetail, error)
	Generate(ctx context.Context, projectID int64, regenerate bool) (domain.ProjectDetail, error)
	RefineSection(ctx context.Context, sectionID int64, prompt string) (domain.Section, error)
	SetFeedback(ctx context.Context, sectionID int64, value string) (domain.Section, error)
	AddComment(ctx context.Context, sectionID int64, comment string) (domain.Section, error)
	Export(ctx context.Context, projectID int64, format string) ([]byte, string, error)
}

// ErrBusy rejects an operation whose scope already has one in flight. The
// rejection is local; no request is sent.
var ErrBusy = errors.New("another operation is in flight")

// ErrNoProject rejects operations invoked before a successful Load.
var ErrNoProject = errors.New("no project loaded")

// ValidationError is a local pre-network input rejection.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// OpError attributes an operation failure to its scope. SectionID is zero for
// global operations.
type OpError struct {
	Op        string
	SectionID int64
	Err       error
}

func (e *OpError) Error() string {
	if e.SectionID != 0 {
		return fmt.Sprintf("%s (section %d): %v", e.Op, e.SectionID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Controller serializes mutations of a single project snapshot. At most one
// global operation (generate, export) and one section-scoped operation
// (refine, feedback, comment) may be in flight; conflicting calls fail with
// ErrBusy instead of queuing or canceling.
type Controller struct {
	// History, when set, records operation outcomes. Append failures are
	// swallowed; the log is advisory.
	History *history.Writer

	svc Service

	mu          sync.Mutex
	projectID   int64
	snapshot    *domain.ProjectDetail
	loadErr     error
	globalBusy  bool
	busySection int64
	lastErr     *OpError
}

func New(svc Service) *Controller {
	return &Controller{svc: svc}
}

// Load fetches the project detail and replaces the snapshot. On failure the
// previous snapshot, if any, is left untouched and the error is retained as
// the load error.
func (c *Controller) Load(ctx context.Context, projectID int64) error {
	detail, err := c.svc.GetProject(ctx, projectID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		// Keep the prior snapshot and its project id; retargeting on a
		// failed load would let later global operations act on a project
		// the workspace is not showing.
		c.loadErr = err
		return err
	}
	c.loadErr = nil
	c.projectID = projectID
	c.snapshot = &detail
	return nil
}

// Generate asks the service to (re)populate every section's content. The
// response replaces the entire snapshot, status included; a failure leaves
// the prior snapshot untouched.
func (c *Controller) Generate(ctx context.Context, regenerate bool) (domain.ProjectDetail, error) {
	projectID, err := c.acquireGlobal()
	if err != nil {
		return domain.ProjectDetail{}, err
	}
	defer c.releaseGlobal()

	op := "generate"
	if regenerate {
		op = "regenerate"
	}
	detail, err := c.svc.Generate(ctx, projectID, regenerate)
	if err != nil {
		return domain.ProjectDetail{}, c.settle(ctx, op, 0, err)
	}
	c.mu.Lock()
	c.snapshot = &detail
	c.lastErr = nil
	c.mu.Unlock()
	c.record(ctx, op, 0, nil)
	return detail, nil
}

// RefineSection rewrites one section per a natural-language prompt. The
// prompt must be non-empty after trimming; validation failures never reach
// the network.
func (c *Controller) RefineSection(ctx context.Context, sectionID int64, prompt string) (domain.Section, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return domain.Section{}, &ValidationError{Msg: "refinement prompt must not be empty"}
	}
	if err := c.acquireSection(sectionID); err != nil {
		return domain.Section{}, err
	}
	defer c.releaseSection()

	updated, err := c.svc.RefineSection(ctx, sectionID, prompt)
	if err != nil {
		return domain.Section{}, c.settle(ctx, "refine", sectionID, err)
	}
	c.merge(updated)
	c.record(ctx, "refine", sectionID, nil)
	return updated, nil
}

// SetFeedback records like/dislike on a section. Repeated identical values
// are resubmitted as-is; there is no toggle-off.
func (c *Controller) SetFeedback(ctx context.Context, sectionID int64, value string) (domain.Section, error) {
	if !domain.ValidFeedback(value) {
		return domain.Section{}, &ValidationError{Msg: fmt.Sprintf("feedback must be %q or %q", domain.FeedbackLike, domain.FeedbackDislike)}
	}
	if err := c.acquireSection(sectionID); err != nil {
		return domain.Section{}, err
	}
	defer c.releaseSection()

	updated, err := c.svc.SetFeedback(ctx, sectionID, value)
	if err != nil {
		return domain.Section{}, c.settle(ctx, "feedback", sectionID, err)
	}
	c.merge(updated)
	c.record(ctx, "feedback", sectionID, nil)
	return updated, nil
}

// AddComment attaches a comment to a section, replacing the displayed one.
// Comments need at least 2 characters after trimming.
func (c *Controller) AddComment(ctx context.Context, sectionID int64, comment string) (domain.Section, error) {
	comment = strings.TrimSpace(comment)
	if len(comment) < 2 {
		return domain.Section{}, &ValidationError{Msg: "comment must be at least 2 characters"}
	}
	if err := c.acquireSection(sectionID); err != nil {
		return domain.Section{}, err
	}
	defer c.releaseSection()

	updated, err := c.svc.AddComment(ctx, sectionID, comment)
	if err != nil {
		return domain.Section{}, c.settle(ctx, "comment", sectionID, err)
	}
	c.merge(updated)
	c.record(ctx, "comment", sectionID, nil)
	return updated, nil
}

// Export requests the binary artifact in the given format and returns the
// bytes plus a suggested filename. The format is not constrained to the
// project's own doc type; the service decides whether a mismatch is valid.
// Writing the artifact to disk is the caller's concern.
func (c *Controller) Export(ctx context.Context, format string) ([]byte, string, error) {
	if !domain.ValidDocType(format) {
		return nil, "", &ValidationError{Msg: fmt.Sprintf("format must be %q or %q", domain.DocTypeWord, domain.DocTypeSlides)}
	}
	projectID, err := c.acquireGlobal()
	if err != nil {
		return nil, "", err
	}
	defer c.releaseGlobal()

	data, filename, err := c.svc.Export(ctx, projectID, format)
	if err != nil {
		return nil, "", c.settle(ctx, "export", 0, err)
	}
	if filename == "" {
		c.mu.Lock()
		if c.snapshot != nil {
			filename = domain.ExportFilename(c.snapshot.Title, format)
		} else {
			filename = domain.ExportFilename("", format)
		}
		c.mu.Unlock()
	}
	c.record(ctx, "export", 0, nil)
	return data, filename, nil
}

// Snapshot returns a copy of the current project detail. The second result
// is false before a successful Load.
func (c *Controller) Snapshot() (domain.ProjectDetail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return domain.ProjectDetail{}, false
	}
	out := *c.snapshot
	out.Sections = append([]domain.Section(nil), c.snapshot.Sections...)
	return out, true
}

// LoadError returns the error from the most recent failed Load, if any.
func (c *Controller) LoadError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// LastError returns the most recent operation failure, or nil.
func (c *Controller) LastError() *OpError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Busy reports the in-flight state: whether a global operation is running and
// which section, if any, has a pending operation (0 for none).
func (c *Controller) Busy() (global bool, sectionID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.globalBusy, c.busySection
}

// acquireGlobal takes the whole-project permit. It also resolves the project
// id so the caller issues the request without holding the lock.
func (c *Controller) acquireGlobal() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return 0, ErrNoProject
	}
	if c.globalBusy {
		return 0, ErrBusy
	}
	c.globalBusy = true
	return c.projectID, nil
}

func (c *Controller) releaseGlobal() {
	c.mu.Lock()
	c.globalBusy = false
	c.mu.Unlock()
}

// acquireSection takes the single section-scoped permit. The slot is shared
// across sections: one pending section operation per workspace.
func (c *Controller) acquireSection(sectionID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return ErrNoProject
	}
	if c.busySection != 0 {
		return ErrBusy
	}
	if c.snapshot.SectionByID(sectionID) == nil {
		return fmt.Errorf("section %d not in project %d", sectionID, c.projectID)
	}
	c.busySection = sectionID
	return nil
}

func (c *Controller) releaseSection() {
	c.mu.Lock()
	c.busySection = 0
	c.mu.Unlock()
}

// merge replaces the section with a matching id in place. Matching is by
// entity id, never by index, so a slow response cannot land on the wrong
// section. Everything else in the snapshot is left untouched.
func (c *Controller) merge(updated domain.Section) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return
	}
	for i := range c.snapshot.Sections {
		if c.snapshot.Sections[i].ID == updated.ID {
			c.snapshot.Sections[i] = updated
			break
		}
	}
	c.lastErr = nil
}

// settle records a failed operation and returns the attributed error. The
// snapshot is never modified on failure.
func (c *Controller) settle(ctx context.Context, op string, sectionID int64, err error) error {
	opErr := &OpError{Op: op, SectionID: sectionID, Err: err}
	c.mu.Lock()
	c.lastErr = opErr
	c.mu.Unlock()
	c.record(ctx, op, sectionID, err)
	return opErr
}

func (c *Controller) record(ctx context.Context, op string, sectionID int64, err error) {
	if c.History == nil {
		return
	}
	c.mu.Lock()
	projectID := c.projectID
	c.mu.Unlock()
	outcome := history.OutcomeOK
	detail := ""
	if err != nil {
		outcome = history.OutcomeFailed
		detail = err.Error()
	}
	_ = c.History.Append(ctx, op, projectID, sectionID, outcome, detail)
}
