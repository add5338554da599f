// Package artifacts manages the resume and video slots of the signed-in
// account: Absent -> Pending on submit, Pending -> Absent on cancel.
// Approved and Rejected are only ever written by reviewers outside this service.
package artifacts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"careerfolio/internal/logging"
	"careerfolio/internal/metrics"
	"careerfolio/internal/notify"
	"careerfolio/internal/queue"
	"careerfolio/internal/records"
	"careerfolio/internal/validation"
)

// Sessions resolves and ends the current session.
type Sessions interface {
	SessionEmail(ctx context.Context) (string, error)
	Invalidate(ctx context.Context, cause error) error
}

// Publisher receives lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, msg queue.Message) error
}

// Manager runs submit and cancel for one workspace. Not safe for concurrent use.
type Manager struct {
	store    *records.Store
	sessions Sessions
	notices  *notify.Notifier
	events   Publisher
	now      func() time.Time
}

// NewManager creates a manager. events may be nil.
func NewManager(store *records.Store, sessions Sessions, notices *notify.Notifier, events Publisher) *Manager {
	return &Manager{store: store, sessions: sessions, notices: notices, events: events, now: time.Now}
}

// Submit validates file and replaces the kind's artifact with a fresh Pending one.
func (m *Manager) Submit(ctx context.Context, kind records.Kind, file *validation.File) (records.Artifact, error) {
	art, err := m.submit(ctx, kind, file)
	metrics.Artifacts.WithLabelValues(string(kind), "submit", metrics.Result(err)).Inc()
	return art, err
}

func (m *Manager) submit(ctx context.Context, kind records.Kind, file *validation.File) (records.Artifact, error) {
	email, err := m.sessions.SessionEmail(ctx)
	if err != nil {
		return records.Artifact{}, err
	}
	if err := validation.ValidateUpload(file, kind); err != nil {
		return records.Artifact{}, err
	}

	all, idx, err := m.resolve(ctx, email)
	if err != nil {
		return records.Artifact{}, err
	}

	art := records.Artifact{
		Filename:  file.Name,
		Status:    records.StatusPending,
		UpdatedAt: records.FormatTimestamp(m.now()),
	}
	all[idx].SetArtifact(kind, &art)
	if err := m.store.SaveAll(ctx, all); err != nil {
		return records.Artifact{}, err
	}

	m.notify(fmt.Sprintf("%s uploaded successfully and sent for review.", label(kind)))
	m.publish(ctx, queue.NewMessage(queue.TypeArtifactSubmitted, email, string(kind), art.Filename))
	logging.FromContext(ctx).Info("artifact submitted", "email", email, "kind", kind, "filename", art.Filename)
	return art, nil
}

// Cancel removes the kind's artifact if and only if it is Pending. It reports
// whether anything changed; any other status is left untouched.
func (m *Manager) Cancel(ctx context.Context, kind records.Kind) (bool, error) {
	changed, err := m.cancel(ctx, kind)
	result := metrics.Result(err)
	if err == nil && !changed {
		result = "noop"
	}
	metrics.Artifacts.WithLabelValues(string(kind), "cancel", result).Inc()
	return changed, err
}

func (m *Manager) cancel(ctx context.Context, kind records.Kind) (bool, error) {
	if _, ok := validation.RuleFor(kind); !ok {
		return false, fmt.Errorf("%w: %q", records.ErrUnknownKind, kind)
	}
	email, err := m.sessions.SessionEmail(ctx)
	if err != nil {
		return false, err
	}
	all, idx, err := m.resolve(ctx, email)
	if err != nil {
		return false, err
	}

	current := all[idx].Artifact(kind)
	if current == nil || current.Status != records.StatusPending {
		return false, nil
	}
	filename := current.Filename
	all[idx].SetArtifact(kind, nil)
	if err := m.store.SaveAll(ctx, all); err != nil {
		return false, err
	}

	m.notify(fmt.Sprintf("%s upload cancelled.", label(kind)))
	m.publish(ctx, queue.NewMessage(queue.TypeArtifactCancelled, email, string(kind), filename))
	logging.FromContext(ctx).Info("artifact cancelled", "email", email, "kind", kind)
	return true, nil
}

// resolve loads the record set and locates email in it. A dangling pointer
// ends the session.
func (m *Manager) resolve(ctx context.Context, email string) ([]records.UserRecord, int, error) {
	all, err := m.store.LoadAll(ctx)
	if err != nil {
		return nil, -1, err
	}
	idx := records.Find(all, email)
	if idx < 0 {
		if err := m.sessions.Invalidate(ctx, validation.ErrUserNotFound); err != nil {
			return nil, -1, err
		}
		return nil, -1, validation.ErrUserNotFound
	}
	return all, idx, nil
}

func (m *Manager) notify(msg string) {
	if m.notices != nil {
		m.notices.Show(msg, notify.LevelSuccess)
	}
}

func (m *Manager) publish(ctx context.Context, msg queue.Message) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(ctx, msg); err != nil {
		logging.FromContext(ctx).Warn("event publish failed", "type", msg.Type, "err", err)
	}
}

func label(kind records.Kind) string {
	s := string(kind)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
