package artifacts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerfolio/internal/account"
	"careerfolio/internal/kv"
	"careerfolio/internal/notify"
	"careerfolio/internal/queue"
	"careerfolio/internal/records"
	"careerfolio/internal/validation"
)

type recordingPublisher struct {
	msgs []queue.Message
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, msg queue.Message) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

type fixture struct {
	mgr      *Manager
	store    *records.Store
	accounts *account.Service
	notices  *notify.Notifier
	events   *recordingPublisher
}

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.Local)

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := records.NewStore(kv.NewMemory(), "careerfolio_")
	notices := notify.New(time.Minute)
	accounts := account.NewService(store, validation.NewPolicy("@etsu.edu"), notices)
	events := &recordingPublisher{}
	mgr := NewManager(store, accounts, notices, events)
	mgr.now = func() time.Time { return fixedNow }
	return fixture{mgr: mgr, store: store, accounts: accounts, notices: notices, events: events}
}

func (f fixture) signIn(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.accounts.Signup(ctx, validation.SignupForm{First: "Jane", Last: "Doe", Email: "jdoe@etsu.edu", Password: "p", Confirm: "p"})
	require.NoError(t, err)
	_, err = f.accounts.Login(ctx, "jdoe@etsu.edu", "p")
	require.NoError(t, err)
}

func TestSubmit_ResumeByExtension(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	art, err := f.mgr.Submit(ctx, records.KindResume, &validation.File{Name: "thesis.pdf", Type: "", Size: 1000})
	require.NoError(t, err)
	assert.Equal(t, "thesis.pdf", art.Filename)
	assert.Equal(t, records.StatusPending, art.Status)
	assert.Equal(t, "3/14/2025, 3:09:26 PM", art.UpdatedAt)

	rec, err := f.store.Get(ctx, "jdoe@etsu.edu")
	require.NoError(t, err)
	require.NotNil(t, rec.Resume)
	assert.Equal(t, art, *rec.Resume)
	assert.Nil(t, rec.Video, "kinds are independent")

	n, ok := f.notices.Current()
	require.True(t, ok)
	assert.Equal(t, "Resume uploaded successfully and sent for review.", n.Message)

	require.Len(t, f.events.msgs, 1)
	assert.Equal(t, queue.TypeArtifactSubmitted, f.events.msgs[0].Type)
	assert.Equal(t, "resume", f.events.msgs[0].Kind)
}

func TestSubmit_TooLargeLeavesRecordAlone(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	_, err := f.mgr.Submit(ctx, records.KindResume, &validation.File{Name: "thesis.pdf", Type: "application/pdf", Size: 3 * 1024 * 1024})
	require.ErrorIs(t, err, validation.ErrTooLarge)

	rec, err := f.store.Get(ctx, "jdoe@etsu.edu")
	require.NoError(t, err)
	assert.Nil(t, rec.Resume)
	assert.Empty(t, f.events.msgs)
}

func TestSubmit_OverwritesApprovedArtifact(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	rec, _ := f.store.Get(ctx, "jdoe@etsu.edu")
	rec.Video = &records.Artifact{Filename: "old.mp4", Status: records.StatusApproved, UpdatedAt: "1/1/2025, 9:00:00 AM"}
	require.NoError(t, f.store.Upsert(ctx, rec))

	art, err := f.mgr.Submit(ctx, records.KindVideo, &validation.File{Name: "new.mp4", Size: 10})
	require.NoError(t, err)
	assert.Equal(t, records.StatusPending, art.Status)

	rec, _ = f.store.Get(ctx, "jdoe@etsu.edu")
	assert.Equal(t, "new.mp4", rec.Video.Filename)
	assert.Equal(t, records.StatusPending, rec.Video.Status)
}

func TestSubmit_SessionExpiredBeforeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// no session, and no file: session loss wins
	_, err := f.mgr.Submit(ctx, records.KindResume, nil)
	require.ErrorIs(t, err, validation.ErrSessionExpired)
}

func TestSubmit_ValidationBeforeUserLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SetSession(ctx, "ghost@etsu.edu"))

	_, err := f.mgr.Submit(ctx, records.KindResume, nil)
	require.ErrorIs(t, err, validation.ErrNoFileChosen)
	_, ok, _ := f.store.Session(ctx)
	assert.True(t, ok, "pointer untouched by a validation failure")

	_, err = f.mgr.Submit(ctx, records.KindResume, &validation.File{Name: "a.pdf", Size: 1})
	require.ErrorIs(t, err, validation.ErrUserNotFound)
	_, ok, _ = f.store.Session(ctx)
	assert.False(t, ok, "dangling pointer cleared")

	st, err := f.accounts.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, account.Unauthenticated, st.Phase)
}

func TestCancel_PendingThenNoop(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()

	_, err := f.mgr.Submit(ctx, records.KindResume, &validation.File{Name: "thesis.pdf", Size: 1000})
	require.NoError(t, err)

	changed, err := f.mgr.Cancel(ctx, records.KindResume)
	require.NoError(t, err)
	assert.True(t, changed)

	rec, _ := f.store.Get(ctx, "jdoe@etsu.edu")
	assert.Nil(t, rec.Resume)

	n, ok := f.notices.Current()
	require.True(t, ok)
	assert.Equal(t, "Resume upload cancelled.", n.Message)

	changed, err = f.mgr.Cancel(ctx, records.KindResume)
	require.NoError(t, err)
	assert.False(t, changed)

	require.Len(t, f.events.msgs, 2)
	assert.Equal(t, queue.TypeArtifactCancelled, f.events.msgs[1].Type)
	assert.Equal(t, "thesis.pdf", f.events.msgs[1].Filename)
}

func TestCancel_NeverClearsReviewedArtifacts(t *testing.T) {
	for _, status := range []records.Status{records.StatusApproved, records.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			f.signIn(t)
			ctx := context.Background()

			rec, _ := f.store.Get(ctx, "jdoe@etsu.edu")
			rec.Resume = &records.Artifact{Filename: "cv.pdf", Status: status, UpdatedAt: "x"}
			require.NoError(t, f.store.Upsert(ctx, rec))

			changed, err := f.mgr.Cancel(ctx, records.KindResume)
			require.NoError(t, err)
			assert.False(t, changed)

			rec, _ = f.store.Get(ctx, "jdoe@etsu.edu")
			require.NotNil(t, rec.Resume)
			assert.Equal(t, status, rec.Resume.Status)
			assert.Empty(t, f.events.msgs)
		})
	}
}

func TestCancel_SessionErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.mgr.Cancel(ctx, records.KindVideo)
	require.ErrorIs(t, err, validation.ErrSessionExpired)

	require.NoError(t, f.store.SetSession(ctx, "ghost@etsu.edu"))
	_, err = f.mgr.Cancel(ctx, records.KindVideo)
	require.ErrorIs(t, err, validation.ErrUserNotFound)

	_, err = f.mgr.Cancel(ctx, records.Kind("transcript"))
	require.ErrorIs(t, err, records.ErrUnknownKind)
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.events.err = errors.New("redis down")

	_, err := f.mgr.Submit(context.Background(), records.KindVideo, &validation.File{Name: "intro.mp4", Size: 1})
	require.NoError(t, err)
}
