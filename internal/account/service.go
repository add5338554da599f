package account

import (
	"context"
	"errors"

	"careerfolio/internal/logging"
	"careerfolio/internal/metrics"
	"careerfolio/internal/notify"
	"careerfolio/internal/records"
	"careerfolio/internal/validation"
)

// SignupSucceeded is the notice raised after an account is created.
const SignupSucceeded = "Account created successfully. You can now log in."

// Service drives the session state machine over the record store.
// It is not safe for concurrent use; callers serialise events.
type Service struct {
	store   *records.Store
	policy  validation.Policy
	notices *notify.Notifier
	tab     Tab
}

// NewService creates an account service.
func NewService(store *records.Store, policy validation.Policy, notices *notify.Notifier) *Service {
	return &Service{store: store, policy: policy, notices: notices, tab: DefaultTab}
}

// Signup validates the form and appends a new record. It never signs the
// new account in.
func (s *Service) Signup(ctx context.Context, form validation.SignupForm) (records.UserRecord, error) {
	var (
		all     []records.UserRecord
		loadErr error
	)
	exists := func(email string) bool {
		all, loadErr = s.store.LoadAll(ctx)
		return loadErr == nil && records.Find(all, email) >= 0
	}

	form, err := s.policy.ValidateSignup(form, exists)
	if loadErr != nil {
		err = loadErr
	}
	if err != nil {
		metrics.Signups.WithLabelValues(metrics.Result(err)).Inc()
		return records.UserRecord{}, err
	}

	rec := records.UserRecord{
		Email:    form.Email,
		First:    form.First,
		Last:     form.Last,
		Password: form.Password,
	}
	if err := s.store.SaveAll(ctx, append(all, rec)); err != nil {
		metrics.Signups.WithLabelValues("error").Inc()
		return records.UserRecord{}, err
	}

	metrics.Signups.WithLabelValues("ok").Inc()
	if s.notices != nil {
		s.notices.Show(SignupSucceeded, notify.LevelSuccess)
	}
	logging.FromContext(ctx).Info("account created", "email", rec.Email)
	return rec, nil
}

// Login checks the credentials, persists the session pointer and enters the
// dashboard on the default tab.
func (s *Service) Login(ctx context.Context, email, password string) (State, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return signedOut(), err
	}
	rec, err := validation.ValidateLogin(email, password, all)
	if err != nil {
		metrics.Logins.WithLabelValues(metrics.Result(err)).Inc()
		return signedOut(), err
	}
	if err := s.store.SetSession(ctx, rec.Email); err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return signedOut(), err
	}
	s.tab = DefaultTab
	metrics.Logins.WithLabelValues("ok").Inc()
	logging.FromContext(ctx).Info("signed in", "email", rec.Email)
	return signedIn(rec, s.tab), nil
}

// Logout clears the session pointer.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.ClearSession(ctx); err != nil {
		return err
	}
	s.tab = DefaultTab
	return nil
}

// Restore resolves the persisted session on process start. A pointer to a
// missing record is cleared.
func (s *Service) Restore(ctx context.Context) (State, error) {
	st, err := s.Current(ctx)
	if err != nil || st.Phase != Authenticated {
		return st, err
	}
	s.tab = DefaultTab
	st.Tab = s.tab
	return st, nil
}

// Current re-reads the session pointer and its record. A dangling pointer is
// cleared and reported as the Unauthenticated state.
func (s *Service) Current(ctx context.Context) (State, error) {
	st, err := s.resolve(ctx)
	if errors.Is(err, validation.ErrUserNotFound) {
		return st, nil
	}
	return st, err
}

// resolve is Current, but returns ErrUserNotFound after ending a session
// whose record is gone.
func (s *Service) resolve(ctx context.Context) (State, error) {
	email, ok, err := s.store.Session(ctx)
	if err != nil {
		return signedOut(), err
	}
	if !ok {
		return signedOut(), nil
	}
	rec, err := s.store.Get(ctx, email)
	if errors.Is(err, records.ErrNotFound) {
		if err := s.Invalidate(ctx, validation.ErrUserNotFound); err != nil {
			return signedOut(), err
		}
		return signedOut(), validation.ErrUserNotFound
	}
	if err != nil {
		return signedOut(), err
	}
	return signedIn(rec, s.tab), nil
}

// SelectTab switches the dashboard panel. Only valid while signed in.
func (s *Service) SelectTab(ctx context.Context, tab Tab) (State, error) {
	st, err := s.resolve(ctx)
	if err != nil {
		return st, err
	}
	if st.Phase != Authenticated {
		return st, validation.ErrSessionExpired
	}
	s.tab = tab
	st.Tab = tab
	return st, nil
}

// SessionEmail returns the session pointer for an action that requires a
// signed-in account. A missing pointer ends the session with a notice.
func (s *Service) SessionEmail(ctx context.Context) (string, error) {
	email, ok, err := s.store.Session(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		if err := s.Invalidate(ctx, validation.ErrSessionExpired); err != nil {
			return "", err
		}
		return "", validation.ErrSessionExpired
	}
	return email, nil
}

// Invalidate clears the session after it was found to be missing or dangling
// and raises cause as an error notice.
func (s *Service) Invalidate(ctx context.Context, cause error) error {
	metrics.SessionsExpired.Inc()
	logging.FromContext(ctx).Warn("session invalidated", "reason", metrics.Result(cause))
	s.tab = DefaultTab
	if s.notices != nil && cause != nil {
		s.notices.Show(cause.Error(), notify.LevelError)
	}
	return s.store.ClearSession(ctx)
}
