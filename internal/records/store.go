package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"careerfolio/internal/kv"
	"careerfolio/internal/logging"
)

const (
	usersSlot   = "users"
	sessionSlot = "current_user"
)

// ErrNotFound is returned by Get when no record has the email.
var ErrNotFound = errors.New("record not found")

// Store reads and writes the record set and the session pointer.
// Every mutation is read-all, mutate-one, write-all; concurrent writers in
// other processes can clobber each other (last writer wins).
type Store struct {
	kv     kv.Store
	prefix string
}

// NewStore creates a store whose slots are named prefix+"users" and prefix+"current_user".
func NewStore(backend kv.Store, prefix string) *Store {
	return &Store{kv: backend, prefix: prefix}
}

// UsersKey is the full key of the record set slot.
func (s *Store) UsersKey() string { return s.prefix + usersSlot }

// SessionKey is the full key of the session pointer slot.
func (s *Store) SessionKey() string { return s.prefix + sessionSlot }

// LoadAll returns the record set. A missing or unparseable slot is an empty set.
func (s *Store) LoadAll(ctx context.Context) ([]UserRecord, error) {
	raw, err := s.kv.Get(ctx, s.UsersKey())
	if errors.Is(err, kv.ErrNotFound) {
		return []UserRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	var out []UserRecord
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		logging.FromContext(ctx).Warn("record set unparseable, treating as empty", "key", s.UsersKey(), "err", err)
		return []UserRecord{}, nil
	}
	if out == nil {
		out = []UserRecord{}
	}
	return out, nil
}

// SaveAll overwrites the record set.
func (s *Store) SaveAll(ctx context.Context, records []UserRecord) error {
	if records == nil {
		records = []UserRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.kv.Set(ctx, s.UsersKey(), string(data)); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}

// Get returns the record with email.
func (s *Store) Get(ctx context.Context, email string) (UserRecord, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return UserRecord{}, err
	}
	if i := Find(all, email); i >= 0 {
		return all[i], nil
	}
	return UserRecord{}, ErrNotFound
}

// Upsert replaces the record with the same email in place, or appends it.
func (s *Store) Upsert(ctx context.Context, rec UserRecord) error {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	if i := Find(all, rec.Email); i >= 0 {
		all[i] = rec
	} else {
		all = append(all, rec)
	}
	return s.SaveAll(ctx, all)
}

// Delete removes the record with email. Missing records are ignored.
func (s *Store) Delete(ctx context.Context, email string) error {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	i := Find(all, email)
	if i < 0 {
		return nil
	}
	all = append(all[:i], all[i+1:]...)
	return s.SaveAll(ctx, all)
}

// SetSession points the session at email.
func (s *Store) SetSession(ctx context.Context, email string) error {
	if err := s.kv.Set(ctx, s.SessionKey(), email); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Session returns the session pointer and whether one is set.
func (s *Store) Session(ctx context.Context) (string, bool, error) {
	email, err := s.kv.Get(ctx, s.SessionKey())
	if errors.Is(err, kv.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get session: %w", err)
	}
	return email, email != "", nil
}

// ClearSession removes the session pointer.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.SessionKey()); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Healthy reports whether the backing store is reachable.
func (s *Store) Healthy(ctx context.Context) bool {
	return s.kv.Healthy(ctx)
}
