// Package records holds the persisted account model and the store that reads
// and writes the whole record set.
package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the review state of an uploaded artifact.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Kind identifies which artifact slot of a record is addressed.
type Kind string

const (
	KindResume Kind = "resume"
	KindVideo  Kind = "video"
)

// ErrUnknownKind is returned by ParseKind for anything but resume or video.
var ErrUnknownKind = errors.New("unknown artifact kind")

// ParseKind maps a path segment to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindResume:
		return KindResume, nil
	case KindVideo:
		return KindVideo, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds lists every artifact slot in display order.
var Kinds = []Kind{KindResume, KindVideo}

// TimestampLayout matches the en-US toLocaleString rendering the record set has always used.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Artifact is the metadata of an uploaded file and its review status.
type Artifact struct {
	Filename  string `json:"filename"`
	Status    Status `json:"status"`
	UpdatedAt string `json:"updatedAt"`
}

// UserRecord is one account. Password is kept verbatim; this is a demo store.
type UserRecord struct {
	Email    string    `json:"email"`
	First    string    `json:"first"`
	Last     string    `json:"last"`
	Password string    `json:"password"`
	Resume   *Artifact `json:"resume"`
	Video    *Artifact `json:"video"`

	// extra keeps fields written by other tools so a rewrite never drops them.
	extra map[string]json.RawMessage
}

var knownFields = []string{"email", "first", "last", "password", "resume", "video"}

// Artifact returns the artifact stored under kind, or nil.
func (u *UserRecord) Artifact(kind Kind) *Artifact {
	switch kind {
	case KindResume:
		return u.Resume
	case KindVideo:
		return u.Video
	}
	return nil
}

// SetArtifact replaces the artifact stored under kind. nil removes it.
func (u *UserRecord) SetArtifact(kind Kind, a *Artifact) {
	switch kind {
	case KindResume:
		u.Resume = a
	case KindVideo:
		u.Video = a
	}
}

// FullName is "First Last".
func (u *UserRecord) FullName() string {
	return u.First + " " + u.Last
}

type plainRecord UserRecord

func (u UserRecord) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(plainRecord(u))
	if err != nil || len(u.extra) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range u.extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

func (u *UserRecord) UnmarshalJSON(data []byte) error {
	var p plainRecord
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range knownFields {
		delete(raw, k)
	}
	p.extra = nil
	if len(raw) > 0 {
		p.extra = raw
	}
	*u = UserRecord(p)
	return nil
}

// Find returns the index of the record with email, or -1.
func Find(records []UserRecord, email string) int {
	for i := range records {
		if records[i].Email == email {
			return i
		}
	}
	return -1
}
