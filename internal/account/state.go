// Package account is the session state machine: it decides whether a visitor
// is signed in, which record is current and which dashboard tab is shown.
package account

import (
	"errors"
	"fmt"
	"strings"

	"careerfolio/internal/records"
)

// Phase is the top-level session state.
type Phase int

const (
	Unauthenticated Phase = iota
	Authenticated
)

func (p Phase) String() string {
	if p == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Tab is a dashboard panel.
type Tab string

const (
	TabProgress  Tab = "progress"
	TabAnalytics Tab = "analytics"
	TabInbox     Tab = "inbox"
)

// DefaultTab is selected every time the dashboard is entered.
const DefaultTab = TabProgress

// ErrUnknownTab is returned by ParseTab.
var ErrUnknownTab = errors.New("unknown tab")

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	switch t := Tab(strings.ToLower(strings.TrimSpace(s))); t {
	case TabProgress, TabAnalytics, TabInbox:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// State is Unauthenticated, or Authenticated with the current record and tab.
// User and Tab are zero when Phase is Unauthenticated.
type State struct {
	Phase Phase
	User  records.UserRecord
	Tab   Tab
}

func signedOut() State { return State{Phase: Unauthenticated} }

func signedIn(u records.UserRecord, tab Tab) State {
	return State{Phase: Authenticated, User: u, Tab: tab}
}
