// Package view turns session state into what a client displays. Render is
// pure: no store access and no side effects.
package view

import (
	"careerfolio/internal/account"
	"careerfolio/internal/notify"
	"careerfolio/internal/records"
)

const (
	SectionAuth      = "auth"
	SectionDashboard = "dashboard"
)

// Placeholders shown for an empty artifact slot.
const (
	NoneUploaded = "None uploaded"
	NotAvailable = "N/A"
)

// Artifact is one artifact slot as displayed.
type Artifact struct {
	Kind       string `json:"kind"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	UpdatedAt  string `json:"updated_at"`
	Uploaded   bool   `json:"uploaded"`
	Cancelable bool   `json:"cancelable"`
}

// View is the full screen model.
type View struct {
	Section   string         `json:"section"`
	Welcome   string         `json:"welcome,omitempty"`
	Tab       string         `json:"tab,omitempty"`
	Artifacts []Artifact     `json:"artifacts,omitempty"`
	Notice    *notify.Notice `json:"notice,omitempty"`
}

// Render builds the view for st. notice may be nil.
func Render(st account.State, notice *notify.Notice) View {
	v := View{Section: SectionAuth, Notice: notice}
	if st.Phase != account.Authenticated {
		return v
	}

	v.Section = SectionDashboard
	v.Welcome = "Welcome, " + st.User.FullName()
	v.Tab = string(st.Tab)
	if v.Tab == "" {
		v.Tab = string(account.DefaultTab)
	}
	for _, kind := range records.Kinds {
		v.Artifacts = append(v.Artifacts, renderArtifact(kind, st.User.Artifact(kind)))
	}
	return v
}

func renderArtifact(kind records.Kind, a *records.Artifact) Artifact {
	if a == nil {
		return Artifact{Kind: string(kind), Filename: NoneUploaded, Status: NotAvailable, UpdatedAt: NotAvailable}
	}
	return Artifact{
		Kind:       string(kind),
		Filename:   a.Filename,
		Status:     string(a.Status),
		UpdatedAt:  a.UpdatedAt,
		Uploaded:   true,
		Cancelable: a.Status == records.StatusPending,
	}
}
