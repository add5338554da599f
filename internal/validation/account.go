package validation

import (
	"fmt"
	"strings"

	"careerfolio/internal/records"
)

// DefaultDomain is the institutional suffix every account email must carry.
const DefaultDomain = "@etsu.edu"

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SignupForm is the raw signup input.
type SignupForm struct {
	First    string
	Last     string
	Email    string
	Password string
	Confirm  string
}

// Policy carries the institution-specific signup rules.
type Policy struct {
	domain string
	label  string
}

// NewPolicy builds a policy for domain, e.g. "@etsu.edu" or "etsu.edu".
func NewPolicy(domain string) Policy {
	d := NormalizeEmail(domain)
	if d == "" {
		d = DefaultDomain
	}
	if !strings.HasPrefix(d, "@") {
		d = "@" + d
	}
	label := strings.ToUpper(strings.SplitN(strings.TrimPrefix(d, "@"), ".", 2)[0])
	return Policy{domain: d, label: label}
}

// Domain is the required email suffix, including the "@".
func (p Policy) Domain() string { return p.domain }

func (p Policy) wrongDomain() error {
	return &Error{
		Reason:  ReasonWrongDomain,
		Message: fmt.Sprintf("You must use an %s email ending in %s.", p.label, p.domain),
	}
}

// ValidateSignup checks the form and returns it normalised. The order of the
// checks is fixed: names, domain, password confirmation, then uniqueness,
// which is last because exists usually reads the store.
func (p Policy) ValidateSignup(form SignupForm, exists func(email string) bool) (SignupForm, error) {
	form.First = strings.TrimSpace(form.First)
	form.Last = strings.TrimSpace(form.Last)
	form.Email = NormalizeEmail(form.Email)

	if form.First == "" || form.Last == "" {
		return form, ErrEmptyName
	}
	if !strings.HasSuffix(form.Email, p.domain) {
		return form, p.wrongDomain()
	}
	if form.Password != form.Confirm {
		return form, ErrPasswordMismatch
	}
	if exists != nil && exists(form.Email) {
		return form, ErrEmailTaken
	}
	return form, nil
}

// ValidateLogin finds the account for email and compares the password verbatim.
func ValidateLogin(email, password string, all []records.UserRecord) (records.UserRecord, error) {
	i := records.Find(all, NormalizeEmail(email))
	if i < 0 {
		return records.UserRecord{}, ErrNoSuchAccount
	}
	if all[i].Password != password {
		return records.UserRecord{}, ErrWrongPassword
	}
	return all[i], nil
}
