// Package validation holds the pure checks run on form input before any
// state changes: signup, login and upload metadata.
package validation

// Reason is the machine-readable code of a validation failure.
type Reason string

const (
	ReasonEmptyName        Reason = "empty_name"
	ReasonWrongDomain      Reason = "wrong_domain"
	ReasonPasswordMismatch Reason = "password_mismatch"
	ReasonEmailTaken       Reason = "email_taken"
	ReasonNoSuchAccount    Reason = "no_such_account"
	ReasonWrongPassword    Reason = "wrong_password"
	ReasonNoFileChosen     Reason = "no_file_chosen"
	ReasonWrongType        Reason = "wrong_type"
	ReasonTooLarge         Reason = "too_large"
	ReasonSessionExpired   Reason = "session_expired"
	ReasonUserNotFound     Reason = "user_not_found"
)

// Error is a user-facing failure: a reason code and the fixed message shown next to the form.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string { return e.Message }

// ReasonCode is the reason as a plain string, used for metric labels.
func (e *Error) ReasonCode() string { return string(e.Reason) }

// Is matches on Reason so errors.Is works against the sentinels below even
// when the message was specialised (domain, artifact kind).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Reason == e.Reason
}

var (
	ErrEmptyName        = &Error{ReasonEmptyName, "Please enter your first and last name."}
	ErrWrongDomain      = &Error{ReasonWrongDomain, "You must use an institutional email address."}
	ErrPasswordMismatch = &Error{ReasonPasswordMismatch, "Passwords do not match."}
	ErrEmailTaken       = &Error{ReasonEmailTaken, "An account with this email already exists. Please log in."}
	ErrNoSuchAccount    = &Error{ReasonNoSuchAccount, "No account found for this email. Please create an account first."}
	ErrWrongPassword    = &Error{ReasonWrongPassword, "Incorrect password. Please try again."}
	ErrNoFileChosen     = &Error{ReasonNoFileChosen, "Please choose a file before submitting."}
	ErrWrongType        = &Error{ReasonWrongType, "This file type is not allowed."}
	ErrTooLarge         = &Error{ReasonTooLarge, "File is too large."}
	ErrSessionExpired   = &Error{ReasonSessionExpired, "Your session has expired. Please log in again."}
	ErrUserNotFound     = &Error{ReasonUserNotFound, "User not found. Please log in again."}
)
