package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerfolio/internal/records"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jdoe@etsu.edu", NormalizeEmail("  JDOE@ETSU.EDU \t"))
}

func TestNewPolicy(t *testing.T) {
	assert.Equal(t, "@etsu.edu", NewPolicy("").Domain())
	assert.Equal(t, "@etsu.edu", NewPolicy("ETSU.edu").Domain())
	assert.Equal(t, "@mail.example.org", NewPolicy("@mail.example.org").Domain())
}

func TestValidateSignup(t *testing.T) {
	p := NewPolicy("@etsu.edu")
	taken := func(email string) bool { return email == "taken@etsu.edu" }

	valid := SignupForm{First: "Jane", Last: "Doe", Email: "jane@etsu.edu", Password: "p", Confirm: "p"}

	tests := []struct {
		name   string
		mutate func(f *SignupForm)
		want   error
	}{
		{"ok", func(f *SignupForm) {}, nil},
		{"blank first", func(f *SignupForm) { f.First = "   " }, ErrEmptyName},
		{"blank last", func(f *SignupForm) { f.Last = "" }, ErrEmptyName},
		{"gmail", func(f *SignupForm) { f.Email = "jane@gmail.com" }, ErrWrongDomain},
		{"lookalike suffix", func(f *SignupForm) { f.Email = "jane@etsu.edu.evil.com" }, ErrWrongDomain},
		{"mismatch", func(f *SignupForm) { f.Confirm = "q" }, ErrPasswordMismatch},
		{"taken", func(f *SignupForm) { f.Email = "taken@etsu.edu" }, ErrEmailTaken},
		{"taken upper case", func(f *SignupForm) { f.Email = "TAKEN@ETSU.EDU" }, ErrEmailTaken},
		// order: names win over everything else
		{"empty name and bad domain", func(f *SignupForm) { f.First = ""; f.Email = "x@gmail.com" }, ErrEmptyName},
		{"bad domain and mismatch", func(f *SignupForm) { f.Email = "x@gmail.com"; f.Confirm = "z" }, ErrWrongDomain},
		{"mismatch and taken", func(f *SignupForm) { f.Email = "taken@etsu.edu"; f.Confirm = "z" }, ErrPasswordMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := valid
			tc.mutate(&f)
			_, err := p.ValidateSignup(f, taken)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateSignup_WrongDomainForAnySuffix(t *testing.T) {
	p := NewPolicy("@etsu.edu")
	for _, email := range []string{"a@etsu.com", "a@ETSU.EDU.net", "etsu.edu@gmail.com", "a", ""} {
		_, err := p.ValidateSignup(SignupForm{First: "A", Last: "B", Email: email, Password: "p", Confirm: "p"}, nil)
		assert.ErrorIs(t, err, ErrWrongDomain, email)
	}
}

func TestValidateSignup_NormalisesAndDoesNotCheckUniquenessEarly(t *testing.T) {
	p := NewPolicy("@etsu.edu")
	calls := 0
	exists := func(string) bool { calls++; return false }

	_, err := p.ValidateSignup(SignupForm{First: "", Last: "Doe", Email: "jdoe@etsu.edu"}, exists)
	require.ErrorIs(t, err, ErrEmptyName)
	assert.Zero(t, calls)

	form, err := p.ValidateSignup(SignupForm{First: " Jane ", Last: "Doe", Email: "JDOE@ETSU.EDU", Password: "p", Confirm: "p"}, exists)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Jane", form.First)
	assert.Equal(t, "jdoe@etsu.edu", form.Email)
}

func TestWrongDomainMessageNamesDomain(t *testing.T) {
	_, err := NewPolicy("@etsu.edu").ValidateSignup(SignupForm{First: "A", Last: "B", Email: "a@b.c"}, nil)
	assert.EqualError(t, err, "You must use an ETSU email ending in @etsu.edu.")
}

func TestValidateLogin(t *testing.T) {
	all := []records.UserRecord{{Email: "jdoe@etsu.edu", Password: "p", First: "Jane"}}

	rec, err := ValidateLogin(" JDoe@etsu.edu", "p", all)
	require.NoError(t, err)
	assert.Equal(t, "Jane", rec.First)

	_, err = ValidateLogin("nobody@etsu.edu", "p", all)
	assert.ErrorIs(t, err, ErrNoSuchAccount)

	_, err = ValidateLogin("jdoe@etsu.edu", "P", all)
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name string
		file *File
		kind records.Kind
		want error
	}{
		{"no file", nil, records.KindResume, ErrNoFileChosen},
		{"empty name", &File{}, records.KindResume, ErrNoFileChosen},
		{"pdf by extension only", &File{Name: "thesis.pdf", Type: "", Size: 1000}, records.KindResume, nil},
		{"pdf by upper extension", &File{Name: "THESIS.PDF", Type: "application/octet-stream", Size: 1000}, records.KindResume, nil},
		{"pdf by type only", &File{Name: "thesis.bin", Type: "application/pdf", Size: 1000}, records.KindResume, nil},
		{"neither", &File{Name: "thesis.docx", Type: "application/msword", Size: 1000}, records.KindResume, ErrWrongType},
		{"resume at ceiling", &File{Name: "a.pdf", Size: 2097152}, records.KindResume, nil},
		{"resume over ceiling", &File{Name: "a.pdf", Size: 2097153}, records.KindResume, ErrTooLarge},
		{"resume 3MiB by name", &File{Name: "a.pdf", Size: 3 * 1024 * 1024}, records.KindResume, ErrTooLarge},
		{"resume 3MiB by type", &File{Name: "a", Type: "application/pdf", Size: 3 * 1024 * 1024}, records.KindResume, ErrTooLarge},
		{"video fits", &File{Name: "intro.mp4", Size: 3 * 1024 * 1024}, records.KindVideo, nil},
		{"video by type", &File{Name: "intro", Type: "video/mp4", Size: 10}, records.KindVideo, nil},
		{"video at ceiling", &File{Name: "intro.mp4", Size: 52428800}, records.KindVideo, nil},
		{"video over ceiling", &File{Name: "intro.mp4", Size: 52428801}, records.KindVideo, ErrTooLarge},
		{"pdf as video", &File{Name: "intro.pdf", Type: "application/pdf", Size: 10}, records.KindVideo, ErrWrongType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUpload(tc.file, tc.kind)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateUpload_Messages(t *testing.T) {
	assert.EqualError(t, ValidateUpload(nil, records.KindResume), "Please choose a PDF file before submitting.")
	assert.EqualError(t, ValidateUpload(nil, records.KindVideo), "Please choose an MP4 file before submitting.")
	assert.EqualError(t, ValidateUpload(&File{Name: "a.txt"}, records.KindResume), "Only PDF resumes are allowed.")
	assert.EqualError(t, ValidateUpload(&File{Name: "a.pdf", Size: 3 << 20}, records.KindResume), "File is too large. Maximum allowed size is 2 MB.")
	assert.EqualError(t, ValidateUpload(&File{Name: "a.mp4", Size: 51 << 20}, records.KindVideo), "File is too large. Maximum allowed size is 50 MB.")
}

func TestValidateUpload_UnknownKind(t *testing.T) {
	err := ValidateUpload(&File{Name: "a.pdf"}, records.Kind("transcript"))
	assert.ErrorIs(t, err, records.ErrUnknownKind)
	var verr *Error
	assert.False(t, errors.As(err, &verr))
}

func TestRuleFor(t *testing.T) {
	r, ok := RuleFor(records.KindResume)
	require.True(t, ok)
	assert.Equal(t, int64(2*1024*1024), r.MaxBytes)

	// callers get a copy; the ceiling stays put
	r.MaxBytes = 1 << 40
	again, _ := RuleFor(records.KindResume)
	assert.Equal(t, int64(2*1024*1024), again.MaxBytes)

	v, ok := RuleFor(records.KindVideo)
	require.True(t, ok)
	assert.Equal(t, int64(50*1024*1024), v.MaxBytes)

	_, ok = RuleFor(records.Kind("transcript"))
	assert.False(t, ok)
}

func TestTooLarge(t *testing.T) {
	err := TooLarge(records.KindVideo)
	require.ErrorIs(t, err, ErrTooLarge)
	assert.EqualError(t, err, "File is too large. Maximum allowed size is 50 MB.")

	assert.ErrorIs(t, TooLarge(records.Kind("transcript")), records.ErrUnknownKind)
}
