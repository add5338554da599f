package validation

import (
	"fmt"
	"strings"

	"careerfolio/internal/records"
)

// File is the metadata a client reports for a chosen file.
type File struct {
	Name string
	Type string
	Size int64
}

// Rule constrains the files accepted for one artifact kind.
type Rule struct {
	MIMEType  string
	Extension string
	MaxBytes  int64
	Format    string // "PDF"
	Noun      string // "resumes"
}

var rules = map[records.Kind]Rule{
	records.KindResume: {MIMEType: "application/pdf", Extension: ".pdf", MaxBytes: 2 * 1024 * 1024, Format: "PDF", Noun: "resumes"},
	records.KindVideo:  {MIMEType: "video/mp4", Extension: ".mp4", MaxBytes: 50 * 1024 * 1024, Format: "MP4", Noun: "videos"},
}

// Accepts reports whether f matches the rule's type. Browsers often report an
// empty or generic type, so a matching extension is enough on its own.
func (r Rule) Accepts(f File) bool {
	byType := f.Type == r.MIMEType
	byName := strings.HasSuffix(strings.ToLower(f.Name), r.Extension)
	return byType || byName
}

// RuleFor returns the upload constraints for kind.
func RuleFor(kind records.Kind) (Rule, bool) {
	r, ok := rules[kind]
	return r, ok
}

// ValidateUpload checks presence, then type, then size. A nil file means none was chosen.
func ValidateUpload(f *File, kind records.Kind) error {
	rule, ok := RuleFor(kind)
	if !ok {
		return fmt.Errorf("%w: %q", records.ErrUnknownKind, kind)
	}
	article := "a"
	if strings.HasPrefix(rule.Format, "M") {
		article = "an"
	}
	if f == nil || f.Name == "" {
		return &Error{ReasonNoFileChosen, fmt.Sprintf("Please choose %s %s file before submitting.", article, rule.Format)}
	}
	if !rule.Accepts(*f) {
		return &Error{ReasonWrongType, fmt.Sprintf("Only %s %s are allowed.", rule.Format, rule.Noun)}
	}
	if f.Size > rule.MaxBytes {
		return rule.tooLarge()
	}
	return nil
}

// TooLarge is the TooLarge failure for kind, for bodies rejected before
// their metadata could be read.
func TooLarge(kind records.Kind) error {
	rule, ok := RuleFor(kind)
	if !ok {
		return fmt.Errorf("%w: %q", records.ErrUnknownKind, kind)
	}
	return rule.tooLarge()
}

func (r Rule) tooLarge() error {
	return &Error{ReasonTooLarge, fmt.Sprintf("File is too large. Maximum allowed size is %d MB.", r.MaxBytes/(1024*1024))}
}
