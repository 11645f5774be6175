// Package validate holds the per-form rule sets for every mutating route.
// Rules never change request data beyond normalization: trimming, email
// case-folding, and HTML-escaping of free-text fields before storage.
package validate

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

// FieldError describes a single failed rule on a named form field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the outcome of checking one form. An empty error list
// means the form passed and the controller may proceed; otherwise the
// originating view is re-rendered with the messages and sticky values.
type Result struct {
	Errors []FieldError
	Values map[string]string
}

// Ok reports whether every rule passed.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

// AddError appends a field-level error. Handlers use it to surface
// store-backed checks (e.g. email uniqueness) as ordinary form errors.
func (r *Result) AddError(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

func (r *Result) setValue(field, value string) {
	if r.Values == nil {
		r.Values = make(map[string]string)
	}
	r.Values[field] = value
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// normalizeText trims and HTML-escapes a free-text field so stored
// values cannot carry markup into rendered pages.
func normalizeText(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// normalizeEmail trims and case-folds an email address.
func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// strongPassword enforces the registration password policy: at least 12
// characters with at least one lowercase, uppercase, digit, and symbol.
func strongPassword(s string) bool {
	if len(s) < 12 {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
