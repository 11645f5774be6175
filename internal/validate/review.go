package validate

import "strings"

// ReviewForm carries the review text after normalization.
type ReviewForm struct {
	Text string
}

// CheckReview runs the review rule set. The author and vehicle ids are
// not part of the rule set: the controller derives the author from the
// session and resolves the vehicle itself.
func CheckReview(f *ReviewForm) *Result {
	f.Text = normalizeText(f.Text)

	result := &Result{}
	result.setValue("review_text", f.Text)

	if f.Text == "" {
		result.AddError("review_text", "Please write a review.")
	} else if len(strings.TrimSpace(f.Text)) < 10 {
		result.AddError("review_text", "Review must be at least 10 characters long.")
	}

	return result
}
