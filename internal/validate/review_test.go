package validate

import "testing"

func TestCheckReview(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"valid", "Great vehicle, would buy again.", true},
		{"exactly ten chars", "0123456789", true},
		{"empty", "", false},
		{"whitespace only", "    \t  ", false},
		{"too short", "Nice car", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			form := ReviewForm{Text: tc.input}
			result := CheckReview(&form)
			if result.Ok() != tc.ok {
				t.Errorf("input %q: ok=%v want %v (errors %v)", tc.input, result.Ok(), tc.ok, result.Errors)
			}
		})
	}
}

func TestCheckReview_EscapesMarkup(t *testing.T) {
	form := ReviewForm{Text: "<b>best</b> truck I have ever owned"}
	result := CheckReview(&form)
	if !result.Ok() {
		t.Fatalf("expected ok, got errors: %v", result.Errors)
	}
	if form.Text != "&lt;b&gt;best&lt;/b&gt; truck I have ever owned" {
		t.Errorf("markup not escaped: %q", form.Text)
	}
	if result.Values["review_text"] != form.Text {
		t.Errorf("sticky value mismatch: %q", result.Values["review_text"])
	}
}
