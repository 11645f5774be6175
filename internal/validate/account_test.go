package validate

import "testing"

func hasFieldError(result *Result, field string) bool {
	for _, e := range result.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestCheckRegistration_Valid(t *testing.T) {
	form := RegistrationForm{
		FirstName: "  Jane ",
		LastName:  "Doe",
		Email:     "Jane@Example.COM ",
		Password:  "Sup3r$ecretPass",
	}

	result := CheckRegistration(&form)
	if !result.Ok() {
		t.Fatalf("expected ok, got errors: %v", result.Errors)
	}
	if form.FirstName != "Jane" {
		t.Errorf("first name not trimmed: %q", form.FirstName)
	}
	if form.Email != "jane@example.com" {
		t.Errorf("email not case-folded: %q", form.Email)
	}
	if result.Values["account_email"] != "jane@example.com" {
		t.Errorf("sticky email mismatch: %q", result.Values["account_email"])
	}
	if _, ok := result.Values["account_password"]; ok {
		t.Error("password must never appear in sticky values")
	}
}

func TestCheckRegistration_Failures(t *testing.T) {
	tests := []struct {
		name  string
		form  RegistrationForm
		field string
	}{
		{"missing first name", RegistrationForm{LastName: "Doe", Email: "a@b.com", Password: "Sup3r$ecretPass"}, "account_firstname"},
		{"short last name", RegistrationForm{FirstName: "J", LastName: "D", Email: "a@b.com", Password: "Sup3r$ecretPass"}, "account_lastname"},
		{"bad email", RegistrationForm{FirstName: "J", LastName: "Doe", Email: "not-an-email", Password: "Sup3r$ecretPass"}, "account_email"},
		{"short password", RegistrationForm{FirstName: "J", LastName: "Doe", Email: "a@b.com", Password: "Ab1$"}, "account_password"},
		{"no uppercase", RegistrationForm{FirstName: "J", LastName: "Doe", Email: "a@b.com", Password: "sup3r$ecretpass"}, "account_password"},
		{"no digit", RegistrationForm{FirstName: "J", LastName: "Doe", Email: "a@b.com", Password: "Super$ecretPass"}, "account_password"},
		{"no symbol", RegistrationForm{FirstName: "J", LastName: "Doe", Email: "a@b.com", Password: "Sup3rSecretPass"}, "account_password"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := CheckRegistration(&tc.form)
			if result.Ok() {
				t.Fatal("expected validation failure")
			}
			if !hasFieldError(result, tc.field) {
				t.Errorf("expected error on %q, got %v", tc.field, result.Errors)
			}
		})
	}
}

func TestCheckRegistration_EscapesMarkup(t *testing.T) {
	form := RegistrationForm{
		FirstName: "<script>alert(1)</script>",
		LastName:  "Doe",
		Email:     "a@b.com",
		Password:  "Sup3r$ecretPass",
	}

	result := CheckRegistration(&form)
	if !result.Ok() {
		t.Fatalf("expected ok, got errors: %v", result.Errors)
	}
	if form.FirstName != "&lt;script&gt;alert(1)&lt;/script&gt;" {
		t.Errorf("markup not escaped: %q", form.FirstName)
	}
}

func TestCheckLogin(t *testing.T) {
	form := LoginForm{Email: " User@Example.com", Password: "whatever"}
	result := CheckLogin(&form)
	if !result.Ok() {
		t.Fatalf("expected ok, got errors: %v", result.Errors)
	}
	if form.Email != "user@example.com" {
		t.Errorf("email not normalized: %q", form.Email)
	}

	bad := LoginForm{Email: "nope", Password: ""}
	result = CheckLogin(&bad)
	if !hasFieldError(result, "account_email") || !hasFieldError(result, "account_password") {
		t.Errorf("expected email and password errors, got %v", result.Errors)
	}
}

func TestCheckAccountUpdate(t *testing.T) {
	form := AccountUpdateForm{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
	if result := CheckAccountUpdate(&form); !result.Ok() {
		t.Fatalf("expected ok, got errors: %v", result.Errors)
	}

	bad := AccountUpdateForm{FirstName: "", LastName: "D", Email: "broken"}
	result := CheckAccountUpdate(&bad)
	if len(result.Errors) != 3 {
		t.Errorf("expected 3 errors, got %v", result.Errors)
	}
}

func TestCheckPasswordUpdate(t *testing.T) {
	if result := CheckPasswordUpdate("Sup3r$ecretPass"); !result.Ok() {
		t.Fatalf("expected ok, got errors: %v", result.Errors)
	}
	result := CheckPasswordUpdate("weak")
	if result.Ok() {
		t.Fatal("expected failure for weak password")
	}
	if len(result.Values) != 0 {
		t.Errorf("password check must not record sticky values, got %v", result.Values)
	}
}
