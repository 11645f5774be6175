package validate

// RegistrationForm carries the registration fields after normalization.
type RegistrationForm struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// CheckRegistration normalizes the form in place and runs the
// registration rule set. The password is never copied into the sticky
// value map.
func CheckRegistration(f *RegistrationForm) *Result {
	f.FirstName = normalizeText(f.FirstName)
	f.LastName = normalizeText(f.LastName)
	f.Email = normalizeEmail(f.Email)

	result := &Result{}
	result.setValue("account_firstname", f.FirstName)
	result.setValue("account_lastname", f.LastName)
	result.setValue("account_email", f.Email)

	if f.FirstName == "" {
		result.AddError("account_firstname", "Please provide a first name.")
	}
	if len(f.LastName) < 2 {
		result.AddError("account_lastname", "Please provide a last name.")
	}
	if !validEmail(f.Email) {
		result.AddError("account_email", "A valid email is required.")
	}
	if !strongPassword(f.Password) {
		result.AddError("account_password",
			"Password must be at least 12 characters and include uppercase, lowercase, number, and special character.")
	}

	return result
}

// LoginForm carries the login fields after normalization.
type LoginForm struct {
	Email    string
	Password string
}

// CheckLogin runs the login rule set. Failures here are form-shape
// problems only; credential mismatches are the controller's concern.
func CheckLogin(f *LoginForm) *Result {
	f.Email = normalizeEmail(f.Email)

	result := &Result{}
	result.setValue("account_email", f.Email)

	if !validEmail(f.Email) {
		result.AddError("account_email", "A valid email is required.")
	}
	if f.Password == "" {
		result.AddError("account_password", "Please provide a password.")
	}

	return result
}

// AccountUpdateForm carries the profile-edit fields after normalization.
type AccountUpdateForm struct {
	FirstName string
	LastName  string
	Email     string
}

// CheckAccountUpdate runs the profile-edit rule set.
func CheckAccountUpdate(f *AccountUpdateForm) *Result {
	f.FirstName = normalizeText(f.FirstName)
	f.LastName = normalizeText(f.LastName)
	f.Email = normalizeEmail(f.Email)

	result := &Result{}
	result.setValue("account_firstname", f.FirstName)
	result.setValue("account_lastname", f.LastName)
	result.setValue("account_email", f.Email)

	if f.FirstName == "" {
		result.AddError("account_firstname", "Please provide a first name.")
	}
	if len(f.LastName) < 2 {
		result.AddError("account_lastname", "Please provide a last name.")
	}
	if !validEmail(f.Email) {
		result.AddError("account_email", "A valid email is required.")
	}

	return result
}

// CheckPasswordUpdate runs the password-change rule set. The submitted
// password is never echoed back, so no sticky value is recorded.
func CheckPasswordUpdate(password string) *Result {
	result := &Result{}
	if !strongPassword(password) {
		result.AddError("account_password",
			"Password must be at least 12 characters and include uppercase, lowercase, number, and special character.")
	}
	return result
}
