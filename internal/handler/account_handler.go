package handler

import (
	"fmt"
	"net/http"
	"time"

	"dealer-service/internal/flash"
	"dealer-service/internal/middleware"
	"dealer-service/internal/model"
	"dealer-service/internal/validate"
	"dealer-service/pkg/database"
	"dealer-service/pkg/jwtutil"
	"dealer-service/pkg/logger"
	"dealer-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BuildLogin delivers the login view
func BuildLogin(c echo.Context) error {
	data := viewData(c, "Login")
	data["Email"] = ""
	return c.Render(http.StatusOK, "account/login", data)
}

// Login authenticates the posted credentials and delivers the session
// cookie. Both a missing account and a wrong password produce the same
// generic notice so the response does not reveal which field was wrong.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	form := validate.LoginForm{
		Email:    c.FormValue("account_email"),
		Password: c.FormValue("account_password"),
	}

	result := validate.CheckLogin(&form)
	if !result.Ok() {
		data := viewData(c, "Login")
		data["Errors"] = result.Errors
		data["Email"] = form.Email
		return c.Render(http.StatusBadRequest, "account/login", data)
	}

	// Find the account by its normalized email
	defer prometheus.TrackDBOperation("query")(time.Now())
	var account model.Account
	dbResult := database.GetDB().Where("email = ?", form.Email).First(&account)
	if dbResult.Error != nil {
		log.Warn("Login failed, account not found", zap.String("email", form.Email))
		prometheus.RecordAuthError("account_not_found")
		data := viewData(c, "Login")
		data["Flash"] = &flash.Notice{Kind: flash.KindNotice, Message: "Please check your credentials and try again."}
		data["Email"] = form.Email
		return c.Render(http.StatusBadRequest, "account/login", data)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(form.Password)); err != nil {
		log.Warn("Login failed, password mismatch", zap.String("email", form.Email))
		prometheus.RecordAuthError("invalid_password")
		data := viewData(c, "Login")
		data["Flash"] = &flash.Notice{Kind: flash.KindNotice, Message: "Please check your credentials and try again."}
		data["Email"] = form.Email
		return c.Render(http.StatusBadRequest, "account/login", data)
	}

	// Mint a session token from the account minus the password hash
	token, err := jwtutil.GenerateToken(&account)
	if err != nil {
		log.Error("Failed to generate session token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	middleware.SetSessionCookie(c, token)
	prometheus.IncreaseActiveSessions()

	log.Info("Account logged in", zap.String("email", account.Email), zap.Uint("account_id", account.ID))
	return c.Redirect(http.StatusFound, "/account/")
}

// BuildRegister delivers the registration view
func BuildRegister(c echo.Context) error {
	data := viewData(c, "Register")
	data["FirstName"] = ""
	data["LastName"] = ""
	data["Email"] = ""
	return c.Render(http.StatusOK, "account/register", data)
}

// Register creates a new account with the default Client role
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	form := validate.RegistrationForm{
		FirstName: c.FormValue("account_firstname"),
		LastName:  c.FormValue("account_lastname"),
		Email:     c.FormValue("account_email"),
		Password:  c.FormValue("account_password"),
	}

	result := validate.CheckRegistration(&form)

	// Email uniqueness is checked against the store only once the rule
	// set passed, and surfaces as an ordinary field error.
	if result.Ok() {
		defer prometheus.TrackDBOperation("query")(time.Now())
		var count int64
		if err := database.GetDB().Model(&model.Account{}).Where("email = ?", form.Email).Count(&count).Error; err != nil {
			log.Error("Failed to check email uniqueness", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "registration failed")
		}
		if count > 0 {
			log.Warn("Registration rejected, email exists", zap.String("email", form.Email))
			prometheus.RecordAuthError("email_already_exists")
			result.AddError("account_email", "That email is already registered. Please log in or use a different email.")
		}
	}

	if !result.Ok() {
		data := viewData(c, "Register")
		data["Errors"] = result.Errors
		data["FirstName"] = form.FirstName
		data["LastName"] = form.LastName
		data["Email"] = form.Email
		return c.Render(http.StatusBadRequest, "account/register", data)
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		data := viewData(c, "Register")
		data["Flash"] = &flash.Notice{Kind: flash.KindError, Message: "Sorry, the registration failed."}
		data["FirstName"] = form.FirstName
		data["LastName"] = form.LastName
		data["Email"] = form.Email
		return c.Render(http.StatusInternalServerError, "account/register", data)
	}

	account := model.Account{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Password:    string(hashedPassword),
		AccountType: model.AccountTypeClient,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if dbResult := database.GetDB().Create(&account); dbResult.Error != nil {
		log.Error("Failed to create account", zap.Error(dbResult.Error))
		prometheus.RecordAuthError("account_creation_failed")
		data := viewData(c, "Register")
		data["Flash"] = &flash.Notice{Kind: flash.KindError, Message: "Sorry, the registration failed."}
		data["FirstName"] = form.FirstName
		data["LastName"] = form.LastName
		data["Email"] = form.Email
		return c.Render(http.StatusInternalServerError, "account/register", data)
	}

	log.Info("Account registered", zap.String("email", account.Email), zap.Uint("account_id", account.ID))
	flash.Set(c, flash.KindNotice, fmt.Sprintf("Congratulations, you're registered %s. Please log in.", account.FirstName))
	return c.Redirect(http.StatusFound, "/account/login")
}

// BuildManagement delivers the account management dashboard with the
// identity's reviews joined against the vehicles they describe.
func BuildManagement(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.Identity(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var reviews []model.ReviewWithVehicle
	err := database.GetDB().Table("reviews").
		Select("reviews.*, inventories.make AS make, inventories.model AS model, inventories.year AS year").
		Joins("JOIN inventories ON inventories.id = reviews.inventory_id").
		Where("reviews.account_id = ?", claims.AccountID).
		Order("reviews.created_at DESC").
		Scan(&reviews).Error
	if err != nil {
		log.Error("Failed to load account reviews", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load account page")
	}

	data := viewData(c, "Account Management")
	data["Reviews"] = reviews
	data["IsStaff"] = claims.IsStaff()
	return c.Render(http.StatusOK, "account/management", data)
}

// Logout clears the session cookie
func Logout(c echo.Context) error {
	middleware.ClearSessionCookie(c)
	prometheus.DecreaseActiveSessions()
	flash.Set(c, flash.KindNotice, "You have been logged out.")
	return c.Redirect(http.StatusFound, "/")
}

// BuildUpdateAccount delivers the profile edit view. The id in the path
// must match the acting identity.
func BuildUpdateAccount(c echo.Context) error {
	claims := middleware.Identity(c)

	accountID, ok := parseID(c.Param("account_id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	}

	if accountID != claims.AccountID {
		prometheus.RecordAuthError("ownership_denied")
		flash.Set(c, flash.KindError, "You can only edit your own account.")
		return c.Redirect(http.StatusFound, "/account/")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var account model.Account
	if err := database.GetDB().First(&account, accountID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	}

	data := viewData(c, "Edit Account")
	data["AccountID"] = account.ID
	data["FirstName"] = account.FirstName
	data["LastName"] = account.LastName
	data["Email"] = account.Email
	return c.Render(http.StatusOK, "account/update", data)
}

// UpdateAccount applies profile field changes and re-mints the session
// token so the displayed identity updates without a new login.
func UpdateAccount(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.Identity(c)

	accountID, ok := parseID(c.FormValue("account_id"))
	if !ok || accountID != claims.AccountID {
		prometheus.RecordAuthError("ownership_denied")
		flash.Set(c, flash.KindError, "You can only edit your own account.")
		return c.Redirect(http.StatusFound, "/account/")
	}

	form := validate.AccountUpdateForm{
		FirstName: c.FormValue("account_firstname"),
		LastName:  c.FormValue("account_lastname"),
		Email:     c.FormValue("account_email"),
	}

	result := validate.CheckAccountUpdate(&form)

	// A changed email must still be unique across other accounts
	if result.Ok() && form.Email != claims.Email {
		defer prometheus.TrackDBOperation("query")(time.Now())
		var count int64
		if err := database.GetDB().Model(&model.Account{}).
			Where("email = ? AND id <> ?", form.Email, accountID).
			Count(&count).Error; err != nil {
			log.Error("Failed to check email uniqueness", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "update failed")
		}
		if count > 0 {
			result.AddError("account_email", "That email is already registered. Please use a different email.")
		}
	}

	if !result.Ok() {
		data := viewData(c, "Edit Account")
		data["Errors"] = result.Errors
		data["AccountID"] = accountID
		data["FirstName"] = form.FirstName
		data["LastName"] = form.LastName
		data["Email"] = form.Email
		return c.Render(http.StatusBadRequest, "account/update", data)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	dbResult := database.GetDB().Model(&model.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"first_name": form.FirstName,
			"last_name":  form.LastName,
			"email":      form.Email,
		})
	if dbResult.Error != nil || dbResult.RowsAffected == 0 {
		log.Error("Failed to update account", zap.Uint("account_id", accountID), zap.Error(dbResult.Error))
		data := viewData(c, "Edit Account")
		data["Flash"] = &flash.Notice{Kind: flash.KindError, Message: "Sorry, the update failed. Please try again."}
		data["AccountID"] = accountID
		data["FirstName"] = form.FirstName
		data["LastName"] = form.LastName
		data["Email"] = form.Email
		return c.Render(http.StatusInternalServerError, "account/update", data)
	}

	// Re-fetch the fresh row and re-mint the token so the rendered
	// identity reflects the new values
	var fresh model.Account
	if err := database.GetDB().First(&fresh, accountID).Error; err != nil {
		log.Error("Failed to reload account after update", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "update failed")
	}

	token, err := jwtutil.GenerateToken(&fresh)
	if err != nil {
		log.Error("Failed to re-mint session token", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "update failed")
	}
	middleware.SetSessionCookie(c, token)

	log.Info("Account updated", zap.Uint("account_id", accountID))
	flash.Set(c, flash.KindNotice, "Congratulations, your information has been updated.")
	return c.Redirect(http.StatusFound, "/account/")
}

// UpdatePassword hashes and stores a new password. The submitted
// password is never echoed back into the form on failure.
func UpdatePassword(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.Identity(c)

	accountID, ok := parseID(c.FormValue("account_id"))
	if !ok || accountID != claims.AccountID {
		prometheus.RecordAuthError("ownership_denied")
		flash.Set(c, flash.KindError, "You can only edit your own account.")
		return c.Redirect(http.StatusFound, "/account/")
	}

	result := validate.CheckPasswordUpdate(c.FormValue("account_password"))
	if !result.Ok() {
		data := viewData(c, "Edit Account")
		data["Errors"] = result.Errors
		data["AccountID"] = accountID
		data["FirstName"] = claims.FirstName
		data["LastName"] = claims.LastName
		data["Email"] = claims.Email
		return c.Render(http.StatusBadRequest, "account/update", data)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(c.FormValue("account_password")), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "password change failed")
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	dbResult := database.GetDB().Model(&model.Account{}).
		Where("id = ?", accountID).
		Update("password", string(hashedPassword))
	if dbResult.Error != nil || dbResult.RowsAffected == 0 {
		log.Error("Failed to update password", zap.Uint("account_id", accountID), zap.Error(dbResult.Error))
		data := viewData(c, "Edit Account")
		data["Flash"] = &flash.Notice{Kind: flash.KindError, Message: "Sorry, the password change failed. Please try again."}
		data["AccountID"] = accountID
		data["FirstName"] = claims.FirstName
		data["LastName"] = claims.LastName
		data["Email"] = claims.Email
		return c.Render(http.StatusInternalServerError, "account/update", data)
	}

	log.Info("Password updated", zap.Uint("account_id", accountID))
	flash.Set(c, flash.KindNotice, "Your password has been updated.")
	return c.Redirect(http.StatusFound, "/account/")
}
