package handler

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"dealer-service/pkg/jwtutil"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

func accountColumns() []string {
	return []string{"id", "first_name", "last_name", "email", "password", "account_type", "created_at", "updated_at"}
}

func TestRegister_Success(t *testing.T) {
	mock := setupDB(t)
	initSession(t)
	e := newEcho(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts"`).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	form := url.Values{
		"account_firstname": {"Jane"},
		"account_lastname":  {"Doe"},
		"account_email":     {"jane@example.com"},
		"account_password":  {"Sup3r$ecretPass"},
	}
	c, rec := postForm(e, "/account/register", form)

	if err := Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/account/login" {
		t.Errorf("redirect = %q, want /account/login", loc)
	}
	if cookie := findCookie(rec, "flash"); cookie == nil {
		t.Error("expected a flash notice cookie")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mock := setupDB(t)
	initSession(t)
	e := newEcho(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts"`).
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	expectNav(mock)

	form := url.Values{
		"account_firstname": {"Jane"},
		"account_lastname":  {"Doe"},
		"account_email":     {"taken@example.com"},
		"account_password":  {"Sup3r$ecretPass"},
	}
	c, rec := postForm(e, "/account/register", form)

	if err := Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already registered") {
		t.Error("response missing the duplicate-email message")
	}
	// No insert may run; ExpectationsWereMet would flag one
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRegister_WeakPasswordSkipsStore(t *testing.T) {
	mock := setupDB(t)
	initSession(t)
	e := newEcho(t)

	// Only the navigation query runs; the uniqueness check is skipped
	// when the rule set already failed
	expectNav(mock)

	form := url.Values{
		"account_firstname": {"Jane"},
		"account_lastname":  {"Doe"},
		"account_email":     {"jane@example.com"},
		"account_password":  {"weak"},
	}
	c, rec := postForm(e, "/account/register", form)

	if err := Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "jane@example.com") {
		t.Error("sticky email missing from re-rendered form")
	}
	if strings.Contains(rec.Body.String(), "weak") {
		t.Error("password must never be echoed back")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	mock := setupDB(t)
	initSession(t)
	e := newEcho(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3r$ecretPass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE email`).
		WithArgs("jane@example.com", 1).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(7, "Jane", "Doe", "jane@example.com", string(hash), "Client", now, now))

	form := url.Values{
		"account_email":    {"jane@example.com"},
		"account_password": {"Sup3r$ecretPass"},
	}
	c, rec := postForm(e, "/account/login", form)

	if err := Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/account/" {
		t.Errorf("redirect = %q, want /account/", loc)
	}

	cookie := findCookie(rec, "jwt")
	if cookie == nil {
		t.Fatal("no session cookie delivered")
	}
	claims, err := jwtutil.ValidateToken(cookie.Value)
	if err != nil {
		t.Fatalf("delivered token does not verify: %v", err)
	}
	if claims.AccountID != 7 || claims.Email != "jane@example.com" {
		t.Errorf("claims mismatch: %+v", claims)
	}
	if strings.Contains(cookie.Value, "password") {
		t.Error("token must not carry password material")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	mock := setupDB(t)
	initSession(t)
	e := newEcho(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3r$ecretPass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE email`).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(7, "Jane", "Doe", "jane@example.com", string(hash), "Client", now, now))
	expectNav(mock)

	form := url.Values{
		"account_email":    {"jane@example.com"},
		"account_password": {"not-the-password"},
	}
	c, rec := postForm(e, "/account/login", form)

	if err := Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if findCookie(rec, "jwt") != nil {
		t.Error("failed login must not deliver a session cookie")
	}
	if !strings.Contains(rec.Body.String(), "Please check your credentials") {
		t.Error("generic credential notice missing")
	}
}

func TestLogin_UnknownAccount(t *testing.T) {
	mock := setupDB(t)
	initSession(t)
	e := newEcho(t)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE email`).
		WillReturnRows(sqlmock.NewRows(accountColumns()))
	expectNav(mock)

	form := url.Values{
		"account_email":    {"nobody@example.com"},
		"account_password": {"whatever-pass"},
	}
	c, rec := postForm(e, "/account/login", form)

	if err := Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	// Same generic notice as a bad password so the response does not
	// reveal whether the account exists
	if !strings.Contains(rec.Body.String(), "Please check your credentials") {
		t.Error("generic credential notice missing")
	}
	if findCookie(rec, "jwt") != nil {
		t.Error("failed login must not deliver a session cookie")
	}
}

func TestUpdateAccount_OtherAccountDenied(t *testing.T) {
	mock := setupDB(t)
	initSession(t)
	e := newEcho(t)

	form := url.Values{
		"account_id":        {"999"},
		"account_firstname": {"Mallory"},
		"account_lastname":  {"Intruder"},
		"account_email":     {"mallory@example.com"},
	}
	c, rec := postForm(e, "/account/update", form)
	asIdentity(c, &jwtutil.SessionClaims{AccountID: 7, Email: "jane@example.com"})

	if err := UpdateAccount(c); err != nil {
		t.Fatalf("UpdateAccount returned error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/account/" {
		t.Errorf("expected 302 to /account/, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if cookie := findCookie(rec, "flash"); cookie == nil {
		t.Error("expected an error flash cookie")
	}
	// No store statement may run for a foreign account id
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdatePassword_NeverEchoesPassword(t *testing.T) {
	mock := setupDB(t)
	initSession(t)
	e := newEcho(t)

	expectNav(mock)

	form := url.Values{
		"account_id":       {"7"},
		"account_password": {"too-weak"},
	}
	c, rec := postForm(e, "/account/update-password", form)
	asIdentity(c, &jwtutil.SessionClaims{AccountID: 7, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"})

	if err := UpdatePassword(c); err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "too-weak") {
		t.Error("password must never be echoed back")
	}
}
