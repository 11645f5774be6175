package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"dealer-service/internal/middleware"
	"dealer-service/internal/view"
	"dealer-service/pkg/config"
	"dealer-service/pkg/database"
	"dealer-service/pkg/jwtutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupDB swaps the package database handle for a sqlmock-backed one
// for the duration of the test.
func setupDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	database.DB = gdb
	t.Cleanup(func() {
		database.DB = nil
		db.Close()
	})
	return mock
}

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("view.NewRenderer: %v", err)
	}
	e.Renderer = renderer
	return e
}

func initSession(t *testing.T) {
	t.Helper()
	cfg := &config.SessionConfig{
		SigningKey: "test-signing-key",
		CookieName: "jwt",
		TTL:        time.Hour,
	}
	jwtutil.Initialize(cfg)
	middleware.Initialize(cfg, false)
}

func getRequest(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func postForm(e *echo.Echo, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asIdentity marks the context authenticated the way CheckJWT would.
func asIdentity(c echo.Context, claims *jwtutil.SessionClaims) {
	c.Set("loggedin", true)
	c.Set("accountData", claims)
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func expectNav(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT \* FROM "classifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Sedan").
			AddRow(2, "Truck"))
}
