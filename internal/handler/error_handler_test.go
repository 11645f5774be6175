package handler

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHTTPErrorHandler_NotFound(t *testing.T) {
	mock := setupDB(t)
	e := newEcho(t)

	expectNav(mock)

	c, rec := getRequest(e, "/no/such/page")
	HTTPErrorHandler(echo.NewHTTPError(http.StatusNotFound, "missing"), c)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sorry, we appear to have lost that page.") {
		t.Error("not-found message missing")
	}
}

func TestHTTPErrorHandler_InternalError(t *testing.T) {
	mock := setupDB(t)
	e := newEcho(t)

	expectNav(mock)

	c, rec := getRequest(e, "/inv/detail/5")
	HTTPErrorHandler(errors.New("store unavailable"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Oh no! There was a crash.") {
		t.Error("generic crash message missing")
	}
	// Internal details must never reach the client
	if strings.Contains(body, "store unavailable") {
		t.Error("internal error detail leaked into the response")
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	setupDB(t)
	e := newEcho(t)

	c, rec := getRequest(e, "/")
	c.Response().WriteHeader(http.StatusOK)

	HTTPErrorHandler(errors.New("late failure"), c)

	if rec.Code != http.StatusOK {
		t.Errorf("committed response was rewritten: %d", rec.Code)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw string
		id  uint
		ok  bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1.5", 0, false},
	}

	for _, tc := range tests {
		id, ok := parseID(tc.raw)
		if id != tc.id || ok != tc.ok {
			t.Errorf("parseID(%q) = (%d, %v), want (%d, %v)", tc.raw, id, ok, tc.id, tc.ok)
		}
	}
}
