package flash

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const cookieName = "flash"

// Kinds of notices; the kind ends up as a CSS class on the rendered page.
const (
	KindNotice = "notice"
	KindError  = "error"
)

// Notice is a one-time message surfaced on the next rendered page.
type Notice struct {
	Kind    string
	Message string
}

// Set stores a one-time notice in a short-lived cookie. It survives
// exactly one redirect and is cleared when read.
func Set(c echo.Context, kind, message string) {
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop reads and clears the pending notice, if any.
func Pop(c echo.Context) *Notice {
	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// Clear the cookie so the notice only shows once
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}

	kind, message, found := strings.Cut(decoded, "|")
	if !found {
		return &Notice{Kind: KindNotice, Message: decoded}
	}
	return &Notice{Kind: kind, Message: message}
}
