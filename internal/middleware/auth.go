package middleware

import (
	"net/http"

	"dealer-service/internal/flash"
	"dealer-service/pkg/config"
	"dealer-service/pkg/jwtutil"
	"dealer-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Context keys set by CheckJWT and trusted by everything downstream.
const (
	loggedInKey = "loggedin"
	claimsKey   = "accountData"
)

var (
	sessionCfg   *config.SessionConfig
	secureCookie bool
)

// Initialize sets the session cookie parameters. Secure is true outside
// development.
func Initialize(cfg *config.SessionConfig, secure bool) {
	sessionCfg = cfg
	secureCookie = secure
}

// SetSessionCookie delivers a freshly minted token to the client. The
// cookie Max-Age matches the token TTL so the two expire together.
func SetSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionCfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie from the client.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// CheckJWT derives the request identity from the session cookie.
//
// No cookie leaves the request anonymous. A valid token attaches the
// claims to the context. A token that fails verification clears the
// cookie and bounces the client to the login page without calling the
// next handler.
func CheckJWT(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(loggedInKey, false)

		cookie, err := c.Cookie(sessionCfg.CookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		claims, err := jwtutil.ValidateToken(cookie.Value)
		if err != nil {
			logger.FromContext(c).Warn("Session token rejected", zap.Error(err))
			ClearSessionCookie(c)
			flash.Set(c, flash.KindNotice, "Please log in again.")
			return c.Redirect(http.StatusFound, "/account/login")
		}

		c.Set(loggedInKey, true)
		c.Set(claimsKey, claims)
		return next(c)
	}
}

// RequireLogin gates a route on the identity attached by CheckJWT. It
// never inspects tokens itself, so it must run after CheckJWT.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsLoggedIn(c) {
			flash.Set(c, flash.KindNotice, "Please log in.")
			return c.Redirect(http.StatusFound, "/account/login")
		}
		return next(c)
	}
}

// RequireStaff restricts inventory management to Employee and Admin
// accounts. Runs after CheckJWT like RequireLogin.
func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := Identity(c)
		if claims == nil || !claims.IsStaff() {
			flash.Set(c, flash.KindNotice, "You are not authorized to manage inventory. Please log in with an employee account.")
			return c.Redirect(http.StatusFound, "/account/login")
		}
		return next(c)
	}
}

// IsLoggedIn reports whether CheckJWT authenticated this request.
func IsLoggedIn(c echo.Context) bool {
	loggedIn, ok := c.Get(loggedInKey).(bool)
	return ok && loggedIn
}

// Identity returns the verified session claims, or nil for anonymous
// requests.
func Identity(c echo.Context) *jwtutil.SessionClaims {
	claims, ok := c.Get(claimsKey).(*jwtutil.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
