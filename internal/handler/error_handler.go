package handler

import (
	"errors"
	"net/http"

	"dealer-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler is the single sink for everything the controllers do
// not recover locally. It normalizes the status code, logs the request
// path and message server-side, and renders the generic error view with
// no internal detail. Navigation failures inside this handler degrade to
// an empty menu rather than a crash.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Oh no! There was a crash. Maybe try a different route?"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if status == http.StatusNotFound {
			message = "Sorry, we appear to have lost that page."
		}
	}

	logger.FromContext(c).Error("Request failed",
		zap.String("path", c.Request().URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)

	title := "Server Error"
	if status == http.StatusNotFound {
		title = "404"
	}

	data := viewData(c, title)
	data["Message"] = message

	if renderErr := c.Render(status, "errors/error", data); renderErr != nil {
		// Last resort if even the error view cannot render
		_ = c.String(status, message)
	}
}
