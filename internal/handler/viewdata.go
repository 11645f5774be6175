package handler

import (
	"strconv"

	"dealer-service/internal/flash"
	"dealer-service/internal/middleware"
	"dealer-service/internal/model"
	"dealer-service/pkg/database"
	"dealer-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// nav loads the classifications that make up the site navigation. A
// store failure degrades to an empty menu instead of failing the page.
func nav(c echo.Context) []model.Classification {
	var classifications []model.Classification
	err := database.GetDB().Order("name").Find(&classifications).Error
	if err != nil {
		logger.FromContext(c).Error("Failed to build navigation", zap.Error(err))
		return nil
	}
	return classifications
}

// viewData assembles the fields every rendered page needs: title,
// navigation, pending flash notice, and the request identity.
func viewData(c echo.Context, title string) echo.Map {
	data := echo.Map{
		"Title":    title,
		"Nav":      nav(c),
		"Flash":    flash.Pop(c),
		"Loggedin": middleware.IsLoggedIn(c),
		"Identity": middleware.Identity(c),
		"Errors":   nil,
	}
	return data
}

// parseID parses a positive integer id parameter. Anything else is a
// syntactically invalid identifier and must never reach the store.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
