package handler

import (
	"fmt"
	"net/http"
	"time"

	"dealer-service/internal/flash"
	"dealer-service/internal/middleware"
	"dealer-service/internal/model"
	"dealer-service/internal/validate"
	"dealer-service/internal/view"
	"dealer-service/pkg/database"
	"dealer-service/pkg/logger"
	"dealer-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AddReview creates a review for a vehicle. The author is always the
// verified session identity; any account id in the request body is
// ignored so review authorship cannot be forged.
func AddReview(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.Identity(c)

	invID, ok := parseID(c.FormValue("inv_id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	form := validate.ReviewForm{Text: c.FormValue("review_text")}
	result := validate.CheckReview(&form)
	if !result.Ok() {
		// Re-render the vehicle detail page with the errors and the
		// sticky review text
		return renderVehicleDetail(c, invID, http.StatusBadRequest, result.Errors, form.Text)
	}

	review := model.Review{
		Text:        form.Text,
		InventoryID: invID,
		AccountID:   claims.AccountID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if dbResult := database.GetDB().Create(&review); dbResult.Error != nil {
		log.Error("Failed to create review", zap.Uint("inv_id", invID), zap.Error(dbResult.Error))
		flash.Set(c, flash.KindError, "Sorry, the review could not be added.")
		return c.Redirect(http.StatusFound, fmt.Sprintf("/inv/detail/%d", invID))
	}

	prometheus.RecordReviewOperation("create")
	log.Info("Review posted", zap.Uint("review_id", review.ID), zap.Uint("inv_id", invID), zap.Uint("account_id", claims.AccountID))
	flash.Set(c, flash.KindNotice, "Your review was successfully posted!")
	return c.Redirect(http.StatusFound, fmt.Sprintf("/inv/detail/%d", invID))
}

// BuildEditReview delivers the edit view for the author's own review
func BuildEditReview(c echo.Context) error {
	review, err := loadOwnReview(c, "edit")
	if err != nil || review == nil {
		return err
	}

	data := viewData(c, "Edit "+reviewVehicleName(c, review)+" Review")
	data["ReviewID"] = review.ID
	data["ReviewDate"] = view.FormatReviewDate(review.CreatedAt)
	data["ReviewText"] = review.Text
	return c.Render(http.StatusOK, "review/edit", data)
}

// UpdateReview applies an edit to the author's own review
func UpdateReview(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.Identity(c)

	review, err := loadOwnReview(c, "edit")
	if err != nil || review == nil {
		return err
	}

	form := validate.ReviewForm{Text: c.FormValue("review_text")}
	result := validate.CheckReview(&form)
	if !result.Ok() {
		data := viewData(c, "Edit "+reviewVehicleName(c, review)+" Review")
		data["Errors"] = result.Errors
		data["ReviewID"] = review.ID
		data["ReviewDate"] = view.FormatReviewDate(review.CreatedAt)
		data["ReviewText"] = form.Text
		return c.Render(http.StatusBadRequest, "review/edit", data)
	}

	// The update is keyed on both the review id and the author id, so
	// the store enforces ownership a second time
	defer prometheus.TrackDBOperation("update")(time.Now())
	dbResult := database.GetDB().Model(&model.Review{}).
		Where("id = ? AND account_id = ?", review.ID, claims.AccountID).
		Update("text", form.Text)
	if dbResult.Error != nil || dbResult.RowsAffected == 0 {
		log.Error("Failed to update review", zap.Uint("review_id", review.ID), zap.Error(dbResult.Error))
		flash.Set(c, flash.KindError, "Sorry, the review could not be updated. Please try again.")
		return c.Redirect(http.StatusFound, "/account/")
	}

	prometheus.RecordReviewOperation("update")
	log.Info("Review updated", zap.Uint("review_id", review.ID), zap.Uint("account_id", claims.AccountID))
	flash.Set(c, flash.KindNotice, "Your review was successfully updated.")
	return c.Redirect(http.StatusFound, "/account/")
}

// BuildDeleteReview delivers the delete confirmation view for the
// author's own review
func BuildDeleteReview(c echo.Context) error {
	review, err := loadOwnReview(c, "delete")
	if err != nil || review == nil {
		return err
	}

	data := viewData(c, "Delete "+reviewVehicleName(c, review)+" Review")
	data["ReviewID"] = review.ID
	data["ReviewDate"] = view.FormatReviewDate(review.CreatedAt)
	data["ReviewText"] = review.Text
	return c.Render(http.StatusOK, "review/delete", data)
}

// DeleteReview removes the author's own review. The delete statement
// matches both the review id and the author id, so the store enforces
// ownership in addition to the controller check.
func DeleteReview(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.Identity(c)

	review, err := loadOwnReview(c, "delete")
	if err != nil || review == nil {
		return err
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	dbResult := database.GetDB().
		Where("id = ? AND account_id = ?", review.ID, claims.AccountID).
		Delete(&model.Review{})
	if dbResult.Error != nil || dbResult.RowsAffected == 0 {
		log.Error("Failed to delete review", zap.Uint("review_id", review.ID), zap.Error(dbResult.Error))
		flash.Set(c, flash.KindError, "Sorry, the review could not be deleted. Please try again.")
		return c.Redirect(http.StatusFound, "/account/")
	}

	prometheus.RecordReviewOperation("delete")
	log.Info("Review deleted", zap.Uint("review_id", review.ID), zap.Uint("account_id", claims.AccountID))
	flash.Set(c, flash.KindNotice, fmt.Sprintf("Your review for vehicle #%d was successfully deleted.", review.InventoryID))
	return c.Redirect(http.StatusFound, "/account/")
}

// loadOwnReview fetches the review named in the path and verifies the
// acting identity owns it. A nil review with a nil error means the
// redirect response has already been written.
func loadOwnReview(c echo.Context, action string) (*model.Review, error) {
	claims := middleware.Identity(c)

	reviewID, ok := parseID(c.Param("review_id"))
	if !ok {
		flash.Set(c, flash.KindError, "Invalid review id.")
		return nil, c.Redirect(http.StatusFound, "/account/")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var review model.Review
	if err := database.GetDB().First(&review, reviewID).Error; err != nil {
		flash.Set(c, flash.KindError, "The requested review could not be found.")
		return nil, c.Redirect(http.StatusFound, "/account/")
	}

	if review.AccountID != claims.AccountID {
		logger.FromContext(c).Warn("Review ownership check failed",
			zap.Uint("review_id", review.ID),
			zap.Uint("owner_id", review.AccountID),
			zap.Uint("account_id", claims.AccountID))
		prometheus.RecordAuthError("ownership_denied")
		flash.Set(c, flash.KindError, "You are not authorized to "+action+" this review.")
		return nil, c.Redirect(http.StatusFound, "/account/")
	}

	return &review, nil
}

// reviewVehicleName builds the "2019 Toyota Camry" display name for the
// review's vehicle, falling back to a generic label if the vehicle row
// is gone
func reviewVehicleName(c echo.Context, review *model.Review) string {
	var vehicle model.Inventory
	if err := database.GetDB().First(&vehicle, review.InventoryID).Error; err != nil {
		return "Vehicle"
	}
	return view.VehicleName(&vehicle)
}
