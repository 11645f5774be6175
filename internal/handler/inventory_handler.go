package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"dealer-service/internal/flash"
	"dealer-service/internal/model"
	"dealer-service/internal/validate"
	"dealer-service/pkg/database"
	"dealer-service/pkg/logger"
	"dealer-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildManagementView delivers the inventory management dashboard
func BuildManagementView(c echo.Context) error {
	return c.Render(http.StatusOK, "inventory/management", viewData(c, "Vehicle Management"))
}

// BuildByClassificationID lists the vehicles of one classification. A
// malformed id or a classification with zero vehicles is a not-found
// condition, never an empty-grid success.
func BuildByClassificationID(c echo.Context) error {
	classificationID, ok := parseID(c.Param("classificationId"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "classification not found")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var vehicles []model.InventoryWithClassification
	err := database.GetDB().Table("inventories").
		Select("inventories.*, classifications.name AS classification_name").
		Joins("JOIN classifications ON classifications.id = inventories.classification_id").
		Where("inventories.classification_id = ?", classificationID).
		Scan(&vehicles).Error
	if err != nil {
		logger.FromContext(c).Error("Failed to list vehicles",
			zap.Uint("classification_id", classificationID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list vehicles")
	}

	if len(vehicles) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no vehicles in classification")
	}

	data := viewData(c, vehicles[0].ClassificationName+" vehicles")
	data["Vehicles"] = vehicles
	return c.Render(http.StatusOK, "inventory/classification", data)
}

// BuildVehicleDetail renders one vehicle with its customer reviews
func BuildVehicleDetail(c echo.Context) error {
	invID, ok := parseID(c.Param("inv_id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}
	return renderVehicleDetail(c, invID, http.StatusOK, nil, "")
}

// renderVehicleDetail assembles the detail view. The review add flow
// re-uses it to re-render the page with validation errors and the
// sticky review text.
func renderVehicleDetail(c echo.Context, invID uint, status int, fieldErrors []validate.FieldError, stickyReview string) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var vehicle model.InventoryWithClassification
	err := database.GetDB().Table("inventories").
		Select("inventories.*, classifications.name AS classification_name").
		Joins("JOIN classifications ON classifications.id = inventories.classification_id").
		Where("inventories.id = ?", invID).
		Take(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}
	if err != nil {
		log.Error("Failed to load vehicle", zap.Uint("inv_id", invID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load vehicle")
	}

	var reviews []model.ReviewWithAuthor
	err = database.GetDB().Table("reviews").
		Select("reviews.*, accounts.first_name AS first_name, accounts.last_name AS last_name").
		Joins("JOIN accounts ON accounts.id = reviews.account_id").
		Where("reviews.inventory_id = ?", invID).
		Order("reviews.created_at DESC").
		Scan(&reviews).Error
	if err != nil {
		log.Error("Failed to load reviews", zap.Uint("inv_id", invID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load vehicle")
	}

	title := fmt.Sprintf("%d %s %s", vehicle.Year, vehicle.Make, vehicle.Model)
	data := viewData(c, title)
	data["Vehicle"] = vehicle
	data["Reviews"] = reviews
	data["ReviewText"] = stickyReview
	if fieldErrors != nil {
		data["Errors"] = fieldErrors
	}
	return c.Render(status, "inventory/detail", data)
}

// GetInventoryJSON returns the vehicles of a classification as JSON for
// the client-side management table refresh
func GetInventoryJSON(c echo.Context) error {
	classificationID, ok := parseID(c.Param("classification_id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "classification not found")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var vehicles []model.Inventory
	err := database.GetDB().Where("classification_id = ?", classificationID).Find(&vehicles).Error
	if err != nil {
		logger.FromContext(c).Error("Failed to list vehicles",
			zap.Uint("classification_id", classificationID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list vehicles")
	}

	return c.JSON(http.StatusOK, vehicles)
}

// BuildAddClassification delivers the add-classification view
func BuildAddClassification(c echo.Context) error {
	data := viewData(c, "Add Classification")
	data["ClassificationName"] = ""
	return c.Render(http.StatusOK, "inventory/add-classification", data)
}

// AddClassification inserts a new classification. Duplicate names are
// rejected with a field error before the insert is attempted.
func AddClassification(c echo.Context) error {
	log := logger.FromContext(c)

	form := validate.ClassificationForm{Name: c.FormValue("classification_name")}
	result := validate.CheckClassification(&form)

	if result.Ok() {
		defer prometheus.TrackDBOperation("query")(time.Now())
		var count int64
		if err := database.GetDB().Model(&model.Classification{}).
			Where("LOWER(name) = LOWER(?)", form.Name).
			Count(&count).Error; err != nil {
			log.Error("Failed to check classification name", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to add classification")
		}
		if count > 0 {
			result.AddError("classification_name", "That classification already exists.")
		}
	}

	if !result.Ok() {
		data := viewData(c, "Add Classification")
		data["Errors"] = result.Errors
		data["ClassificationName"] = form.Name
		return c.Render(http.StatusBadRequest, "inventory/add-classification", data)
	}

	classification := model.Classification{Name: form.Name}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if dbResult := database.GetDB().Create(&classification); dbResult.Error != nil {
		log.Error("Failed to create classification", zap.String("name", form.Name), zap.Error(dbResult.Error))
		data := viewData(c, "Add Classification")
		data["Flash"] = &flash.Notice{Kind: flash.KindError, Message: "Sorry, the classification could not be added."}
		data["ClassificationName"] = form.Name
		return c.Render(http.StatusInternalServerError, "inventory/add-classification", data)
	}

	prometheus.RecordInventoryOperation("add_classification")
	log.Info("Classification added", zap.String("name", classification.Name), zap.Uint("classification_id", classification.ID))
	flash.Set(c, flash.KindNotice, fmt.Sprintf("The %s classification was successfully added.", classification.Name))
	return c.Redirect(http.StatusFound, "/inv/")
}

// BuildAddInventory delivers the add-vehicle view
func BuildAddInventory(c echo.Context) error {
	data := viewData(c, "Add Vehicle")
	setInventoryFormData(data, &validate.InventoryForm{})
	return c.Render(http.StatusOK, "inventory/add-inventory", data)
}

// AddInventory inserts a new vehicle after verifying that its
// classification reference resolves
func AddInventory(c echo.Context) error {
	log := logger.FromContext(c)

	form := bindInventoryForm(c)
	result := validate.CheckInventory(form)
	checkClassificationExists(c, form, result)

	if !result.Ok() {
		data := viewData(c, "Add Vehicle")
		data["Errors"] = result.Errors
		setInventoryFormData(data, form)
		return c.Render(http.StatusBadRequest, "inventory/add-inventory", data)
	}

	vehicle := model.Inventory{
		ClassificationID: form.ParsedClassificationID,
		Make:             form.Make,
		Model:            form.Model,
		Year:             form.ParsedYear,
		Description:      form.Description,
		Image:            form.Image,
		Thumbnail:        form.Thumbnail,
		Price:            form.ParsedPrice,
		Miles:            form.ParsedMiles,
		Color:            form.Color,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if dbResult := database.GetDB().Create(&vehicle); dbResult.Error != nil {
		log.Error("Failed to create vehicle", zap.String("make", form.Make), zap.String("model", form.Model), zap.Error(dbResult.Error))
		data := viewData(c, "Add Vehicle")
		data["Flash"] = &flash.Notice{Kind: flash.KindError, Message: "Sorry, the vehicle could not be added."}
		setInventoryFormData(data, form)
		return c.Render(http.StatusInternalServerError, "inventory/add-inventory", data)
	}

	prometheus.RecordInventoryOperation("add_vehicle")
	log.Info("Vehicle added", zap.Uint("inv_id", vehicle.ID), zap.String("make", vehicle.Make), zap.String("model", vehicle.Model))
	flash.Set(c, flash.KindNotice, fmt.Sprintf("The %s %s was successfully added.", vehicle.Make, vehicle.Model))
	return c.Redirect(http.StatusFound, "/inv/")
}

// BuildEditInventory delivers the edit view pre-filled from the store
func BuildEditInventory(c echo.Context) error {
	invID, ok := parseID(c.Param("inv_id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var vehicle model.Inventory
	if err := database.GetDB().First(&vehicle, invID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	data := viewData(c, fmt.Sprintf("Edit %s %s", vehicle.Make, vehicle.Model))
	data["InvID"] = vehicle.ID
	setInventoryFormData(data, &validate.InventoryForm{
		ClassificationID: strconv.FormatUint(uint64(vehicle.ClassificationID), 10),
		Make:             vehicle.Make,
		Model:            vehicle.Model,
		Year:             strconv.Itoa(vehicle.Year),
		Description:      vehicle.Description,
		Image:            vehicle.Image,
		Thumbnail:        vehicle.Thumbnail,
		Price:            strconv.FormatFloat(vehicle.Price, 'f', -1, 64),
		Miles:            strconv.Itoa(vehicle.Miles),
		Color:            vehicle.Color,
	})
	return c.Render(http.StatusOK, "inventory/edit-inventory", data)
}

// UpdateInventory applies vehicle edits
func UpdateInventory(c echo.Context) error {
	log := logger.FromContext(c)

	invID, ok := parseID(c.Param("inv_id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.Inventory
	if err := database.GetDB().First(&existing, invID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	form := bindInventoryForm(c)
	result := validate.CheckInventory(form)
	checkClassificationExists(c, form, result)

	if !result.Ok() {
		data := viewData(c, fmt.Sprintf("Edit %s %s", existing.Make, existing.Model))
		data["Errors"] = result.Errors
		data["InvID"] = invID
		setInventoryFormData(data, form)
		return c.Render(http.StatusBadRequest, "inventory/edit-inventory", data)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	dbResult := database.GetDB().Model(&model.Inventory{}).
		Where("id = ?", invID).
		Updates(map[string]interface{}{
			"classification_id": form.ParsedClassificationID,
			"make":              form.Make,
			"model":             form.Model,
			"year":              form.ParsedYear,
			"description":       form.Description,
			"image":             form.Image,
			"thumbnail":         form.Thumbnail,
			"price":             form.ParsedPrice,
			"miles":             form.ParsedMiles,
			"color":             form.Color,
		})
	if dbResult.Error != nil || dbResult.RowsAffected == 0 {
		log.Error("Failed to update vehicle", zap.Uint("inv_id", invID), zap.Error(dbResult.Error))
		data := viewData(c, fmt.Sprintf("Edit %s %s", existing.Make, existing.Model))
		data["Flash"] = &flash.Notice{Kind: flash.KindError, Message: "Sorry, the vehicle could not be updated."}
		data["InvID"] = invID
		setInventoryFormData(data, form)
		return c.Render(http.StatusInternalServerError, "inventory/edit-inventory", data)
	}

	prometheus.RecordInventoryOperation("update_vehicle")
	log.Info("Vehicle updated", zap.Uint("inv_id", invID))
	flash.Set(c, flash.KindNotice, fmt.Sprintf("The %s %s was successfully updated.", form.Make, form.Model))
	return c.Redirect(http.StatusFound, "/inv/")
}

// BuildDeleteInventory delivers the delete confirmation view
func BuildDeleteInventory(c echo.Context) error {
	invID, ok := parseID(c.Param("inv_id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var vehicle model.Inventory
	if err := database.GetDB().First(&vehicle, invID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	data := viewData(c, fmt.Sprintf("Delete %s %s", vehicle.Make, vehicle.Model))
	data["InvID"] = vehicle.ID
	data["Make"] = vehicle.Make
	data["Model"] = vehicle.Model
	data["Year"] = vehicle.Year
	data["Price"] = vehicle.Price
	return c.Render(http.StatusOK, "inventory/delete-confirm", data)
}

// DeleteInventory removes a vehicle
func DeleteInventory(c echo.Context) error {
	log := logger.FromContext(c)

	invID, ok := parseID(c.Param("inv_id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	dbResult := database.GetDB().Delete(&model.Inventory{}, invID)
	if dbResult.Error != nil {
		log.Error("Failed to delete vehicle", zap.Uint("inv_id", invID), zap.Error(dbResult.Error))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete vehicle")
	}
	if dbResult.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	prometheus.RecordInventoryOperation("delete_vehicle")
	log.Info("Vehicle deleted", zap.Uint("inv_id", invID))
	flash.Set(c, flash.KindNotice, "The vehicle was successfully deleted.")
	return c.Redirect(http.StatusFound, "/inv/")
}

// bindInventoryForm collects the raw vehicle form fields
func bindInventoryForm(c echo.Context) *validate.InventoryForm {
	return &validate.InventoryForm{
		ClassificationID: c.FormValue("classification_id"),
		Make:             c.FormValue("inv_make"),
		Model:            c.FormValue("inv_model"),
		Year:             c.FormValue("inv_year"),
		Description:      c.FormValue("inv_description"),
		Image:            c.FormValue("inv_image"),
		Thumbnail:        c.FormValue("inv_thumbnail"),
		Price:            c.FormValue("inv_price"),
		Miles:            c.FormValue("inv_miles"),
		Color:            c.FormValue("inv_color"),
	}
}

// checkClassificationExists verifies the classification reference
// resolves to a stored row, adding a field error if it does not
func checkClassificationExists(c echo.Context, form *validate.InventoryForm, result *validate.Result) {
	if form.ParsedClassificationID == 0 {
		return
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var classification model.Classification
	err := database.GetDB().First(&classification, form.ParsedClassificationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		result.AddError("classification_id", "The chosen classification does not exist.")
	} else if err != nil {
		logger.FromContext(c).Error("Failed to resolve classification",
			zap.Uint("classification_id", form.ParsedClassificationID), zap.Error(err))
		result.AddError("classification_id", "The classification could not be verified. Please try again.")
	}
}

// setInventoryFormData copies the sticky vehicle form values into the
// view data
func setInventoryFormData(data echo.Map, form *validate.InventoryForm) {
	data["ClassificationID"] = form.ClassificationID
	data["Make"] = form.Make
	data["Model"] = form.Model
	data["Year"] = form.Year
	data["Description"] = form.Description
	data["Image"] = form.Image
	data["Thumbnail"] = form.Thumbnail
	data["Price"] = form.Price
	data["Miles"] = form.Miles
	data["Color"] = form.Color
}
