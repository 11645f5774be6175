package validate

import (
	"regexp"
	"strconv"
)

var classificationNamePattern = regexp.MustCompile(`^[A-Za-z]+$`)

// ClassificationForm carries the add-classification field.
type ClassificationForm struct {
	Name string
}

// CheckClassification runs the classification rule set.
func CheckClassification(f *ClassificationForm) *Result {
	f.Name = normalizeText(f.Name)

	result := &Result{}
	result.setValue("classification_name", f.Name)

	if f.Name == "" {
		result.AddError("classification_name", "Please provide a classification name.")
	} else if !classificationNamePattern.MatchString(f.Name) {
		result.AddError("classification_name", "Use only alphabetic characters (A-Z, no spaces or numbers).")
	}

	return result
}

// InventoryForm carries the vehicle form. Raw string fields keep the
// submitted text for sticky re-rendering; the parsed fields are what
// the controller writes to the store once validation passes.
type InventoryForm struct {
	ClassificationID string
	Make             string
	Model            string
	Year             string
	Description      string
	Image            string
	Thumbnail        string
	Price            string
	Miles            string
	Color            string

	ParsedClassificationID uint
	ParsedYear             int
	ParsedPrice            float64
	ParsedMiles            int
}

// CheckInventory normalizes the form in place and runs the vehicle rule
// set. The classification reference must still be resolved against the
// store by the controller.
func CheckInventory(f *InventoryForm) *Result {
	f.Make = normalizeText(f.Make)
	f.Model = normalizeText(f.Model)
	f.Description = normalizeText(f.Description)
	f.Image = normalizeText(f.Image)
	f.Thumbnail = normalizeText(f.Thumbnail)
	f.Color = normalizeText(f.Color)

	result := &Result{}
	result.setValue("classification_id", f.ClassificationID)
	result.setValue("inv_make", f.Make)
	result.setValue("inv_model", f.Model)
	result.setValue("inv_year", f.Year)
	result.setValue("inv_description", f.Description)
	result.setValue("inv_image", f.Image)
	result.setValue("inv_thumbnail", f.Thumbnail)
	result.setValue("inv_price", f.Price)
	result.setValue("inv_miles", f.Miles)
	result.setValue("inv_color", f.Color)

	classID, err := strconv.ParseUint(f.ClassificationID, 10, 32)
	if err != nil || classID == 0 {
		result.AddError("classification_id", "Please choose a classification.")
	} else {
		f.ParsedClassificationID = uint(classID)
	}

	if len(f.Make) < 3 {
		result.AddError("inv_make", "Make must be at least 3 characters.")
	}
	if len(f.Model) < 3 {
		result.AddError("inv_model", "Model must be at least 3 characters.")
	}

	year, err := strconv.Atoi(f.Year)
	if err != nil || year < 1900 || year > 2100 {
		result.AddError("inv_year", "Year must be a 4-digit year.")
	} else {
		f.ParsedYear = year
	}

	if f.Description == "" {
		result.AddError("inv_description", "Please provide a description.")
	}
	if f.Image == "" {
		result.AddError("inv_image", "Please provide an image path.")
	}
	if f.Thumbnail == "" {
		result.AddError("inv_thumbnail", "Please provide a thumbnail path.")
	}

	price, err := strconv.ParseFloat(f.Price, 64)
	if err != nil || price <= 0 {
		result.AddError("inv_price", "Price must be a positive number.")
	} else {
		f.ParsedPrice = price
	}

	miles, err := strconv.Atoi(f.Miles)
	if err != nil || miles < 0 {
		result.AddError("inv_miles", "Miles must be zero or a positive number.")
	} else {
		f.ParsedMiles = miles
	}

	if f.Color == "" {
		result.AddError("inv_color", "Please provide a color.")
	}

	return result
}
