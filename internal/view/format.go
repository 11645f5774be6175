package view

import (
	"fmt"
	"strings"
	"time"

	"dealer-service/internal/model"
)

// FormatPrice renders a vehicle price as US dollars, e.g. "$25,000".
func FormatPrice(price float64) string {
	return "$" + groupThousands(int64(price))
}

// FormatMiles renders a mileage with thousands separators, e.g. "101,222".
func FormatMiles(miles int) string {
	return groupThousands(int64(miles))
}

// FormatReviewDate renders a review timestamp for display,
// e.g. "January 2, 2006".
func FormatReviewDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// ScreenName builds the short author display name shown next to reviews:
// first initial plus last name, e.g. "JDoe".
func ScreenName(firstName, lastName string) string {
	initial := ""
	if firstName != "" {
		initial = string([]rune(firstName)[0])
	}
	return initial + lastName
}

// VehicleName builds the "2019 Toyota Camry" style display name.
func VehicleName(v *model.Inventory) string {
	return fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
}

func groupThousands(n int64) string {
	negative := n < 0
	if negative {
		n = -n
	}

	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}
