package templates

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// NotAvailable is shown wherever a metric is absent
const NotAvailable = "N/A"

// FormatKm renders a distance rounded to whole kilometers with separators
func FormatKm(v sql.NullFloat64) string {
	if !v.Valid {
		return NotAvailable
	}
	return humanize.Comma(int64(math.Round(v.Float64))) + " km"
}

// FormatKps renders a velocity in km/s
func FormatKps(v sql.NullFloat64) string {
	if !v.Valid {
		return NotAvailable
	}
	return fmt.Sprintf("%.3f km/s", v.Float64)
}

// FormatDiameter renders an average diameter in km
func FormatDiameter(v float64, ok bool) string {
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.3f km", v)
}

// FormatNumber renders an optional plain number with the given precision
func FormatNumber(v sql.NullFloat64, precision int) string {
	if !v.Valid {
		return NotAvailable
	}
	return humanize.CommafWithDigits(v.Float64, precision)
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}
