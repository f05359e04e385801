package templates

import (
	"github.com/jjenkins/neows/internal/model"
)

// DetailData is the object detail page. Detail is nil when the lookup
// failed, in which case the loaded record is shown with DetailErr.
type DetailData struct {
	Layout    LayoutData
	NEO       model.NearEarthObject
	Detail    *model.NeoDetail
	DetailErr string
	Selected  bool
}

// Record is the object to show, preferring the full lookup
func (d DetailData) Record() model.NearEarthObject {
	if d.Detail != nil {
		return d.Detail.NearEarthObject
	}
	return d.NEO
}

func diameterRange(d model.DiameterRange) string {
	return FormatDiameter(d.MinKm.Float64, d.MinKm.Valid) + " – " + FormatDiameter(d.MaxKm.Float64, d.MaxKm.Valid)
}

func approachTime(cad model.CloseApproach) string {
	if cad.DateFull != "" {
		return cad.DateFull
	}
	return cad.Date
}

func withUnit(v, unit string) string {
	if v == NotAvailable {
		return v
	}
	return v + " " + unit
}
