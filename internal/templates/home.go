package templates

import (
	"github.com/jjenkins/neows/internal/dashboard"
	"github.com/jjenkins/neows/internal/dateutil"
	"github.com/jjenkins/neows/internal/model"
	"github.com/jjenkins/neows/internal/service"
)

// HomeData is everything the dashboard page renders
type HomeData struct {
	Layout  LayoutData
	State   dashboard.State
	Summary service.FeedSummary
}

// pickerDates fills the date inputs; an unset window leaves them blank.
func pickerDates(w model.Window) (start, end string) {
	if w.IsZero() {
		return "", ""
	}
	return dateutil.FormatISODate(w.Start), dateutil.FormatISODate(w.End)
}
