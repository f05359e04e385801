package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/neows/internal/dashboard"
	"github.com/jjenkins/neows/internal/dateutil"
	"github.com/jjenkins/neows/internal/model"
	"github.com/jjenkins/neows/internal/service"
	"github.com/jjenkins/neows/internal/templates"
)

// HomeHandler renders the dashboard, loading the default window on the
// first visit. The hazardous and order query parameters adjust the view.
func HomeHandler(chrome Chrome) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl := currentSession(c).Controller

		if err := ctl.Activate(c.UserContext()); err != nil && !ignorable(err) {
			log.Printf("Error loading feed: %v", err)
		}

		// The filter form always submits order; an unticked checkbox sends nothing.
		if order := c.Query("order"); order != "" {
			ctl.SetSortOrder(dashboard.ParseSortOrder(order))
			ctl.SetHazardousOnly(c.Query("hazardous") == "true")
		} else if hazardous := c.Query("hazardous"); hazardous != "" {
			ctl.SetHazardousOnly(hazardous == "true")
		}

		state := ctl.Snapshot()
		data := templates.HomeData{
			Layout:  layout(c, chrome),
			State:   state,
			Summary: service.Summarize(state.Items),
		}

		if isHTMX(c) {
			return render(c, templates.HomeResults(data))
		}
		return render(c, templates.Home(data))
	}
}

// SearchHandler replaces the list with the submitted start..end window
func SearchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, err := dateutil.ParseISODate(c.FormValue("start"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		end, err := dateutil.ParseISODate(c.FormValue("end"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		if end.Before(start) {
			return c.Status(fiber.StatusBadRequest).SendString("End date must not be before start date")
		}

		ctl := currentSession(c).Controller
		if err := ctl.Search(c.UserContext(), model.NewWindow(start, end)); err != nil && !ignorable(err) {
			log.Printf("Error searching %s..%s: %v", dateutil.FormatISODate(start), dateutil.FormatISODate(end), err)
		}

		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// ReloadHandler clears the selection and re-fetches the requested window
func ReloadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := currentSession(c).Controller.Reload(c.UserContext()); err != nil && !ignorable(err) {
			log.Printf("Error reloading feed: %v", err)
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// LoadMoreHandler appends the days after the loaded window. When the first
// load failed there is nothing to extend, so the requested window is
// fetched again instead.
func LoadMoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl := currentSession(c).Controller

		err := ctl.LoadMore(c.UserContext())
		if errors.Is(err, dashboard.ErrNothingLoaded) {
			err = ctl.Reload(c.UserContext())
		}
		if err != nil && !ignorable(err) {
			log.Printf("Error loading more: %v", err)
		}

		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// ignorable reports errors from requests that lost a race with another one
// for the same session. The winning request owns the outcome.
func ignorable(err error) bool {
	return errors.Is(err, dashboard.ErrInFlight) || errors.Is(err, dashboard.ErrSuperseded)
}
