package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/neows/internal/templates"
)

// SelectHandler adds or removes one loaded object from the comparison set
func SelectHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl := currentSession(c).Controller
		id := c.Params("id")

		if !ctl.ToggleSelection(id, c.FormValue("checked") == "true") {
			return c.Status(fiber.StatusNotFound).SendString("Object not found")
		}

		if isHTMX(c) {
			return render(c, templates.SelectionCount(ctl.Snapshot().SelectionCount))
		}
		return c.RedirectBack("/", fiber.StatusSeeOther)
	}
}

// CompareHandler charts every selected object side by side
func CompareHandler(chrome Chrome) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := templates.Compare(templates.CompareData{
			Layout:   layout(c, chrome),
			Selected: currentSession(c).Controller.Selected(),
		})
		return render(c, page)
	}
}
