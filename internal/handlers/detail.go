package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/neows/internal/model"
	"github.com/jjenkins/neows/internal/service"
	"github.com/jjenkins/neows/internal/templates"
)

// DetailFetcher looks up one object with its orbit
type DetailFetcher interface {
	FetchDetails(ctx context.Context, id string) (*model.NeoDetail, error)
}

// NeoDetailHandler renders one object. When the lookup fails the record
// loaded in the dashboard is shown alongside the error.
func NeoDetailHandler(details DetailFetcher, chrome Chrome) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl := currentSession(c).Controller
		id := c.Params("id")

		neo, found := ctl.Find(id)
		data := templates.DetailData{
			Layout:   layout(c, chrome),
			NEO:      neo,
			Selected: ctl.IsSelected(id),
		}

		detail, err := details.FetchDetails(c.UserContext(), id)
		if err != nil {
			var apiErr *service.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound && !found {
				return c.Status(fiber.StatusNotFound).SendString("Object not found")
			}

			log.Printf("Error loading object %s: %v", id, err)
			if !found {
				data.NEO = model.NearEarthObject{ID: id, Name: id}
				c.Status(fiber.StatusBadGateway)
			}
			data.DetailErr = err.Error()
		} else {
			data.Detail = detail
		}

		return render(c, templates.Detail(data))
	}
}
