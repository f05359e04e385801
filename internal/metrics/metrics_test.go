package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/search", "/search"},
		{"/compare", "/compare"},
		{"/metrics", "/metrics"},
		{"/auth/callback", "/auth/callback"},

		// Object ids collapse to one label.
		{"/neo/3542519", "/neo/{id}"},
		{"/neo/2465633", "/neo/{id}"},
		{"/select/3542519", "/select/{id}"},

		// Unknown paths collapse to "other".
		{"/neo/", "other"},
		{"/wp-admin", "other"},
		{"/favicon.ico", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeRoute(tt.path))
		})
	}
}

func TestMiddlewareCountsRequests(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/neo/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	counter := httpRequestsTotal.WithLabelValues("/neo/{id}", "GET", "404")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/neo/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
}

func TestRecordHelpers(t *testing.T) {
	hits := cacheLookupsTotal.WithLabelValues("hit")
	before := testutil.ToFloat64(hits)
	RecordCacheLookup("hit")
	assert.Equal(t, before+1, testutil.ToFloat64(hits))

	retries := testutil.ToFloat64(upstreamRetriesTotal)
	RecordRetry()
	assert.Equal(t, retries+1, testutil.ToFloat64(upstreamRetriesTotal))

	SetActiveSessions(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(activeSessions))
}
