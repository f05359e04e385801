package templates

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/neows/internal/dashboard"
	"github.com/jjenkins/neows/internal/model"
	"github.com/jjenkins/neows/internal/service"
)

func html(t *testing.T, fn func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fn(&buf))
	return buf.String()
}

func sampleNEO() model.NearEarthObject {
	return model.NearEarthObject{
		ID:        "3542519",
		Name:      "(2010 PK9)",
		Date:      "2024-03-05",
		Hazardous: true,
		Diameter: model.DiameterRange{
			MinKm: sql.NullFloat64{Float64: 0.1, Valid: true},
			MaxKm: sql.NullFloat64{Float64: 0.3, Valid: true},
		},
		CloseApproaches: []model.CloseApproach{{
			Date:                "2024-03-05",
			DateFull:            "2024-Mar-05 14:20",
			MissDistanceKm:      sql.NullFloat64{Float64: 45290298.2, Valid: true},
			RelativeVelocityKps: sql.NullFloat64{Float64: 12.3456, Valid: true},
			OrbitingBody:        "Earth",
		}},
	}
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "45,290,298 km", FormatKm(sql.NullFloat64{Float64: 45290298.4, Valid: true}))
	assert.Equal(t, NotAvailable, FormatKm(sql.NullFloat64{}))
	assert.Equal(t, "12.346 km/s", FormatKps(sql.NullFloat64{Float64: 12.3456, Valid: true}))
	assert.Equal(t, NotAvailable, FormatKps(sql.NullFloat64{}))
	assert.Equal(t, "0.200 km", FormatDiameter(0.2, true))
	assert.Equal(t, NotAvailable, FormatDiameter(0, false))
}

func TestCardRendersMetricsAndEscapes(t *testing.T) {
	neo := sampleNEO()
	neo.Name = "<script>"

	out := html(t, func(buf *bytes.Buffer) error {
		return Card(neo, true).Render(context.Background(), buf)
	})

	assert.Contains(t, out, "card hazardous")
	assert.Contains(t, out, "Potentially hazardous")
	assert.Contains(t, out, "0.200 km")
	assert.Contains(t, out, "45,290,298 km")
	assert.Contains(t, out, "12.346 km/s")
	assert.Contains(t, out, "05 Mar 2024, 14:20")
	assert.Contains(t, out, `/select/3542519`)
	assert.Contains(t, out, " checked")
	assert.NotContains(t, out, "<script>")
}

func TestCardWithoutApproachShowsNA(t *testing.T) {
	neo := model.NearEarthObject{ID: "1", Name: "Bare", Date: "2024-01-01"}

	out := html(t, func(buf *bytes.Buffer) error {
		return Card(neo, false).Render(context.Background(), buf)
	})

	assert.Contains(t, out, "Avg diameter: N/A")
	assert.Contains(t, out, "Approach: N/A")
	assert.NotContains(t, out, " checked")
}

func homeData(state dashboard.State) HomeData {
	return HomeData{
		Layout:  LayoutData{User: "octocat", SelectionCount: state.SelectionCount},
		State:   state,
		Summary: service.Summarize(state.Items),
	}
}

func TestHomeGroupsCards(t *testing.T) {
	neo := sampleNEO()
	w := model.NewWindow(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	state := dashboard.State{
		Requested:    w,
		LoadedWindow: w,
		Items:        []model.NearEarthObject{neo},
		All:          []model.NearEarthObject{neo},
		Selected:     map[string]bool{},
	}

	out := html(t, func(buf *bytes.Buffer) error {
		return Home(homeData(state)).Render(context.Background(), buf)
	})

	assert.Contains(t, out, "Tue, 05 Mar 2024")
	assert.Contains(t, out, `value="2024-03-05"`)
	assert.Contains(t, out, `value="2024-03-06"`)
	assert.Contains(t, out, "Signed in as octocat")
	assert.Contains(t, out, "2010 PK9")
	assert.NotContains(t, out, "Dates changed")
}

func TestHomeShowsErrorInsteadOfList(t *testing.T) {
	neo := sampleNEO()
	loaded := model.NewWindow(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	state := dashboard.State{
		Requested:    model.NewWindow(loaded.Start, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)),
		LoadedWindow: loaded,
		Err:          errors.New("NASA API error 500: boom"),
		Items:        []model.NearEarthObject{neo},
		All:          []model.NearEarthObject{neo},
	}

	out := html(t, func(buf *bytes.Buffer) error {
		return HomeResults(homeData(state)).Render(context.Background(), buf)
	})

	assert.Contains(t, out, "NASA API error 500: boom")
	assert.NotContains(t, out, "2010 PK9")

	full := html(t, func(buf *bytes.Buffer) error {
		return Home(homeData(state)).Render(context.Background(), buf)
	})
	assert.Contains(t, full, "Dates changed")
}

func TestBuildChartScalesToWidest(t *testing.T) {
	near := sampleNEO()
	far := sampleNEO()
	far.ID, far.Name = "2", "Far"
	far.CloseApproaches[0].MissDistanceKm.Float64 = near.CloseApproaches[0].MissDistanceKm.Float64 * 2
	bare := model.NearEarthObject{ID: "3", Name: "Bare"}

	charts := CompareCharts([]model.NearEarthObject{near, far, bare})
	require.Len(t, charts, 3)

	miss := charts[0]
	require.Len(t, miss.Bars, 3)
	assert.InDelta(t, 0.5, miss.Bars[0].Width, 1e-9)
	assert.InDelta(t, 1.0, miss.Bars[1].Width, 1e-9)
	assert.False(t, miss.Bars[2].Valid)
	assert.Equal(t, NotAvailable, miss.Bars[2].Display)

	diam := charts[2]
	assert.Equal(t, "0.200 km", diam.Bars[0].Display)
	assert.Equal(t, NotAvailable, diam.Bars[2].Display)
}

func TestCompareEmptySelection(t *testing.T) {
	out := html(t, func(buf *bytes.Buffer) error {
		return Compare(CompareData{}).Render(context.Background(), buf)
	})
	assert.Contains(t, out, "Nothing selected yet")
	assert.NotContains(t, out, "<svg")
}

func TestDetailShowsOrbit(t *testing.T) {
	detail := &model.NeoDetail{
		NearEarthObject: sampleNEO(),
		Orbit: &model.OrbitalData{
			OrbitID:      "42",
			OrbitClass:   "APO",
			Eccentricity: sql.NullFloat64{Float64: 0.5123, Valid: true},
		},
	}

	out := html(t, func(buf *bytes.Buffer) error {
		return Detail(DetailData{Detail: detail}).Render(context.Background(), buf)
	})

	assert.Contains(t, out, "Orbit ID")
	assert.Contains(t, out, "APO")
	assert.Contains(t, out, "0.5123")
	assert.Contains(t, out, "Inclination")
	assert.Contains(t, out, "Earth")
}

func TestLayoutWrapsChildren(t *testing.T) {
	data := CompareData{Layout: LayoutData{AuthEnabled: true, DemoKey: true, SelectionCount: 2}}

	out := html(t, func(buf *bytes.Buffer) error {
		return Compare(data).Render(context.Background(), buf)
	})

	assert.Contains(t, out, "<title>Compare · NEO Watch</title>")
	assert.Contains(t, out, "Compare (2)")
	assert.Contains(t, out, `<a href="/login">Sign in with GitHub</a>`)
	assert.Contains(t, out, "DEMO_KEY")
	assert.Contains(t, out, "<main><p><a href=\"/\">← Back to dashboard</a></p><h1>Compare</h1>")
	assert.NotContains(t, out, "Sign out")
}

func TestCompareDrawsBars(t *testing.T) {
	near := sampleNEO()
	bare := model.NearEarthObject{ID: "3", Name: "Bare"}

	out := html(t, func(buf *bytes.Buffer) error {
		return Compare(CompareData{Selected: []model.NearEarthObject{near, bare}}).Render(context.Background(), buf)
	})

	assert.Contains(t, out, `viewBox="0 0 640 80"`)
	assert.Contains(t, out, `<rect x="180" y="10" width="300.0" height="22"`)
	assert.Contains(t, out, "Bare")
	assert.Contains(t, out, "45,290,298 km")
}
