package templates

import (
	"database/sql"
	"fmt"

	"github.com/jjenkins/neows/internal/model"
)

const (
	chartWidth  = 640
	labelWidth  = 180
	valueWidth  = 140
	barHeight   = 22
	barGap      = 8
	chartMargin = 10
)

// Bar is one object's value in a comparison chart
type Bar struct {
	Label   string
	Value   float64
	Valid   bool
	Display string
	Width   float64 // share of the widest bar, 0..1
}

// Length is the drawn bar width in pixels
func (b Bar) Length() string {
	track := float64(chartWidth - labelWidth - valueWidth - chartMargin*2)
	return fmt.Sprintf("%.1f", b.Width*track)
}

// Chart is a horizontal bar chart over the selection
type Chart struct {
	Title string
	Bars  []Bar
}

// Height fits every bar plus the top and bottom margin
func (c Chart) Height() int {
	return chartMargin*2 + len(c.Bars)*(barHeight+barGap)
}

func (c Chart) ViewBox() string {
	return fmt.Sprintf("0 0 %d %d", chartWidth, c.Height())
}

func barY(i int) int {
	return chartMargin + i*(barHeight+barGap)
}

func labelY(i int) int {
	return barY(i) + barHeight*2/3
}

// BuildChart projects each object through metric. Absent values get no bar
// and display "N/A".
func BuildChart(title string, list []model.NearEarthObject, metric func(model.NearEarthObject) sql.NullFloat64, format func(sql.NullFloat64) string) Chart {
	chart := Chart{Title: title, Bars: make([]Bar, 0, len(list))}
	var widest float64
	for _, neo := range list {
		v := metric(neo)
		chart.Bars = append(chart.Bars, Bar{
			Label:   neo.DisplayName(),
			Value:   v.Float64,
			Valid:   v.Valid,
			Display: format(v),
		})
		if v.Valid && v.Float64 > widest {
			widest = v.Float64
		}
	}
	if widest > 0 {
		for i := range chart.Bars {
			if chart.Bars[i].Valid {
				chart.Bars[i].Width = chart.Bars[i].Value / widest
			}
		}
	}
	return chart
}

// CompareCharts builds the miss distance, velocity and diameter charts
func CompareCharts(list []model.NearEarthObject) []Chart {
	return []Chart{
		BuildChart("Miss distance", list, missDistance, FormatKm),
		BuildChart("Relative velocity", list, velocity, FormatKps),
		BuildChart("Average diameter", list, diameter, func(v sql.NullFloat64) string {
			return FormatDiameter(v.Float64, v.Valid)
		}),
	}
}

func missDistance(neo model.NearEarthObject) sql.NullFloat64 {
	cad, ok := neo.ClosestApproach()
	if !ok {
		return sql.NullFloat64{}
	}
	return cad.MissDistanceKm
}

func velocity(neo model.NearEarthObject) sql.NullFloat64 {
	cad, ok := neo.ClosestApproach()
	if !ok {
		return sql.NullFloat64{}
	}
	return cad.RelativeVelocityKps
}

func diameter(neo model.NearEarthObject) sql.NullFloat64 {
	avg, ok := neo.AverageKmDiameter()
	return sql.NullFloat64{Float64: avg, Valid: ok}
}

// CompareData is the comparison page
type CompareData struct {
	Layout   LayoutData
	Selected []model.NearEarthObject
}
