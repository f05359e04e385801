package model

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}

func TestAverageKmDiameter(t *testing.T) {
	neo := NearEarthObject{Diameter: DiameterRange{MinKm: valid(0.1), MaxKm: valid(0.3)}}
	avg, ok := neo.AverageKmDiameter()
	require.True(t, ok)
	assert.InDelta(t, 0.2, avg, 1e-12)

	missingMax := NearEarthObject{Diameter: DiameterRange{MinKm: valid(0.1)}}
	_, ok = missingMax.AverageKmDiameter()
	assert.False(t, ok)

	_, ok = NearEarthObject{}.AverageKmDiameter()
	assert.False(t, ok)
}

func TestClosestApproachReadsFirstEntry(t *testing.T) {
	neo := NearEarthObject{
		CloseApproaches: []CloseApproach{
			{Date: "2024-01-01", DateFull: "2024-Jan-01 12:34", MissDistanceKm: valid(900), RelativeVelocityKps: valid(12.5), OrbitingBody: "Earth"},
			{Date: "2024-02-01", MissDistanceKm: valid(10), RelativeVelocityKps: valid(40), OrbitingBody: "Mars"},
			{Date: "2024-03-01", MissDistanceKm: valid(1), RelativeVelocityKps: valid(1), OrbitingBody: "Venus"},
		},
	}

	got, ok := neo.ClosestApproach()
	require.True(t, ok)
	assert.Equal(t, "2024-Jan-01 12:34", got.Timestamp)
	assert.Equal(t, 900.0, got.MissDistanceKm.Float64)
	assert.Equal(t, 12.5, got.RelativeVelocityKps.Float64)
	assert.Equal(t, "Earth", got.OrbitingBody)
}

func TestClosestApproachDateOnly(t *testing.T) {
	neo := NearEarthObject{CloseApproaches: []CloseApproach{{Date: "2024-01-01"}}}

	got, ok := neo.ClosestApproach()
	require.True(t, ok)
	assert.Equal(t, "2024-01-01 00:00", got.Timestamp)
	assert.False(t, got.MissDistanceKm.Valid, "absent values stay absent")
	assert.False(t, got.RelativeVelocityKps.Valid)
}

func TestClosestApproachAbsent(t *testing.T) {
	_, ok := NearEarthObject{}.ClosestApproach()
	assert.False(t, ok)
	assert.Equal(t, int64(0), NearEarthObject{}.ApproachEpoch())
}

func TestProjectionsDoNotMutate(t *testing.T) {
	neo := NearEarthObject{
		Diameter:        DiameterRange{MinKm: valid(1), MaxKm: valid(3)},
		CloseApproaches: []CloseApproach{{Date: "2024-01-01"}},
	}
	before := neo

	neo.AverageKmDiameter()
	neo.ClosestApproach()

	assert.Equal(t, before, neo)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "2024 AB1", NearEarthObject{Name: "(2024 AB1)"}.DisplayName())
	assert.Equal(t, "433 Eros (A898 PA)", NearEarthObject{Name: "433 Eros (A898 PA)"}.DisplayName())
}

func TestWindow(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }

	w := NewWindow(day(1), day(10))
	assert.Equal(t, 10, w.Days())
	assert.Equal(t, "2024-01-01..2024-01-10", w.String())
	assert.True(t, w.Equal(NewWindow(day(1), day(10).Add(5*time.Hour))))
	assert.False(t, w.Equal(NewWindow(day(1), day(11))))

	assert.Equal(t, 0, NewWindow(day(5), day(4)).Days())
	assert.True(t, Window{}.IsZero())
}
