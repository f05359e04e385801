package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeed(t *testing.T) {
	feed, err := NewParser().ParseFeed([]byte(feedFixture))
	require.NoError(t, err)

	assert.Equal(t, 3, feed.ElementCount)
	require.Len(t, feed.ByDate["2024-01-01"], 2)
	require.Len(t, feed.ByDate["2024-01-02"], 1)

	pk9 := feed.ByDate["2024-01-02"][0]
	assert.Equal(t, "3542519", pk9.ID)
	assert.Equal(t, "2024-01-02", pk9.Date)
	assert.True(t, pk9.Hazardous)
	assert.InDelta(t, 21.9, pk9.AbsoluteMagnitude.Float64, 1e-9)
	require.Len(t, pk9.CloseApproaches, 1)

	cad := pk9.CloseApproaches[0]
	assert.Equal(t, "2024-Jan-02 19:31", cad.DateFull)
	assert.Equal(t, int64(1704223860000), cad.EpochMillis.Int64)
	assert.InDelta(t, 7052398.2363, cad.MissDistanceKm.Float64, 1e-3)
	assert.InDelta(t, 17.3211, cad.RelativeVelocityKps.Float64, 1e-4)
	assert.Equal(t, "Earth", cad.OrbitingBody)
}

func TestParseFeedAbsentValues(t *testing.T) {
	feed, err := NewParser().ParseFeed([]byte(feedFixture))
	require.NoError(t, err)

	qv11 := feed.ByDate["2024-01-01"][1]
	_, ok := qv11.AverageKmDiameter()
	assert.False(t, ok, "no kilometers block means no diameter")

	cad := qv11.CloseApproaches[0]
	assert.False(t, cad.RelativeVelocityKps.Valid, "non-numeric velocity is absent")
	assert.True(t, cad.MissDistanceKm.Valid)
	assert.Empty(t, cad.DateFull)
}

func TestParseFeedRejectsMalformed(t *testing.T) {
	_, err := NewParser().ParseFeed([]byte(`{"near_earth_objects": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse feed response")
}

func TestParseDetail(t *testing.T) {
	detail, err := NewParser().ParseDetail([]byte(lookupFixture))
	require.NoError(t, err)

	assert.Equal(t, "3542519", detail.ID)
	require.NotNil(t, detail.Orbit)
	assert.Equal(t, "52", detail.Orbit.OrbitID)
	assert.InDelta(t, 0.6863, detail.Orbit.Eccentricity.Float64, 1e-4)
	assert.InDelta(t, 1.5993, detail.Orbit.SemiMajorAxisAU.Float64, 1e-4)
	assert.InDelta(t, 11.4618, detail.Orbit.InclinationDeg.Float64, 1e-4)
	assert.Equal(t, "APO", detail.Orbit.OrbitClass)
	assert.Equal(t, int64(-2195510400000), detail.CloseApproaches[0].EpochMillis.Int64)
}

func TestParseDetailRequiresID(t *testing.T) {
	_, err := NewParser().ParseDetail([]byte(`{"name": "nameless"}`))
	require.Error(t, err)
}

func TestNumeric(t *testing.T) {
	assert.True(t, numeric([]byte(`"12.5"`)).Valid)
	assert.True(t, numeric([]byte(`12.5`)).Valid)
	assert.False(t, numeric([]byte(`"NaN"`)).Valid)
	assert.False(t, numeric([]byte(`null`)).Valid)
	assert.False(t, numeric(nil).Valid)
	assert.False(t, number([]byte(`"12.5"`)).Valid, "number rejects strings")
	assert.False(t, nonNegative(numeric([]byte(`-4`))).Valid)
}
