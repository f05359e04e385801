package model

import (
	"database/sql"
	"strings"
)

// NearEarthObject is one object's close-approach record for a single feed date
type NearEarthObject struct {
	ID                string
	Name              string
	Date              string // feed bucket the record was listed under (YYYY-MM-DD)
	Hazardous         bool
	Sentry            bool
	AbsoluteMagnitude sql.NullFloat64
	Diameter          DiameterRange
	CloseApproaches   []CloseApproach
	JPLURL            string
}

// DiameterRange is the estimated size of an object in kilometers
type DiameterRange struct {
	MinKm sql.NullFloat64
	MaxKm sql.NullFloat64
}

// CloseApproach is a single pass of an object near an orbited body
type CloseApproach struct {
	Date                string // YYYY-MM-DD
	DateFull            string // YYYY-Mon-DD HH:MM, may be empty
	EpochMillis         sql.NullInt64
	MissDistanceKm      sql.NullFloat64
	RelativeVelocityKps sql.NullFloat64
	OrbitingBody        string
}

// Approach is the display projection of a record's primary close approach
type Approach struct {
	Timestamp           string
	MissDistanceKm      sql.NullFloat64
	RelativeVelocityKps sql.NullFloat64
	OrbitingBody        string
}

// AverageKmDiameter returns the midpoint of the estimated diameter range.
// It reports false when either bound is missing.
func (n NearEarthObject) AverageKmDiameter() (float64, bool) {
	if !n.Diameter.MinKm.Valid || !n.Diameter.MaxKm.Valid {
		return 0, false
	}
	return (n.Diameter.MinKm.Float64 + n.Diameter.MaxKm.Float64) / 2, true
}

// Primary returns the first close approach, which every single-value metric
// is derived from.
func (n NearEarthObject) Primary() (CloseApproach, bool) {
	if len(n.CloseApproaches) == 0 {
		return CloseApproach{}, false
	}
	return n.CloseApproaches[0], true
}

// ClosestApproach projects the primary close approach for display
func (n NearEarthObject) ClosestApproach() (Approach, bool) {
	cad, ok := n.Primary()
	if !ok {
		return Approach{}, false
	}

	ts := cad.DateFull
	if ts == "" {
		ts = cad.Date + " 00:00"
	}

	return Approach{
		Timestamp:           ts,
		MissDistanceKm:      cad.MissDistanceKm,
		RelativeVelocityKps: cad.RelativeVelocityKps,
		OrbitingBody:        cad.OrbitingBody,
	}, true
}

// ApproachEpoch is the sort key used by the dashboard; records without a
// primary approach epoch sort as zero.
func (n NearEarthObject) ApproachEpoch() int64 {
	cad, ok := n.Primary()
	if !ok || !cad.EpochMillis.Valid {
		return 0
	}
	return cad.EpochMillis.Int64
}

// DisplayName strips the parentheses NeoWs wraps provisional designations in
func (n NearEarthObject) DisplayName() string {
	name := strings.TrimSpace(n.Name)
	if strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")") {
		return strings.TrimSuffix(strings.TrimPrefix(name, "("), ")")
	}
	return name
}

// Feed is one windowed response from the NeoWs feed endpoint
type Feed struct {
	ElementCount int
	ByDate       map[string][]NearEarthObject
}
