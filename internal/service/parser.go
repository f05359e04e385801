package service

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jjenkins/neows/internal/model"
)

// feedResponse represents the API response for /neo/rest/v1/feed
type feedResponse struct {
	ElementCount     int                  `json:"element_count"`
	NearEarthObjects map[string][]neoJSON `json:"near_earth_objects"`
}

// neoJSON represents a near-Earth object in the API response. Numeric fields
// are kept raw because NeoWs sends some of them as strings.
type neoJSON struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	NasaJPLURL        string          `json:"nasa_jpl_url"`
	AbsoluteMagnitude json.RawMessage `json:"absolute_magnitude_h"`
	Hazardous         bool            `json:"is_potentially_hazardous_asteroid"`
	Sentry            bool            `json:"is_sentry_object"`
	EstimatedDiameter struct {
		Kilometers *struct {
			Min json.RawMessage `json:"estimated_diameter_min"`
			Max json.RawMessage `json:"estimated_diameter_max"`
		} `json:"kilometers"`
	} `json:"estimated_diameter"`
	CloseApproachData []closeApproachJSON `json:"close_approach_data"`
	OrbitalData       *orbitalJSON        `json:"orbital_data"`
}

type closeApproachJSON struct {
	Date             string          `json:"close_approach_date"`
	DateFull         string          `json:"close_approach_date_full"`
	Epoch            json.RawMessage `json:"epoch_date_close_approach"`
	RelativeVelocity struct {
		KilometersPerSecond json.RawMessage `json:"kilometers_per_second"`
	} `json:"relative_velocity"`
	MissDistance struct {
		Kilometers json.RawMessage `json:"kilometers"`
	} `json:"miss_distance"`
	OrbitingBody string `json:"orbiting_body"`
}

type orbitalJSON struct {
	OrbitID                string          `json:"orbit_id"`
	OrbitDeterminationDate string          `json:"orbit_determination_date"`
	FirstObservationDate   string          `json:"first_observation_date"`
	LastObservationDate    string          `json:"last_observation_date"`
	Eccentricity           json.RawMessage `json:"eccentricity"`
	SemiMajorAxis          json.RawMessage `json:"semi_major_axis"`
	Inclination            json.RawMessage `json:"inclination"`
	OrbitClass             *struct {
		Type        string `json:"orbit_class_type"`
		Description string `json:"orbit_class_description"`
	} `json:"orbit_class"`
}

// Parser converts NeoWs JSON payloads into model records
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseFeed decodes a feed payload. Records keep the provider's order within
// each date and are tagged with their date bucket.
func (p *Parser) ParseFeed(content []byte) (*model.Feed, error) {
	var resp feedResponse
	if err := json.Unmarshal(content, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse feed response: %w", err)
	}

	feed := &model.Feed{
		ElementCount: resp.ElementCount,
		ByDate:       make(map[string][]model.NearEarthObject, len(resp.NearEarthObjects)),
	}

	for date, raw := range resp.NearEarthObjects {
		records := make([]model.NearEarthObject, len(raw))
		for i, n := range raw {
			records[i] = convertNeoJSON(n)
			records[i].Date = date
		}
		feed.ByDate[date] = records
	}

	return feed, nil
}

// ParseDetail decodes a single-object lookup payload
func (p *Parser) ParseDetail(content []byte) (*model.NeoDetail, error) {
	var n neoJSON
	if err := json.Unmarshal(content, &n); err != nil {
		return nil, fmt.Errorf("failed to parse lookup response: %w", err)
	}
	if n.ID == "" {
		return nil, fmt.Errorf("failed to parse lookup response: missing id")
	}

	detail := &model.NeoDetail{NearEarthObject: convertNeoJSON(n)}
	if n.OrbitalData != nil {
		detail.Orbit = convertOrbitalJSON(*n.OrbitalData)
	}

	return detail, nil
}

func convertNeoJSON(n neoJSON) model.NearEarthObject {
	neo := model.NearEarthObject{
		ID:                n.ID,
		Name:              n.Name,
		Hazardous:         n.Hazardous,
		Sentry:            n.Sentry,
		AbsoluteMagnitude: numeric(n.AbsoluteMagnitude),
		JPLURL:            n.NasaJPLURL,
		CloseApproaches:   make([]model.CloseApproach, len(n.CloseApproachData)),
	}

	// Diameters are only accepted as JSON numbers.
	if km := n.EstimatedDiameter.Kilometers; km != nil {
		neo.Diameter = model.DiameterRange{
			MinKm: number(km.Min),
			MaxKm: number(km.Max),
		}
	}

	for i, cad := range n.CloseApproachData {
		neo.CloseApproaches[i] = model.CloseApproach{
			Date:                cad.Date,
			DateFull:            cad.DateFull,
			EpochMillis:         epoch(cad.Epoch),
			MissDistanceKm:      nonNegative(numeric(cad.MissDistance.Kilometers)),
			RelativeVelocityKps: nonNegative(numeric(cad.RelativeVelocity.KilometersPerSecond)),
			OrbitingBody:        cad.OrbitingBody,
		}
	}

	return neo
}

func convertOrbitalJSON(o orbitalJSON) *model.OrbitalData {
	orbit := &model.OrbitalData{
		OrbitID:                o.OrbitID,
		OrbitDeterminationDate: o.OrbitDeterminationDate,
		FirstObservationDate:   o.FirstObservationDate,
		LastObservationDate:    o.LastObservationDate,
		Eccentricity:           numeric(o.Eccentricity),
		SemiMajorAxisAU:        numeric(o.SemiMajorAxis),
		InclinationDeg:         numeric(o.Inclination),
	}
	if o.OrbitClass != nil {
		orbit.OrbitClass = o.OrbitClass.Type
		orbit.OrbitClassDescription = o.OrbitClass.Description
	}
	return orbit
}

// number accepts a JSON number only.
func number(raw json.RawMessage) sql.NullFloat64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return sql.NullFloat64{}
	}
	return parseFloat(string(raw))
}

// numeric accepts a JSON number or a string holding one.
func numeric(raw json.RawMessage) sql.NullFloat64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return sql.NullFloat64{}
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return sql.NullFloat64{}
		}
		return parseFloat(strings.TrimSpace(s))
	}
	return parseFloat(string(raw))
}

func parseFloat(s string) sql.NullFloat64 {
	if s == "" || s == "null" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nonNegative(v sql.NullFloat64) sql.NullFloat64 {
	if v.Valid && v.Float64 < 0 {
		return sql.NullFloat64{}
	}
	return v
}

func epoch(raw json.RawMessage) sql.NullInt64 {
	f := numeric(raw)
	if !f.Valid {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(f.Float64), Valid: true}
}
