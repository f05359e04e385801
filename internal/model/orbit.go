package model

import "database/sql"

// OrbitalData holds the orbit solution returned by the NeoWs lookup endpoint
type OrbitalData struct {
	OrbitID                string
	OrbitDeterminationDate string
	FirstObservationDate   string
	LastObservationDate    string
	Eccentricity           sql.NullFloat64
	SemiMajorAxisAU        sql.NullFloat64
	InclinationDeg         sql.NullFloat64
	OrbitClass             string
	OrbitClassDescription  string
}

// NeoDetail is a single object lookup, including every known close approach
type NeoDetail struct {
	NearEarthObject
	Orbit *OrbitalData
}
