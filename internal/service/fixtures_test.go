package service

import (
	"io"
	"log"
)

var testLogger = log.New(io.Discard, "", 0)

// feedFixture mirrors the NeoWs feed shape, including numeric strings and
// an object without a km diameter.
const feedFixture = `{
  "links": {"self": "http://api.nasa.gov/neo/rest/v1/feed?start_date=2024-01-01&end_date=2024-01-02"},
  "element_count": 3,
  "near_earth_objects": {
    "2024-01-02": [
      {
        "id": "3542519",
        "name": "(2010 PK9)",
        "nasa_jpl_url": "https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=3542519",
        "absolute_magnitude_h": 21.9,
        "estimated_diameter": {"kilometers": {"estimated_diameter_min": 0.1058168859, "estimated_diameter_max": 0.2366137501}},
        "is_potentially_hazardous_asteroid": true,
        "close_approach_data": [
          {
            "close_approach_date": "2024-01-02",
            "close_approach_date_full": "2024-Jan-02 19:31",
            "epoch_date_close_approach": 1704223860000,
            "relative_velocity": {"kilometers_per_second": "17.3211203049"},
            "miss_distance": {"kilometers": "7052398.236297837"},
            "orbiting_body": "Earth"
          }
        ],
        "is_sentry_object": false
      }
    ],
    "2024-01-01": [
      {
        "id": "2465633",
        "name": "465633 (2009 JR5)",
        "estimated_diameter": {"kilometers": {"estimated_diameter_min": 0.2, "estimated_diameter_max": 0.4}},
        "is_potentially_hazardous_asteroid": false,
        "close_approach_data": [
          {
            "close_approach_date": "2024-01-01",
            "close_approach_date_full": "2024-Jan-01 20:28",
            "epoch_date_close_approach": 1704140880000,
            "relative_velocity": {"kilometers_per_second": "18.1279360862"},
            "miss_distance": {"kilometers": "45290298.225725659"},
            "orbiting_body": "Earth"
          }
        ]
      },
      {
        "id": "3426410",
        "name": "(2008 QV11)",
        "estimated_diameter": {"meters": {"estimated_diameter_min": 200, "estimated_diameter_max": 450}},
        "is_potentially_hazardous_asteroid": false,
        "close_approach_data": [
          {
            "close_approach_date": "2024-01-01",
            "epoch_date_close_approach": 1704099600000,
            "relative_velocity": {"kilometers_per_second": "n/a"},
            "miss_distance": {"kilometers": "12345.5"},
            "orbiting_body": "Earth"
          }
        ]
      }
    ]
  }
}`

// emptyFeed is a valid feed response with no objects.
const emptyFeed = `{"element_count": 0, "near_earth_objects": {}}`

const lookupFixture = `{
  "id": "3542519",
  "name": "(2010 PK9)",
  "nasa_jpl_url": "https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=3542519",
  "absolute_magnitude_h": 21.9,
  "estimated_diameter": {"kilometers": {"estimated_diameter_min": 0.1058168859, "estimated_diameter_max": 0.2366137501}},
  "is_potentially_hazardous_asteroid": true,
  "close_approach_data": [
    {"close_approach_date": "1900-06-01", "epoch_date_close_approach": -2195510400000, "relative_velocity": {"kilometers_per_second": "20.1"}, "miss_distance": {"kilometers": "55000000"}, "orbiting_body": "Earth"}
  ],
  "orbital_data": {
    "orbit_id": "52",
    "orbit_determination_date": "2021-04-15 06:19:58",
    "first_observation_date": "2010-07-24",
    "last_observation_date": "2021-03-17",
    "eccentricity": ".6863438950023151",
    "semi_major_axis": "1.599306935452164",
    "inclination": "11.4617591327413",
    "orbit_class": {"orbit_class_type": "APO", "orbit_class_description": "Near-Earth asteroid orbits which cross the Earth's orbit"}
  },
  "is_sentry_object": false
}`
