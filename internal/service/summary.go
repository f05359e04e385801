package service

import (
	"github.com/jjenkins/neows/internal/model"
)

// FeedSummary holds headline figures over a list of close-approach records
type FeedSummary struct {
	TotalObjects     int
	HazardousObjects int
	Dates            int

	ClosestName    string
	ClosestKm      float64
	HasClosest     bool
	FastestName    string
	FastestKps     float64
	HasFastest     bool
	LargestName    string
	LargestKm      float64
	HasLargest     bool
	AverageDiamKm  float64
	DiameterSample int
}

// Summarize calculates summary figures. Records with absent metrics are
// skipped for the metric they lack.
func Summarize(list []model.NearEarthObject) FeedSummary {
	s := FeedSummary{TotalObjects: len(list)}
	dates := make(map[string]struct{})
	var diamSum float64

	for _, neo := range list {
		dates[neo.Date] = struct{}{}
		if neo.Hazardous {
			s.HazardousObjects++
		}

		if cad, ok := neo.ClosestApproach(); ok {
			if d := cad.MissDistanceKm; d.Valid && (!s.HasClosest || d.Float64 < s.ClosestKm) {
				s.ClosestName, s.ClosestKm, s.HasClosest = neo.Name, d.Float64, true
			}
			if v := cad.RelativeVelocityKps; v.Valid && (!s.HasFastest || v.Float64 > s.FastestKps) {
				s.FastestName, s.FastestKps, s.HasFastest = neo.Name, v.Float64, true
			}
		}

		if avg, ok := neo.AverageKmDiameter(); ok {
			diamSum += avg
			s.DiameterSample++
			if !s.HasLargest || avg > s.LargestKm {
				s.LargestName, s.LargestKm, s.HasLargest = neo.Name, avg, true
			}
		}
	}

	s.Dates = len(dates)
	if s.DiameterSample > 0 {
		s.AverageDiamKm = diamSum / float64(s.DiameterSample)
	}

	return s
}
