package pipeline

import (
	"slices"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
)

// JoinStations attaches station names and coordinates by matching
// Observation.Station against StationMetadata.SourceID. Observations
// from stations absent in the metadata keep their data but stay off the
// map (HasCoords false). The input table is not modified.
func JoinStations(obs []domain.Observation, stations []domain.StationMetadata) []domain.Observation {
	byID := make(map[string]domain.StationMetadata, len(stations))
	for _, s := range stations {
		byID[s.SourceID] = s
	}
	out := slices.Clone(obs)
	for i := range out {
		s, ok := byID[out[i].Station]
		if !ok {
			continue
		}
		out[i].StationName = s.Name
		out[i].Lon = s.Lon
		out[i].Lat = s.Lat
		out[i].HasCoords = true
	}
	return out
}
