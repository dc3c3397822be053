package encounter

import (
	"math"
	"sort"

	"github.com/harborwatch/marinetrack/internal/models"
	"github.com/harborwatch/marinetrack/internal/spatial"
)

// candidatePairs buckets the snapshot's vessels into geohash cells sized to
// cover the search radius and returns every unordered pair sharing a cell or
// sitting in adjacent cells. Pairs farther apart than the radius can never
// share a neighborhood, so the quadratic all-pairs sweep reduces to local
// comparisons without changing detection semantics. Output is sorted for
// deterministic downstream processing.
func candidatePairs(snap map[string]models.PositionSample, radiusMeters float64) [][2]string {
	precision := spatial.GeohashPrecisionForRadius(effectiveRadius(snap, radiusMeters))

	cells := make(map[string][]string)
	for id, s := range snap {
		cell := spatial.EncodeGeohash(s.Latitude, s.Longitude, precision)
		cells[cell] = append(cells[cell], id)
	}

	cellKeys := make([]string, 0, len(cells))
	for key := range cells {
		sort.Strings(cells[key])
		cellKeys = append(cellKeys, key)
	}
	sort.Strings(cellKeys)

	seen := make(map[[2]string]struct{})
	var pairs [][2]string

	addPair := func(a, b string) {
		if a == b {
			return
		}
		if a > b {
			a, b = b, a
		}
		key := [2]string{a, b}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		pairs = append(pairs, key)
	}

	for _, key := range cellKeys {
		members := cells[key]

		// Pairs within the cell
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				addPair(members[i], members[j])
			}
		}

		// Pairs across adjacent cells
		for _, neighbor := range spatial.GeohashNeighbors(key) {
			others, ok := cells[neighbor]
			if !ok {
				continue
			}
			for _, a := range members {
				for _, b := range others {
					addPair(a, b)
				}
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

// effectiveRadius widens the search radius by the longitudinal shrink at the
// snapshot's highest latitude. Geohash cells keep a fixed degree width, so
// their east-west edge contracts by cos(lat); sizing cells by the raw radius
// would undercover high-latitude pairs. Latitudes are capped short of the
// poles where the cell model degenerates.
func effectiveRadius(snap map[string]models.PositionSample, radiusMeters float64) float64 {
	maxLat := 0.0
	for _, s := range snap {
		if lat := math.Abs(s.Latitude); lat > maxLat {
			maxLat = lat
		}
	}
	if maxLat > 85 {
		maxLat = 85
	}
	return radiusMeters / math.Cos(maxLat*math.Pi/180)
}
