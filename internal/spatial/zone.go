package spatial

// Zone represents a named circular sensitive area (port approach, anchorage,
// restricted water) used by the risk scorer
type Zone struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radiusMeters"`
}

// Contains reports whether the given position falls inside the zone, measured
// geodesically against the zone radius
func (z Zone) Contains(lat, lon float64) bool {
	return HaversineDistance(z.Latitude, z.Longitude, lat, lon) <= z.RadiusMeters
}

// AnyZoneContains reports whether the position falls inside any of the zones
func AnyZoneContains(zones []Zone, lat, lon float64) bool {
	for _, z := range zones {
		if z.Contains(lat, lon) {
			return true
		}
	}
	return false
}
