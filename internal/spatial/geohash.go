package spatial

// Base32 encoding for geohash
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// EncodeGeohash encodes latitude and longitude into a geohash string.
// precision: number of characters in the geohash (1-12)
func EncodeGeohash(lat, lon float64, precision int) string {
	if precision < 1 {
		precision = 1
	}
	if precision > 12 {
		precision = 12
	}

	latRange := []float64{-90.0, 90.0}
	lonRange := []float64{-180.0, 180.0}

	geohash := make([]byte, 0, precision)
	bits := 0
	bit := 0
	ch := 0

	for len(geohash) < precision {
		if bit%2 == 0 {
			// Longitude
			mid := (lonRange[0] + lonRange[1]) / 2
			if lon > mid {
				ch |= (1 << (4 - bits))
				lonRange[0] = mid
			} else {
				lonRange[1] = mid
			}
		} else {
			// Latitude
			mid := (latRange[0] + latRange[1]) / 2
			if lat > mid {
				ch |= (1 << (4 - bits))
				latRange[0] = mid
			} else {
				latRange[1] = mid
			}
		}

		bits++
		if bits == 5 {
			geohash = append(geohash, base32[ch])
			bits = 0
			ch = 0
		}
		bit++
	}

	return string(geohash)
}

// DecodeGeohash decodes a geohash string into the center point of its cell
func DecodeGeohash(geohash string) (lat, lon float64) {
	minLat, minLon, maxLat, maxLon := GeohashBounds(geohash)
	return (minLat + maxLat) / 2, (minLon + maxLon) / 2
}

// GeohashBounds returns the bounding box of a geohash cell as
// (minLat, minLon, maxLat, maxLon)
func GeohashBounds(geohash string) (float64, float64, float64, float64) {
	latRange := []float64{-90.0, 90.0}
	lonRange := []float64{-180.0, 180.0}

	isLon := true
	for i := 0; i < len(geohash); i++ {
		idx := indexOfBase32(geohash[i])
		if idx == -1 {
			continue
		}

		for mask := 16; mask > 0; mask >>= 1 {
			if isLon {
				mid := (lonRange[0] + lonRange[1]) / 2
				if idx&mask != 0 {
					lonRange[0] = mid
				} else {
					lonRange[1] = mid
				}
			} else {
				mid := (latRange[0] + latRange[1]) / 2
				if idx&mask != 0 {
					latRange[0] = mid
				} else {
					latRange[1] = mid
				}
			}
			isLon = !isLon
		}
	}

	return latRange[0], lonRange[0], latRange[1], lonRange[1]
}

// GeohashNeighbors returns the 8 neighboring geohash cells
func GeohashNeighbors(geohash string) []string {
	lat, lon := DecodeGeohash(geohash)
	precision := len(geohash)

	minLat, minLon, maxLat, maxLon := GeohashBounds(geohash)
	latDelta := maxLat - minLat
	lonDelta := maxLon - minLon

	neighbors := make([]string, 0, 8)
	for dLat := -1; dLat <= 1; dLat++ {
		for dLon := -1; dLon <= 1; dLon++ {
			if dLat == 0 && dLon == 0 {
				continue
			}
			newLat := lat + float64(dLat)*latDelta
			newLon := lon + float64(dLon)*lonDelta

			// Handle wrapping
			if newLat > 90 {
				newLat = 90
			}
			if newLat < -90 {
				newLat = -90
			}
			if newLon > 180 {
				newLon -= 360
			}
			if newLon < -180 {
				newLon += 360
			}

			neighbors = append(neighbors, EncodeGeohash(newLat, newLon, precision))
		}
	}

	return neighbors
}

// geohashCellSizes holds approximate cell edge lengths in meters at the
// equator, per precision level
var geohashCellSizes = map[int]float64{
	1:  5000000,
	2:  625000,
	3:  123000,
	4:  19500,
	5:  3900,
	6:  610,
	7:  120,
	8:  19,
}

// GeohashPrecisionForRadius returns the coarsest geohash precision whose cell
// edge still covers the given search radius, so that a cell plus its eight
// neighbors is guaranteed to contain every point within radiusMeters of a
// point in the cell.
func GeohashPrecisionForRadius(radiusMeters float64) int {
	precision := 1
	for p := 1; p <= 8; p++ {
		if geohashCellSizes[p] >= radiusMeters {
			precision = p
		} else {
			break
		}
	}
	return precision
}

func indexOfBase32(ch byte) int {
	for i := 0; i < len(base32); i++ {
		if base32[i] == ch {
			return i
		}
	}
	return -1
}
