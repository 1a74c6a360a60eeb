package hunt

import (
	"math"
	"strconv"
)

const (
	// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
	EarthRadiusMeters = 6371000.0
	// ThresholdMeters is how close a user must be to a target to reach it.
	// Help text advertises this value.
	ThresholdMeters = 100
)

// Coordinate is a WGS-84 point in degrees. Ranges are not validated.
type Coordinate struct {
	Lat float64
	Lon float64
}

// String renders the coordinate as "lat, lon" with six decimals (~0.1 m).
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + ", " + strconv.FormatFloat(c.Lon, 'f', 6, 64)
}

// Distance returns the haversine great-circle distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	dPhi := radians(b.Lat - a.Lat)
	dLambda := radians(b.Lon - a.Lon)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	// Rounding can push h just outside [0, 1] for antipodal points.
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// CheckProximity reports whether origin is within ThresholdMeters of target,
// together with the distance between them.
func CheckProximity(origin, target Coordinate) (bool, float64) {
	d := Distance(origin, target)
	return d <= ThresholdMeters, d
}

// RoundMeters rounds a distance for display, half to even.
func RoundMeters(m float64) int {
	return int(math.RoundToEven(m))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
