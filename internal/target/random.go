// Package target issues hunt targets around a user's position.
package target

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/m3rciful/gotto/internal/hunt"
)

// ErrInvalidRadius is returned for non-positive radii.
var ErrInvalidRadius = errors.New("target: radius must be positive")

// maxDistance is half the Earth's circumference; every point is within it.
const maxDistance = math.Pi * hunt.EarthRadiusMeters

// Random draws targets uniformly from the disc of the requested radius.
// It is safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeed reads a seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("target: read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// NewRandom returns a generator seeded from crypto/rand.
func NewRandom() (*Random, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewRandomWithSeed(seed), nil
}

// NewRandomWithSeed returns a deterministic generator.
func NewRandomWithSeed(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate returns a point at most radiusMeters from origin.
func (r *Random) Generate(ctx context.Context, origin hunt.Coordinate, radiusMeters int) (hunt.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return hunt.Coordinate{}, err
	}
	if radiusMeters <= 0 {
		return hunt.Coordinate{}, fmt.Errorf("%w: %d", ErrInvalidRadius, radiusMeters)
	}

	r.mu.Lock()
	u, v := r.rng.Float64(), r.rng.Float64()
	r.mu.Unlock()

	radius := math.Min(float64(radiusMeters), maxDistance)
	// sqrt keeps the density uniform over the area rather than the radius.
	return Destination(origin, radius*math.Sqrt(u), 2*math.Pi*v), nil
}

// Destination walks meters from origin along the initial bearing (radians,
// clockwise from north) on a spherical Earth.
func Destination(origin hunt.Coordinate, meters, bearing float64) hunt.Coordinate {
	delta := meters / hunt.EarthRadiusMeters
	phi1 := origin.Lat * math.Pi / 180
	lambda1 := origin.Lon * math.Pi / 180

	sinPhi2 := math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(bearing)
	sinPhi2 = math.Max(-1, math.Min(1, sinPhi2))
	phi2 := math.Asin(sinPhi2)
	lambda2 := lambda1 + math.Atan2(
		math.Sin(bearing)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*sinPhi2,
	)

	return hunt.Coordinate{
		Lat: phi2 * 180 / math.Pi,
		Lon: normalizeLon(lambda2 * 180 / math.Pi),
	}
}

// normalizeLon folds a longitude into [-180, 180).
func normalizeLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
