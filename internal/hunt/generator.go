package hunt

import "context"

// Generator picks a target roughly within radiusMeters of origin. The engine
// does not validate the result.
type Generator interface {
	Generate(ctx context.Context, origin Coordinate, radiusMeters int) (Coordinate, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, origin Coordinate, radiusMeters int) (Coordinate, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, origin Coordinate, radiusMeters int) (Coordinate, error) {
	return f(ctx, origin, radiusMeters)
}
