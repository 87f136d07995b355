package spatial

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Point is a location in a k-dimensional space. Trees never keep a caller's
// slice: they store and return copies made with Clone.
type Point []float64

// Dims returns the dimensionality of p.
func (p Point) Dims() int { return len(p) }

// Clone returns an independent copy of p.
func (p Point) Clone() Point {
	if p == nil {
		return nil
	}
	out := make(Point, len(p))
	copy(out, p)
	return out
}

// Equal reports whether p and q have identical coordinates.
func (p Point) Equal(q Point) bool { return floats.Equal(p, q) }

func (p Point) String() string { return fmt.Sprint([]float64(p)) }

// Neighbor is a query result: a copy of a stored point and its distance
// from the query anchor.
type Neighbor struct {
	Point    Point
	Distance float64
}

func validatePoint(p Point, dims int) error {
	if len(p) != dims {
		return fmt.Errorf("%w: point has %d dimensions, want %d", ErrInvalidArgument, len(p), dims)
	}
	if floats.HasNaN(p) {
		return fmt.Errorf("%w: point %v has a NaN coordinate", ErrInvalidArgument, p)
	}
	return nil
}

func validateRadius(radius float64) error {
	if math.IsNaN(radius) || radius < 0 {
		return fmt.Errorf("%w: radius must be >= 0, got %v", ErrInvalidArgument, radius)
	}
	return nil
}
