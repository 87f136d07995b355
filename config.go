package spatial

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// KDTreeConfig controls KD-tree construction.
// Start with [DefaultKDTreeConfig] and override the fields you need.
type KDTreeConfig struct {
	// Dims is the dimensionality shared by every point in the tree.
	// Must be >= 1.
	Dims int

	// Metric measures point distances for range and nearest-neighbor
	// queries. Built-in: EuclideanMetric, ManhattanMetric, ChebyshevMetric,
	// MinkowskiMetric. Default: EuclideanMetric.
	Metric DistanceMetric
}

// DefaultKDTreeConfig returns a Euclidean KDTreeConfig for dims dimensions.
func DefaultKDTreeConfig(dims int) KDTreeConfig {
	return KDTreeConfig{
		Dims:   dims,
		Metric: EuclideanMetric{},
	}
}

func (cfg *KDTreeConfig) applyDefaults() {
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
}

func (cfg *KDTreeConfig) validate() error {
	if cfg.Dims < 1 {
		return fmt.Errorf("%w: Dims must be >= 1, got %d", ErrInvalidArgument, cfg.Dims)
	}
	switch m := cfg.Metric.(type) {
	case MinkowskiMetric:
		return validateMinkowskiP(m.P)
	case *MinkowskiMetric:
		if m == nil {
			return fmt.Errorf("%w: nil *MinkowskiMetric", ErrInvalidArgument)
		}
		return validateMinkowskiP(m.P)
	}
	return nil
}

func validateMinkowskiP(p float64) error {
	if !(p >= 1) || math.IsInf(p, 1) {
		return fmt.Errorf("%w: MinkowskiMetric P must be finite and >= 1, got %v", ErrInvalidArgument, p)
	}
	return nil
}

// QuadTreeConfig controls PR quadtree construction.
// Start with [DefaultQuadTreeConfig] and override the fields you need.
type QuadTreeConfig struct {
	// Centroid is the center of the square spanned by the root.
	Centroid r2.Vec

	// K is the side-length exponent of the root square: the root spans
	// 2^K units on each axis. Each level below the root decrements K.
	// Default: 16.
	K int

	// BucketingParam is the maximum number of points a bucket node may
	// hold before it is split into four quadrants. Must be >= 1. Default: 4.
	BucketingParam int
}

const (
	defaultQuadK              = 16
	defaultQuadBucketingParam = 4

	// 2^maxQuadK stays well inside float64 range.
	maxQuadK = 1000
)

// DefaultQuadTreeConfig returns a QuadTreeConfig centered on the origin.
func DefaultQuadTreeConfig() QuadTreeConfig {
	return QuadTreeConfig{
		K:              defaultQuadK,
		BucketingParam: defaultQuadBucketingParam,
	}
}

func (cfg *QuadTreeConfig) applyDefaults() {
	if cfg.BucketingParam == 0 {
		cfg.BucketingParam = defaultQuadBucketingParam
	}
}

func (cfg *QuadTreeConfig) validate() error {
	if cfg.BucketingParam < 1 {
		return fmt.Errorf("%w: BucketingParam must be >= 1, got %d", ErrInvalidArgument, cfg.BucketingParam)
	}
	if math.IsNaN(cfg.Centroid.X) || math.IsNaN(cfg.Centroid.Y) ||
		math.IsInf(cfg.Centroid.X, 0) || math.IsInf(cfg.Centroid.Y, 0) {
		return fmt.Errorf("%w: Centroid must be finite, got %v", ErrInvalidArgument, cfg.Centroid)
	}
	if cfg.K < minQuadK || cfg.K > maxQuadK {
		return fmt.Errorf("%w: K must be within [%d, %d], got %d", ErrInvalidArgument, minQuadK, maxQuadK, cfg.K)
	}
	return nil
}
