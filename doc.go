// Package spatial implements dynamic in-memory spatial indexes: a KD-tree
// over k-dimensional points, a point-region (PR) quadtree over 2-D points,
// and BestK, a bounded container that keeps the k lowest-priority entries
// and backs k-nearest-neighbor queries.
//
// Both trees support incremental insertion and deletion, and answer range
// and nearest-neighbor queries through the [Index] interface. Neither tree
// is rebalanced.
//
// Basic usage:
//
//	tree, err := spatial.NewKDTree(spatial.DefaultKDTreeConfig(2))
//	_ = tree.Insert(spatial.Point{3, 1})
//	_ = tree.Insert(spatial.Point{5, 4})
//	nb, err := tree.NearestNeighbor(spatial.Point{5, 5})
//	// nb.Point is [5 4], nb.Distance is 1
//
// The quadtree covers a fixed square of side 2^K around a centroid and
// splits buckets holding more than BucketingParam points:
//
//	cfg := spatial.DefaultQuadTreeConfig()
//	cfg.BucketingParam = 8
//	qt, err := spatial.NewQuadTree(cfg)
//	_ = qt.Insert(spatial.Point{1, 2})
//	best, err := qt.KNearestNeighbors(3, spatial.Point{0, 0})
//	for p, d := range best.All() {
//		// closest first
//	}
//
// # Distance metrics
//
// The KD-tree accepts any [DistanceMetric] for which the gap along a single
// axis is a lower bound on the full distance. Euclidean, Manhattan,
// Chebyshev and Minkowski (p >= 1) are built in. The quadtree is always
// Euclidean.
//
// # Logging
//
// Structural events such as quadtree splits and collapses are traced with
// glog at verbosity 2 (-v=2).
package spatial
