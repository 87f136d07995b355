package spatial

// Index is the dynamic point-index interface shared by KDTree and QuadTree.
// Range, NearestNeighbor and KNearestNeighbors never report points equal to
// the anchor.
type Index interface {
	// Insert stores a copy of p.
	Insert(p Point) error

	// Delete removes one point equal to p, or returns ErrNotFound.
	Delete(p Point) error

	// Search reports whether a point equal to p is stored.
	Search(p Point) bool

	// Range returns copies of the stored points within radius of anchor.
	Range(anchor Point, radius float64) ([]Point, error)

	// NearestNeighbor returns the closest stored point to anchor.
	NearestNeighbor(anchor Point) (Neighbor, error)

	// KNearestNeighbors returns up to k closest stored points to anchor,
	// prioritized by distance.
	KNearestNeighbors(k int, anchor Point) (*BestK[Point], error)

	// Height returns the tree height; -1 when empty.
	Height() int

	// Len returns the number of stored points.
	Len() int

	// Points returns copies of every stored point.
	Points() []Point
}

var (
	_ Index = (*KDTree)(nil)
	_ Index = (*QuadTree)(nil)
)
