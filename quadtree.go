package spatial

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// QuadTree is a point-region quadtree over 2-D points. The root spans the
// square of side 2^K centered on the configured centroid; every node splits
// its square into four equal quadrants. Points live only in bucket nodes,
// which hold at most BucketingParam points before they are split.
//
// Points are a set: inserting a point already present is a no-op. Deletes
// collapse branches back into buckets as soon as their points fit in one.
//
// A QuadTree is not safe for concurrent use.
type QuadTree struct {
	root           quadNode
	centroid       r2.Vec
	k              int
	bucketingParam int
	n              int
}

// NewQuadTree returns an empty quadtree. Returns an error if the config is
// invalid.
func NewQuadTree(cfg QuadTreeConfig) (*QuadTree, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &QuadTree{
		centroid:       cfg.Centroid,
		k:              cfg.K,
		bucketingParam: cfg.BucketingParam,
	}, nil
}

// Bounds returns the closed square spanned by the root.
func (t *QuadTree) Bounds() r2.Box { return squareBox(t.centroid, t.k) }

// Len returns the number of stored points.
func (t *QuadTree) Len() int { return t.n }

// BucketingParam returns the most points a bucket holds before it splits.
func (t *QuadTree) BucketingParam() int { return t.bucketingParam }

// toVec validates p as a 2-D point.
func (t *QuadTree) toVec(p Point) (r2.Vec, error) {
	if err := validatePoint(p, 2); err != nil {
		return r2.Vec{}, err
	}
	return r2.Vec{X: p[0], Y: p[1]}, nil
}

func (t *QuadTree) contains(v r2.Vec) bool {
	return t.Bounds().Contains(v)
}

// Insert adds p. Returns ErrInvalidArgument if p lies outside the root
// square.
func (t *QuadTree) Insert(p Point) error {
	v, err := t.toVec(p)
	if err != nil {
		return err
	}
	if !t.contains(v) {
		return fmt.Errorf("%w: %v lies outside the quadtree bounds %v", ErrInvalidArgument, p, t.Bounds())
	}
	if t.root == nil {
		t.root = newBucketNode(t.centroid, t.k, t.bucketingParam, v)
		t.n++
		return nil
	}
	if t.root.search(v) {
		return nil
	}
	t.root = t.root.insert(v)
	t.n++
	return nil
}

// Search reports whether p is stored.
func (t *QuadTree) Search(p Point) bool {
	v, err := t.toVec(p)
	if err != nil || t.root == nil {
		return false
	}
	return t.root.search(v)
}

// Delete removes p. Returns ErrNotFound, leaving the tree untouched, if p is
// not stored.
func (t *QuadTree) Delete(p Point) error {
	v, err := t.toVec(p)
	if err != nil {
		return err
	}
	if t.root == nil || !t.contains(v) {
		return fmt.Errorf("%w: %v", ErrNotFound, p)
	}
	root, err := t.root.delete(v)
	if err != nil {
		return err
	}
	t.root = root
	t.n--
	return nil
}

// Height returns the height of the tree: -1 when empty, 0 for a single
// bucket.
func (t *QuadTree) Height() int {
	if t.root == nil {
		return -1
	}
	return t.root.height()
}

// Count walks the tree and returns the number of stored points.
func (t *QuadTree) Count() int {
	if t.root == nil {
		return 0
	}
	return t.root.count()
}

// Points returns all stored points in quadrant order (NW, NE, SW, SE).
func (t *QuadTree) Points() []Point {
	if t.root == nil {
		return []Point{}
	}
	vs := t.root.appendPoints(make([]r2.Vec, 0, t.n))
	out := make([]Point, len(vs))
	for i, v := range vs {
		out[i] = Point{v.X, v.Y}
	}
	return out
}

// Range returns every stored point within Euclidean distance radius
// (inclusive) of anchor, excluding anchor itself.
func (t *QuadTree) Range(anchor Point, radius float64) ([]Point, error) {
	a, err := t.toVec(anchor)
	if err != nil {
		return nil, err
	}
	if err := validateRadius(radius); err != nil {
		return nil, err
	}
	var out []Point
	if t.root != nil {
		quadRange(t.root, a, radius, &out)
	}
	return out, nil
}

func quadRange(n quadNode, anchor r2.Vec, radius float64, out *[]Point) {
	if boxDistance(n.bounds(), anchor) > radius {
		return
	}
	switch n := n.(type) {
	case *bucketNode:
		for _, p := range n.points {
			if p != anchor && r2.Norm(r2.Sub(p, anchor)) <= radius {
				*out = append(*out, Point{p.X, p.Y})
			}
		}
	case *branchNode:
		for _, c := range n.children {
			if c != nil {
				quadRange(c, anchor, radius, out)
			}
		}
	}
}

// NearestNeighbor returns the stored point closest to anchor, excluding
// anchor itself. Returns ErrEmpty on an empty tree and ErrNotFound if anchor
// is the only stored point.
func (t *QuadTree) NearestNeighbor(anchor Point) (Neighbor, error) {
	best, err := t.KNearestNeighbors(1, anchor)
	if err != nil {
		return Neighbor{}, err
	}
	p, ok := best.First()
	if !ok {
		return Neighbor{}, fmt.Errorf("%w: no stored point other than the anchor %v", ErrNotFound, anchor)
	}
	d, _ := best.FirstPriority()
	return Neighbor{Point: p, Distance: d}, nil
}

// KNearestNeighbors returns up to k stored points closest to anchor,
// excluding anchor itself, as a BestK whose priorities are Euclidean
// distances.
func (t *QuadTree) KNearestNeighbors(k int, anchor Point) (*BestK[Point], error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: k must be >= 0, got %d", ErrInvalidArgument, k)
	}
	a, err := t.toVec(anchor)
	if err != nil {
		return nil, err
	}
	if t.root == nil {
		return nil, fmt.Errorf("%w: KNearestNeighbors on empty QuadTree", ErrEmpty)
	}
	cand := newBestK[r2.Vec](k)
	if k > 0 {
		quadKNearest(t.root, a, cand)
	}
	out := newBestK[Point](k)
	for v, d := range cand.All() {
		out.Enqueue(Point{v.X, v.Y}, d)
	}
	return out, nil
}

// quadKNearest visits children closest-box first and skips any whose box
// cannot hold a point better than the current k-th candidate.
func quadKNearest(n quadNode, anchor r2.Vec, cand *BestK[r2.Vec]) {
	switch n := n.(type) {
	case *bucketNode:
		for _, p := range n.points {
			if p != anchor {
				cand.Enqueue(p, r2.Norm(r2.Sub(p, anchor)))
			}
		}
	case *branchNode:
		type visit struct {
			node quadNode
			dist float64
		}
		order := make([]visit, 0, len(n.children))
		for _, c := range n.children {
			if c != nil {
				order = append(order, visit{c, boxDistance(c.bounds(), anchor)})
			}
		}
		slices.SortFunc(order, func(a, b visit) int { return cmp.Compare(a.dist, b.dist) })
		for _, v := range order {
			if worst, ok := cand.LastPriority(); cand.Full() && ok && v.dist >= worst {
				return
			}
			quadKNearest(v.node, anchor, cand)
		}
	}
}
