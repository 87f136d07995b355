package spatial

import (
	"fmt"
	"math"

	"github.com/golang/glog"
)

// KDTree is a dynamic KD-tree: a binary search tree over k-dimensional
// points whose splitting axis cycles with depth (axis = depth mod dims).
//
// For a node splitting on axis a, every point in its left subtree has
// coordinate a strictly less than the node's, and every point in its right
// subtree has coordinate a greater than or equal to it. The tree is not
// rebalanced, so its height depends on insertion order.
//
// A KDTree is not safe for concurrent use.
type KDTree struct {
	root   *kdNode
	dims   int
	metric DistanceMetric
	n      int
}

type kdNode struct {
	point       Point
	left, right *kdNode
}

// NewKDTree returns an empty KD-tree. Returns an error if the config is
// invalid.
func NewKDTree(cfg KDTreeConfig) (*KDTree, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &KDTree{dims: cfg.Dims, metric: cfg.Metric}, nil
}

// Dims returns the dimensionality every stored point must have.
func (t *KDTree) Dims() int { return t.dims }

// Len returns the number of stored points.
func (t *KDTree) Len() int { return t.n }

// Metric returns the distance metric used by queries.
func (t *KDTree) Metric() DistanceMetric { return t.metric }

func (t *KDTree) nextAxis(axis int) int { return (axis + 1) % t.dims }

// Insert stores a copy of p. Duplicate points are stored again.
func (t *KDTree) Insert(p Point) error {
	if err := validatePoint(p, t.dims); err != nil {
		return err
	}
	t.root = t.insert(t.root, p.Clone(), 0)
	t.n++
	return nil
}

func (t *KDTree) insert(n *kdNode, p Point, axis int) *kdNode {
	if n == nil {
		return &kdNode{point: p}
	}
	if p[axis] < n.point[axis] {
		n.left = t.insert(n.left, p, t.nextAxis(axis))
	} else {
		n.right = t.insert(n.right, p, t.nextAxis(axis))
	}
	return n
}

// Search reports whether a point equal to p is stored.
func (t *KDTree) Search(p Point) bool {
	if validatePoint(p, t.dims) != nil {
		return false
	}
	return t.find(p) != nil
}

func (t *KDTree) find(p Point) *kdNode {
	n, axis := t.root, 0
	for n != nil {
		if n.point.Equal(p) {
			return n
		}
		if p[axis] < n.point[axis] {
			n = n.left
		} else {
			n = n.right
		}
		axis = t.nextAxis(axis)
	}
	return nil
}

// Delete removes one stored point equal to p. Returns ErrNotFound, leaving
// the tree untouched, if no such point exists.
func (t *KDTree) Delete(p Point) error {
	if err := validatePoint(p, t.dims); err != nil {
		return err
	}
	if t.find(p) == nil {
		return fmt.Errorf("%w: %v", ErrNotFound, p)
	}
	t.root = t.delete(t.root, p, 0)
	t.n--
	return nil
}

// delete removes p from the subtree rooted at n and returns the new subtree
// root. The caller guarantees p is present.
func (t *KDTree) delete(n *kdNode, p Point, axis int) *kdNode {
	if n == nil {
		return nil
	}
	next := t.nextAxis(axis)
	if !n.point.Equal(p) {
		if p[axis] < n.point[axis] {
			n.left = t.delete(n.left, p, next)
		} else {
			n.right = t.delete(n.right, p, next)
		}
		return n
	}

	switch {
	case n.right != nil:
		m := findMin(n.right, axis, next, t.dims)
		n.point = m.Clone()
		n.right = t.delete(n.right, m, next)
	case n.left != nil:
		// Only the right side may hold values equal to ours on this axis, so
		// the left subtree is moved under the right slot after promoting its
		// minimum.
		m := findMin(n.left, axis, next, t.dims)
		if glog.V(2) {
			glog.Infof("spatial: kdtree delete %v promotes left minimum %v on axis %d", p, m, axis)
		}
		n.point = m.Clone()
		n.right = t.delete(n.left, m, next)
		n.left = nil
	default:
		return nil
	}
	return n
}

// FindMin returns a copy of the stored point with the smallest coordinate
// along axis.
func (t *KDTree) FindMin(axis int) (Point, error) {
	if axis < 0 || axis >= t.dims {
		return nil, fmt.Errorf("%w: axis %d out of range [0, %d)", ErrInvalidArgument, axis, t.dims)
	}
	if t.root == nil {
		return nil, fmt.Errorf("%w: FindMin on empty KDTree", ErrEmpty)
	}
	return findMin(t.root, axis, 0, t.dims).Clone(), nil
}

// findMin returns the point with the minimum coordinate on target in the
// subtree rooted at n, whose split axis is axis. Ties prefer the node, then
// the left subtree, then the right.
func findMin(n *kdNode, target, axis, dims int) Point {
	if n == nil {
		return nil
	}
	next := (axis + 1) % dims
	if axis == target {
		if n.left == nil {
			return n.point
		}
		return findMin(n.left, target, next, dims)
	}
	best := n.point
	if l := findMin(n.left, target, next, dims); l != nil && l[target] < best[target] {
		best = l
	}
	if r := findMin(n.right, target, next, dims); r != nil && r[target] < best[target] {
		best = r
	}
	return best
}

// Range returns copies of every stored point within radius (inclusive) of
// anchor, excluding points equal to anchor. Order is unspecified.
func (t *KDTree) Range(anchor Point, radius float64) ([]Point, error) {
	if err := validatePoint(anchor, t.dims); err != nil {
		return nil, err
	}
	if err := validateRadius(radius); err != nil {
		return nil, err
	}
	var out []Point
	t.rangeSearch(t.root, anchor, radius, 0, &out)
	return out, nil
}

func (t *KDTree) rangeSearch(n *kdNode, anchor Point, radius float64, axis int, out *[]Point) {
	if n == nil {
		return
	}
	if !n.point.Equal(anchor) && t.metric.Distance(anchor, n.point) <= radius {
		*out = append(*out, n.point.Clone())
	}
	near, far := n.left, n.right
	if anchor[axis] >= n.point[axis] {
		near, far = n.right, n.left
	}
	next := t.nextAxis(axis)
	t.rangeSearch(near, anchor, radius, next, out)
	// A point on the far side is at least the axis gap away. The bound is
	// inclusive because the radius is.
	if axisGap(anchor[axis], n.point[axis]) <= radius {
		t.rangeSearch(far, anchor, radius, next, out)
	}
}

// nnState is the running best of a nearest-neighbor descent, kept in
// reduced-distance space.
type nnState struct {
	point Point
	rdist float64
}

// NearestNeighbor returns the stored point closest to anchor, excluding
// points equal to anchor. Returns ErrEmpty on an empty tree and ErrNotFound
// if every stored point equals anchor.
func (t *KDTree) NearestNeighbor(anchor Point) (Neighbor, error) {
	if err := validatePoint(anchor, t.dims); err != nil {
		return Neighbor{}, err
	}
	if t.root == nil {
		return Neighbor{}, fmt.Errorf("%w: NearestNeighbor on empty KDTree", ErrEmpty)
	}
	st := nnState{rdist: math.Inf(1)}
	t.nearest(t.root, anchor, 0, &st)
	if st.point == nil {
		return Neighbor{}, fmt.Errorf("%w: no stored point other than the anchor %v", ErrNotFound, anchor)
	}
	return Neighbor{Point: st.point.Clone(), Distance: t.metric.Distance(anchor, st.point)}, nil
}

func (t *KDTree) nearest(n *kdNode, anchor Point, axis int, st *nnState) {
	if n == nil {
		return
	}
	if !n.point.Equal(anchor) {
		// The first candidate is always taken so a point at infinite
		// distance is still found.
		if rd := t.metric.ReducedDistance(anchor, n.point); st.point == nil || rd < st.rdist {
			st.point, st.rdist = n.point, rd
		}
	}
	near, far := n.left, n.right
	if anchor[axis] >= n.point[axis] {
		near, far = n.right, n.left
	}
	next := t.nextAxis(axis)
	t.nearest(near, anchor, next, st)
	// The axis gap is a true distance; convert the reduced best before
	// comparing.
	if st.point == nil || axisGap(anchor[axis], n.point[axis]) < t.metric.RdistToDist(st.rdist) {
		t.nearest(far, anchor, next, st)
	}
}

// KNearestNeighbors returns up to k stored points closest to anchor,
// excluding points equal to anchor, as a BestK whose priorities are
// distances. k == 0 yields an empty result.
func (t *KDTree) KNearestNeighbors(k int, anchor Point) (*BestK[Point], error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: k must be >= 0, got %d", ErrInvalidArgument, k)
	}
	if err := validatePoint(anchor, t.dims); err != nil {
		return nil, err
	}
	if t.root == nil {
		return nil, fmt.Errorf("%w: KNearestNeighbors on empty KDTree", ErrEmpty)
	}
	out := newBestK[Point](k)
	if k == 0 {
		return out, nil
	}
	cand := newBestK[*kdNode](k)
	t.kNearest(t.root, anchor, 0, cand)
	for n := range cand.All() {
		out.Enqueue(n.point.Clone(), t.metric.Distance(anchor, n.point))
	}
	return out, nil
}

func (t *KDTree) kNearest(n *kdNode, anchor Point, axis int, cand *BestK[*kdNode]) {
	if n == nil {
		return
	}
	if !n.point.Equal(anchor) {
		cand.Enqueue(n, t.metric.ReducedDistance(anchor, n.point))
	}
	near, far := n.left, n.right
	if anchor[axis] >= n.point[axis] {
		near, far = n.right, n.left
	}
	next := t.nextAxis(axis)
	t.kNearest(near, anchor, next, cand)
	// Until k candidates are held there is no bound to prune with.
	if !cand.Full() {
		t.kNearest(far, anchor, next, cand)
		return
	}
	worst, _ := cand.LastPriority()
	if axisGap(anchor[axis], n.point[axis]) < t.metric.RdistToDist(worst) {
		t.kNearest(far, anchor, next, cand)
	}
}

// axisGap is the distance between two coordinates on one axis. Equal
// infinities are zero apart rather than NaN.
func axisGap(a, b float64) float64 {
	if a == b {
		return 0
	}
	return math.Abs(a - b)
}

// Height returns the height of the tree; an empty tree has height -1.
func (t *KDTree) Height() int { return kdHeight(t.root) }

func kdHeight(n *kdNode) int {
	if n == nil {
		return -1
	}
	return max(kdHeight(n.left), kdHeight(n.right)) + 1
}

// Root returns a copy of the point stored at the root.
func (t *KDTree) Root() (Point, bool) {
	if t.root == nil {
		return nil, false
	}
	return t.root.point.Clone(), true
}

// Points returns copies of all stored points in pre-order.
func (t *KDTree) Points() []Point {
	out := make([]Point, 0, t.n)
	var walk func(n *kdNode)
	walk = func(n *kdNode) {
		if n == nil {
			return
		}
		out = append(out, n.point.Clone())
		walk(n.left)
		walk(n.right)
	}
	walk(t.root)
	return out
}
