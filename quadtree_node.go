package spatial

import (
	"fmt"
	"math"
	"slices"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/spatial/r2"
)

// quadNode is a PR quadtree node. It has exactly two implementations:
// *bucketNode, which holds points, and *branchNode, which holds quadrants.
// Mutating methods return the node that replaces the receiver, so splits
// and collapses show up as a change of concrete type.
type quadNode interface {
	insert(p r2.Vec) quadNode
	// delete returns the receiver unchanged alongside any error.
	delete(p r2.Vec) (quadNode, error)
	search(p r2.Vec) bool
	height() int
	count() int
	bounds() r2.Box
	appendPoints(dst []r2.Vec) []r2.Vec
}

// Quadrant indices into branchNode.children.
const (
	quadNW = iota
	quadNE
	quadSW
	quadSE
)

// minQuadK is the smallest side exponent a node may be split into. Below
// it float64 offsets can no longer move a centroid.
const minQuadK = -1000

func quadrantOf(c, p r2.Vec) int {
	switch {
	case p.X < c.X && p.Y >= c.Y:
		return quadNW
	case p.Y >= c.Y:
		return quadNE
	case p.X < c.X:
		return quadSW
	default:
		return quadSE
	}
}

// childCentroid returns the centroid of quadrant q of a node with centroid
// c and side 2^k.
func childCentroid(c r2.Vec, k, q int) r2.Vec {
	off := math.Ldexp(1, k-2)
	switch q {
	case quadNW:
		return r2.Vec{X: c.X - off, Y: c.Y + off}
	case quadNE:
		return r2.Vec{X: c.X + off, Y: c.Y + off}
	case quadSW:
		return r2.Vec{X: c.X - off, Y: c.Y - off}
	default:
		return r2.Vec{X: c.X + off, Y: c.Y - off}
	}
}

// squareBox returns the square of side 2^k centered on c.
func squareBox(c r2.Vec, k int) r2.Box {
	half := math.Ldexp(1, k-1)
	return r2.Box{
		Min: r2.Vec{X: c.X - half, Y: c.Y - half},
		Max: r2.Vec{X: c.X + half, Y: c.Y + half},
	}
}

// boxDistance returns the Euclidean distance from p to the closest point of
// b, or 0 if b contains p.
func boxDistance(b r2.Box, p r2.Vec) float64 {
	var d r2.Vec
	switch {
	case p.X < b.Min.X:
		d.X = b.Min.X - p.X
	case p.X > b.Max.X:
		d.X = p.X - b.Max.X
	}
	switch {
	case p.Y < b.Min.Y:
		d.Y = b.Min.Y - p.Y
	case p.Y > b.Max.Y:
		d.Y = p.Y - b.Max.Y
	}
	return r2.Norm(d)
}

// bucketNode is a quadtree leaf holding at most bucketingParam distinct
// points, all inside its square.
type bucketNode struct {
	centroid       r2.Vec
	k              int
	bucketingParam int
	points         []r2.Vec
}

func newBucketNode(c r2.Vec, k, bucketingParam int, points ...r2.Vec) *bucketNode {
	b := &bucketNode{
		centroid:       c,
		k:              k,
		bucketingParam: bucketingParam,
		points:         make([]r2.Vec, 0, bucketingParam),
	}
	b.points = append(b.points, points...)
	return b
}

func (b *bucketNode) insert(p r2.Vec) quadNode {
	if slices.Contains(b.points, p) {
		return b
	}
	if len(b.points) < b.bucketingParam || b.k <= minQuadK {
		b.points = append(b.points, p)
		return b
	}

	if glog.V(2) {
		glog.Infof("spatial: quadtree splitting bucket at %v (k=%d) holding %d points", b.centroid, b.k, len(b.points)+1)
	}
	var n quadNode = &branchNode{
		centroid:       b.centroid,
		k:              b.k,
		bucketingParam: b.bucketingParam,
	}
	for _, q := range b.points {
		n = n.insert(q)
	}
	return n.insert(p)
}

func (b *bucketNode) delete(p r2.Vec) (quadNode, error) {
	i := slices.Index(b.points, p)
	if i < 0 {
		return b, fmt.Errorf("%w: (%v, %v)", ErrNotFound, p.X, p.Y)
	}
	b.points = slices.Delete(b.points, i, i+1)
	if len(b.points) == 0 {
		return nil, nil
	}
	return b, nil
}

func (b *bucketNode) search(p r2.Vec) bool { return slices.Contains(b.points, p) }
func (b *bucketNode) height() int          { return 0 }
func (b *bucketNode) count() int           { return len(b.points) }
func (b *bucketNode) bounds() r2.Box       { return squareBox(b.centroid, b.k) }

func (b *bucketNode) appendPoints(dst []r2.Vec) []r2.Vec {
	return append(dst, b.points...)
}

// branchNode is an internal quadtree node with up to four quadrant
// children. It only exists while its subtree holds more than
// bucketingParam points or contains another branch.
type branchNode struct {
	centroid       r2.Vec
	k              int
	bucketingParam int
	children       [4]quadNode
}

func (br *branchNode) insert(p r2.Vec) quadNode {
	q := quadrantOf(br.centroid, p)
	if br.children[q] == nil {
		br.children[q] = newBucketNode(childCentroid(br.centroid, br.k, q), br.k-1, br.bucketingParam, p)
	} else {
		br.children[q] = br.children[q].insert(p)
	}
	return br
}

func (br *branchNode) delete(p r2.Vec) (quadNode, error) {
	q := quadrantOf(br.centroid, p)
	child := br.children[q]
	if child == nil {
		return br, fmt.Errorf("%w: (%v, %v)", ErrNotFound, p.X, p.Y)
	}
	next, err := child.delete(p)
	if err != nil {
		return br, err
	}
	br.children[q] = next
	return br.collapse(), nil
}

// collapse replaces br with a single bucket when all of its children are
// buckets holding no more than bucketingParam points between them.
func (br *branchNode) collapse() quadNode {
	total := 0
	for _, c := range br.children {
		if c == nil {
			continue
		}
		b, ok := c.(*bucketNode)
		if !ok {
			return br
		}
		total += len(b.points)
	}
	if total > br.bucketingParam {
		return br
	}
	if total == 0 {
		return nil
	}

	if glog.V(2) {
		glog.Infof("spatial: quadtree collapsing branch at %v (k=%d) into a bucket of %d points", br.centroid, br.k, total)
	}
	merged := newBucketNode(br.centroid, br.k, br.bucketingParam)
	for _, c := range br.children {
		if c != nil {
			merged.points = c.appendPoints(merged.points)
		}
	}
	return merged
}

func (br *branchNode) search(p r2.Vec) bool {
	c := br.children[quadrantOf(br.centroid, p)]
	return c != nil && c.search(p)
}

func (br *branchNode) height() int {
	h := 0
	for _, c := range br.children {
		if c != nil {
			h = max(h, c.height()+1)
		}
	}
	return h
}

func (br *branchNode) count() int {
	total := 0
	for _, c := range br.children {
		if c != nil {
			total += c.count()
		}
	}
	return total
}

func (br *branchNode) bounds() r2.Box { return squareBox(br.centroid, br.k) }

func (br *branchNode) appendPoints(dst []r2.Vec) []r2.Vec {
	for _, c := range br.children {
		if c != nil {
			dst = c.appendPoints(dst)
		}
	}
	return dst
}
