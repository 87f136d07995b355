package spatial

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func generateBenchPoints(n, dims int) []Point {
	rng := rand.New(rand.NewSource(42))
	return randomPoints(rng, n, dims, 100)
}

func benchQuadConfig() QuadTreeConfig {
	return QuadTreeConfig{Centroid: r2.Vec{X: 50, Y: 50}, K: 7, BucketingParam: 8}
}

func buildBenchKDTree(b *testing.B, points []Point, dims int) *KDTree {
	b.Helper()
	tree, err := NewKDTree(DefaultKDTreeConfig(dims))
	if err != nil {
		b.Fatal(err)
	}
	for _, p := range points {
		if err := tree.Insert(p); err != nil {
			b.Fatal(err)
		}
	}
	return tree
}

func buildBenchQuadTree(b *testing.B, points []Point) *QuadTree {
	b.Helper()
	tree, err := NewQuadTree(benchQuadConfig())
	if err != nil {
		b.Fatal(err)
	}
	for _, p := range points {
		if err := tree.Insert(p); err != nil {
			b.Fatal(err)
		}
	}
	return tree
}

// --- KD-tree ---

func benchKDTreeInsert(b *testing.B, n, dims int) {
	b.Helper()
	points := generateBenchPoints(n, dims)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buildBenchKDTree(b, points, dims)
	}
}

func BenchmarkKDTreeInsert_1000_2D(b *testing.B)  { benchKDTreeInsert(b, 1000, 2) }
func BenchmarkKDTreeInsert_10000_2D(b *testing.B) { benchKDTreeInsert(b, 10000, 2) }
func BenchmarkKDTreeInsert_10000_8D(b *testing.B) { benchKDTreeInsert(b, 10000, 8) }

func benchKDTreeKNN(b *testing.B, n, dims, k int) {
	b.Helper()
	points := generateBenchPoints(n, dims)
	tree := buildBenchKDTree(b, points, dims)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tree.KNearestNeighbors(k, points[i%n]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkKDTreeKNN_10000_2D_k1(b *testing.B)  { benchKDTreeKNN(b, 10000, 2, 1) }
func BenchmarkKDTreeKNN_10000_2D_k10(b *testing.B) { benchKDTreeKNN(b, 10000, 2, 10) }
func BenchmarkKDTreeKNN_10000_8D_k10(b *testing.B) { benchKDTreeKNN(b, 10000, 8, 10) }

func BenchmarkKDTreeNearestNeighbor_10000_3D(b *testing.B) {
	points := generateBenchPoints(10000, 3)
	tree := buildBenchKDTree(b, points, 3)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tree.NearestNeighbor(points[i%len(points)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkKDTreeRange_10000_2D(b *testing.B) {
	points := generateBenchPoints(10000, 2)
	tree := buildBenchKDTree(b, points, 2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tree.Range(points[i%len(points)], 5); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkKDTreeDeleteInsert_10000_2D(b *testing.B) {
	points := generateBenchPoints(10000, 2)
	tree := buildBenchKDTree(b, points, 2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := points[i%len(points)]
		if err := tree.Delete(p); err != nil {
			b.Fatal(err)
		}
		if err := tree.Insert(p); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Quadtree ---

func benchQuadTreeInsert(b *testing.B, n int) {
	b.Helper()
	points := generateBenchPoints(n, 2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buildBenchQuadTree(b, points)
	}
}

func BenchmarkQuadTreeInsert_1000(b *testing.B)  { benchQuadTreeInsert(b, 1000) }
func BenchmarkQuadTreeInsert_10000(b *testing.B) { benchQuadTreeInsert(b, 10000) }

func BenchmarkQuadTreeKNN_10000_k10(b *testing.B) {
	points := generateBenchPoints(10000, 2)
	tree := buildBenchQuadTree(b, points)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tree.KNearestNeighbors(10, points[i%len(points)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQuadTreeRange_10000(b *testing.B) {
	points := generateBenchPoints(10000, 2)
	tree := buildBenchQuadTree(b, points)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tree.Range(points[i%len(points)], 5); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQuadTreeDeleteInsert_10000(b *testing.B) {
	points := generateBenchPoints(10000, 2)
	tree := buildBenchQuadTree(b, points)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := points[i%len(points)]
		if err := tree.Delete(p); err != nil {
			b.Fatal(err)
		}
		if err := tree.Insert(p); err != nil {
			b.Fatal(err)
		}
	}
}

// --- BestK ---

func BenchmarkBestKEnqueue_k10(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	prios := make([]float64, 4096)
	for i := range prios {
		prios[i] = rng.Float64()
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q := newBestK[int](10)
		for j, p := range prios {
			q.Enqueue(j, p)
		}
	}
}
