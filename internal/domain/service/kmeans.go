package service

import (
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
)

const (
	defaultMaxIterations = 300
	defaultTolerance     = 1e-4
)

// KMeansConfig controls a k-means run. Zero values select the defaults:
// 300 iterations, tolerance 1e-4 and a single initialisation.
type KMeansConfig struct {
	Seed          int64
	Tolerance     float64
	Clusters      int
	MaxIterations int
	Restarts      int
}

// KMeansResult is the clustering with the lowest inertia across restarts.
type KMeansResult struct {
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Iterations int
}

// KMeans partitions points into cfg.Clusters groups using greedy k-means++
// seeding followed by Lloyd iterations. All randomness is drawn from a PCG
// source seeded with cfg.Seed, so equal inputs always give equal labels.
//
// Iteration stops when assignments no longer change or when the total squared
// centroid shift falls to Tolerance times the mean per-dimension variance.
func KMeans(points [][]float64, cfg KMeansConfig) (KMeansResult, error) {
	if cfg.Clusters < 1 {
		return KMeansResult{}, &model.InvalidClusterCountError{Clusters: cfg.Clusters}
	}
	if cfg.Clusters > len(points) {
		return KMeansResult{}, &model.InsufficientDataError{Clusters: cfg.Clusters, Customers: len(points)}
	}

	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	tol := cfg.Tolerance
	if tol <= 0 {
		tol = defaultTolerance
	}
	restarts := cfg.Restarts
	if restarts <= 0 {
		restarts = 1
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))
	threshold := tol * meanVariance(points)

	var best KMeansResult
	for run := 0; run < restarts; run++ {
		centers := seedPlusPlus(points, cfg.Clusters, rng)
		res := lloyd(points, centers, maxIter, threshold)
		if run == 0 || res.Inertia < best.Inertia {
			best = res
		}
	}

	return best, nil
}

// seedPlusPlus picks k initial centres. Each new centre is the best of
// 2+ln(k) candidates sampled proportionally to squared distance.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centers := make([][]float64, 0, k)

	first := rng.IntN(n)
	centers = append(centers, slices.Clone(points[first]))

	closest := make([]float64, n)
	for i, p := range points {
		closest[i] = sqDist(p, points[first])
	}
	potential := floats.Sum(closest)

	trials := 2 + int(math.Log(float64(k)))
	for len(centers) < k {
		bestIdx := -1
		var bestPotential float64
		var bestClosest []float64

		for t := 0; t < trials; t++ {
			cand := sampleWeighted(rng, closest, potential)
			candClosest := make([]float64, n)
			for i, p := range points {
				candClosest[i] = math.Min(closest[i], sqDist(p, points[cand]))
			}
			candPotential := floats.Sum(candClosest)
			if bestIdx < 0 || candPotential < bestPotential {
				bestIdx, bestPotential, bestClosest = cand, candPotential, candClosest
			}
		}

		centers = append(centers, slices.Clone(points[bestIdx]))
		closest, potential = bestClosest, bestPotential
	}

	return centers
}

func sampleWeighted(rng *rand.Rand, weights []float64, total float64) int {
	if total <= 0 {
		return rng.IntN(len(weights))
	}
	r := rng.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if r < cum {
			return i
		}
	}
	return len(weights) - 1
}

func lloyd(points, centers [][]float64, maxIter int, threshold float64) KMeansResult {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	iterations := 0
	for iter := 0; iter < maxIter; iter++ {
		iterations = iter + 1
		if !assign(points, centers, labels) {
			break
		}

		next := updateCentroids(points, labels, len(centers))
		var shift float64
		for c := range centers {
			shift += sqDist(centers[c], next[c])
		}
		centers = next
		if shift <= threshold {
			break
		}
	}

	assign(points, centers, labels)

	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, centers[labels[i]])
	}

	return KMeansResult{
		Labels:     labels,
		Centroids:  centers,
		Inertia:    inertia,
		Iterations: iterations,
	}
}

// assign moves every point to its nearest centre, preferring the lowest index
// on ties, and reports whether any label changed.
func assign(points, centers [][]float64, labels []int) bool {
	changed := false
	for i, p := range points {
		best := 0
		bestDist := sqDist(p, centers[0])
		for c := 1; c < len(centers); c++ {
			if d := sqDist(p, centers[c]); d < bestDist {
				best, bestDist = c, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

// updateCentroids returns member means. A cluster left empty takes over the
// point lying farthest from its own centroid among clusters with spare members.
func updateCentroids(points [][]float64, labels []int, k int) [][]float64 {
	means, counts := clusterMeans(points, labels, k)

	relocated := false
	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			continue
		}
		far, farDist := -1, -1.0
		for i, p := range points {
			if counts[labels[i]] < 2 {
				continue
			}
			if d := sqDist(p, means[labels[i]]); d > farDist {
				far, farDist = i, d
			}
		}
		if far < 0 {
			break
		}
		counts[labels[far]]--
		labels[far] = c
		counts[c] = 1
		relocated = true
	}

	if relocated {
		means, _ = clusterMeans(points, labels, k)
	}
	return means
}

func clusterMeans(points [][]float64, labels []int, k int) ([][]float64, []int) {
	dim := len(points[0])
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	counts := make([]int, k)

	for i, p := range points {
		floats.Add(sums[labels[i]], p)
		counts[labels[i]]++
	}
	for c := range sums {
		if counts[c] > 0 {
			floats.Scale(1/float64(counts[c]), sums[c])
		}
	}
	return sums, counts
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// meanVariance is the population variance of each dimension averaged over dimensions.
func meanVariance(points [][]float64) float64 {
	if len(points) == 0 || len(points[0]) == 0 {
		return 0
	}
	dim := len(points[0])
	col := make([]float64, len(points))
	var total float64
	for j := 0; j < dim; j++ {
		for i, p := range points {
			col[i] = p[j]
		}
		_, std := stat.PopMeanStdDev(col, nil)
		total += std * std
	}
	return total / float64(dim)
}
