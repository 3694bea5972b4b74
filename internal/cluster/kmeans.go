// Package cluster assigns clubs to geographic affinity clusters using
// pre-trained partition models, with graceful fallback when no model exists.
package cluster

import (
	"encoding/gob"
	"fmt"
	"math"
	"math/rand"
	"os"
)

// Model is a fitted partition function over feature vectors.
// Implementations are read-only after construction and safe for
// concurrent use.
type Model interface {
	// Predict maps a feature vector to an integer cluster label.
	Predict(features []float64) (int, error)

	// Dimensions returns the feature vector length the model was fitted on.
	Dimensions() int
}

// KMeans is a centroid-based Model. Prediction is nearest-centroid by
// squared Euclidean distance.
type KMeans struct {
	centroids [][]float64
	dim       int
}

// artifact is the serialized form of a KMeans model.
type artifact struct {
	Dimensions int
	Centroids  [][]float64
}

// NewKMeans builds a model from centroids. All centroids must share the
// same dimensionality.
func NewKMeans(centroids [][]float64) (*KMeans, error) {
	if len(centroids) == 0 {
		return nil, fmt.Errorf("no centroids: %w", ErrBadArtifact)
	}
	dim := len(centroids[0])
	if dim == 0 {
		return nil, fmt.Errorf("zero-dimensional centroids: %w", ErrBadArtifact)
	}
	for i, c := range centroids {
		if len(c) != dim {
			return nil, fmt.Errorf("centroid %d has %d dimensions, want %d: %w", i, len(c), dim, ErrBadArtifact)
		}
	}
	return &KMeans{centroids: centroids, dim: dim}, nil
}

// Predict returns the index of the nearest centroid.
func (m *KMeans) Predict(features []float64) (int, error) {
	if len(features) != m.dim {
		return 0, fmt.Errorf("feature vector has %d dimensions, model expects %d: %w", len(features), m.dim, ErrDimensionMismatch)
	}
	best := 0
	bestDist := math.MaxFloat64
	for i, c := range m.centroids {
		var d float64
		for j := range c {
			diff := features[j] - c[j]
			d += diff * diff
		}
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best, nil
}

// Dimensions returns the feature vector length the model was fitted on.
func (m *KMeans) Dimensions() int {
	return m.dim
}

// Save writes the model artifact to path in gob encoding.
func (m *KMeans) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model artifact: %w", err)
	}
	defer f.Close() //nolint:errcheck // close error shadowed by encode error below

	if err := gob.NewEncoder(f).Encode(artifact{Dimensions: m.dim, Centroids: m.centroids}); err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}
	return nil
}

// Load reads a gob model artifact from path.
func Load(path string) (*KMeans, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	var a artifact
	if err := gob.NewDecoder(f).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, ErrBadArtifact)
	}
	return NewKMeans(a.Centroids)
}

// Fit runs Lloyd's algorithm over points and returns a fitted model.
// Used by the offline training command; never called on the request path.
func Fit(points [][]float64, k, maxIterations int, seed int64) (*KMeans, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no training points: %w", ErrBadArtifact)
	}
	if k < 1 {
		return nil, fmt.Errorf("cluster count %d must be positive: %w", k, ErrBadArtifact)
	}
	if k > len(points) {
		k = len(points)
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("point %d has %d dimensions, want %d: %w", i, len(p), dim, ErrBadArtifact)
		}
	}

	// Seeded sample of initial centroids keeps training reproducible.
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible training
	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(len(points))[:k] {
		centroids[i] = append([]float64(nil), points[idx]...)
	}

	assignment := make([]int, len(points))
	for iter := 0; iter < maxIterations; iter++ {
		model := &KMeans{centroids: centroids, dim: dim}
		moved := false
		for i, p := range points {
			label, err := model.Predict(p)
			if err != nil {
				return nil, err
			}
			if assignment[i] != label {
				assignment[i] = label
				moved = true
			}
		}
		if !moved && iter > 0 {
			break
		}

		next := make([][]float64, k)
		counts := make([]int, k)
		for i := range next {
			next[i] = make([]float64, dim)
		}
		for i, p := range points {
			label := assignment[i]
			counts[label]++
			for j, v := range p {
				next[label][j] += v
			}
		}
		for i := range next {
			if counts[i] == 0 {
				// Empty cluster keeps its previous centroid.
				copy(next[i], centroids[i])
				continue
			}
			for j := range next[i] {
				next[i][j] /= float64(counts[i])
			}
		}
		centroids = next
	}

	return NewKMeans(centroids)
}
