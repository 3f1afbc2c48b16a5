package pooling

import (
	"errors"

	"github.com/gkoduol/tastematch/distance"
	"github.com/gkoduol/tastematch/model"
)

// ErrNoVectors is returned when a strategy is asked to aggregate an empty
// vector set.
var ErrNoVectors = errors.New("no vectors to aggregate")

// Strategy aggregates a set of same-dimension vectors into a single vector.
//
// Implementations must not mutate the input vectors and must be safe for
// concurrent use.
type Strategy interface {
	// Aggregate combines the vectors into one. It returns ErrNoVectors for
	// an empty set and distance.ErrDimensionMismatch if the vectors do not
	// share a dimension.
	Aggregate(vectors []model.Vector) (model.Vector, error)
	// Name returns the stable name of the strategy.
	Name() string
}

// ByName returns a built-in strategy by its stable name.
func ByName(name string) (Strategy, bool) {
	switch name {
	case "centroid":
		return Centroid{}, true
	case "median":
		return GeometricMedian{}, true
	case "medoid":
		return Medoid{}, true
	default:
		return nil, false
	}
}

// Default is the strategy used when none is configured.
var Default Strategy = Centroid{}

func checkDimensions(vectors []model.Vector) (int, error) {
	if len(vectors) == 0 {
		return 0, ErrNoVectors
	}
	dim := len(vectors[0])
	for _, v := range vectors[1:] {
		if len(v) != dim {
			return 0, &distance.ErrDimensionMismatch{Expected: dim, Actual: len(v)}
		}
	}
	return dim, nil
}

// Centroid is the geometric center: the element-wise arithmetic mean of the
// vector set. O(n), differentiable, but more sensitive to outlier members
// than the median-based strategies.
type Centroid struct{}

// Aggregate mean-pools the vectors.
func (Centroid) Aggregate(vectors []model.Vector) (model.Vector, error) {
	dim, err := checkDimensions(vectors)
	if err != nil {
		return nil, err
	}

	out := make(model.Vector, dim)
	for _, v := range vectors {
		for i, x := range v {
			out[i] += x
		}
	}
	inv := 1 / float32(len(vectors))
	for i := range out {
		out[i] *= inv
	}
	return out, nil
}

// Name returns "centroid".
func (Centroid) Name() string { return "centroid" }

// GeometricMedian minimizes the sum of Euclidean distances to the input
// vectors (the "peacekeeper" compromise). Computed with Weiszfeld's
// iterative algorithm, seeded from the centroid.
type GeometricMedian struct {
	// MaxIterations bounds the Weiszfeld iterations. Zero means 64.
	MaxIterations int
	// Tolerance is the convergence threshold on movement between
	// iterations. Zero means 1e-6.
	Tolerance float32
}

// Aggregate computes the geometric median of the vectors.
func (g GeometricMedian) Aggregate(vectors []model.Vector) (model.Vector, error) {
	dim, err := checkDimensions(vectors)
	if err != nil {
		return nil, err
	}

	maxIter := g.MaxIterations
	if maxIter <= 0 {
		maxIter = 64
	}
	tol := g.Tolerance
	if tol <= 0 {
		tol = 1e-6
	}

	// Seed from the centroid.
	current, err := Centroid{}.Aggregate(vectors)
	if err != nil {
		return nil, err
	}

	next := make(model.Vector, dim)
	for iter := 0; iter < maxIter; iter++ {
		for i := range next {
			next[i] = 0
		}
		var weightSum float32

		for _, v := range vectors {
			d := distance.L2(current, v)
			if d == 0 {
				// Coincides with an input point; the median is that point.
				return v.Clone(), nil
			}
			w := 1 / d
			weightSum += w
			for i, x := range v {
				next[i] += w * x
			}
		}

		inv := 1 / weightSum
		for i := range next {
			next[i] *= inv
		}

		moved := distance.L2(current, next)
		current, next = next, current
		if moved < tol {
			break
		}
	}
	return current, nil
}

// Name returns "median".
func (GeometricMedian) Name() string { return "median" }

// Medoid selects the input vector with the smallest total distance to all
// others (the "most relatable" member). The result is always a member of
// the input set.
type Medoid struct{}

// Aggregate returns a copy of the medoid vector.
func (Medoid) Aggregate(vectors []model.Vector) (model.Vector, error) {
	if _, err := checkDimensions(vectors); err != nil {
		return nil, err
	}

	bestIdx := 0
	bestTotal := float32(0)
	for i, v := range vectors {
		var total float32
		for j, w := range vectors {
			if i == j {
				continue
			}
			total += distance.L2(v, w)
		}
		if i == 0 || total < bestTotal {
			bestIdx = i
			bestTotal = total
		}
	}
	return vectors[bestIdx].Clone(), nil
}

// Name returns "medoid".
func (Medoid) Name() string { return "medoid" }
