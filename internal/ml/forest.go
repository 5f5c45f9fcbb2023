package ml

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// ForestOptions configures random-forest training.
type ForestOptions struct {
	Trees       int    // number of trees; default 100
	Seed        uint64 // master seed for bootstrap and feature sampling
	Workers     int    // trees fitted concurrently; 0 means GOMAXPROCS
	MaxFeatures int    // features evaluated per split; 0 means sqrt(columns)
}

// Forest is a fitted random forest of CART trees.
type Forest struct {
	Classes  int     `json:"classes"`
	Features int     `json:"features"`
	Trees    []*Tree `json:"trees"`
}

// FitForest trains a forest on x and integer labels y in [0, classes). Every
// tree gets its own seed drawn in order from the master seed, so the fitted
// forest does not depend on how trees are scheduled across workers.
func FitForest(ctx context.Context, x *Design, y []int, classes int, opts ForestOptions) (*Forest, error) {
	rows, cols := x.Dims()
	if rows == 0 {
		return nil, eris.New("ml: no training rows")
	}
	if len(y) != rows {
		return nil, eris.Errorf("ml: %d rows but %d labels", rows, len(y))
	}
	if classes < 1 {
		return nil, eris.New("ml: no classes")
	}
	for _, c := range y {
		if c < 0 || c >= classes {
			return nil, eris.Errorf("ml: label %d out of range", c)
		}
	}

	trees := opts.Trees
	if trees <= 0 {
		trees = 100
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	maxFeatures := opts.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(1, int(math.Sqrt(float64(cols))))
	}

	master := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	seeds := make([]uint64, trees)
	for i := range seeds {
		seeds[i] = master.Uint64()
	}

	f := &Forest{Classes: classes, Features: cols, Trees: make([]*Tree, trees)}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range trees {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return eris.Wrap(err, "ml: fit cancelled")
			}
			rng := rand.New(rand.NewPCG(seeds[i], uint64(i)))
			idx := bootstrap(rng, rows)
			f.Trees[i] = newTreeBuilder(x, y, classes, maxFeatures, rng).fit(idx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}

// bootstrap draws n row indices with replacement.
func bootstrap(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}

// PredictProba returns the averaged class distribution for each row of x.
func (f *Forest) PredictProba(x *Design) [][]float64 {
	rows, _ := x.Dims()
	out := make([][]float64, rows)
	for i := range out {
		p := make([]float64, f.Classes)
		for _, t := range f.Trees {
			for c, v := range t.proba(x, i) {
				p[c] += v
			}
		}
		for c := range p {
			p[c] /= float64(len(f.Trees))
		}
		out[i] = p
	}
	return out
}

// Predict returns the most probable class for each row of x. Ties go to the
// lowest class index.
func (f *Forest) Predict(x *Design) []int {
	proba := f.PredictProba(x)
	out := make([]int, len(proba))
	for i, p := range proba {
		out[i] = argmax(p)
	}
	return out
}

func argmax(p []float64) int {
	best := 0
	for c := 1; c < len(p); c++ {
		if p[c] > p[best] {
			best = c
		}
	}
	return best
}
