package ml

import (
	"math"
	"math/rand/v2"
	"slices"
)

const (
	leaf            = -1
	minSamplesSplit = 2
	// indicatorThreshold splits a one-hot column into its 0 and 1 rows.
	indicatorThreshold = 0.5
)

// Node is one node of a fitted tree. Internal nodes send a row left when its
// Feature value is <= Threshold. Leaves have Feature == -1 and carry the class
// distribution of the training rows that reached them.
type Node struct {
	Feature   int       `json:"f"`
	Threshold float64   `json:"t,omitempty"`
	Left      int       `json:"l,omitempty"`
	Right     int       `json:"r,omitempty"`
	Value     []float64 `json:"v,omitempty"`
}

// Tree is a CART classification tree stored as a flat node slice; node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// proba returns the class distribution of the leaf that row i of x falls into.
func (t *Tree) proba(x *Design, i int) []float64 {
	n := 0
	for {
		node := &t.Nodes[n]
		if node.Feature == leaf {
			return node.Value
		}
		if x.value(i, node.Feature) <= node.Threshold {
			n = node.Left
		} else {
			n = node.Right
		}
	}
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(n int) int
	walk = func(n int) int {
		node := t.Nodes[n]
		if node.Feature == leaf {
			return 0
		}
		return 1 + max(walk(node.Left), walk(node.Right))
	}
	return walk(0)
}

// split is a candidate partition of a node. score is the summed Gini
// impurity of the children weighted by their row counts; lower is better.
type split struct {
	feature   int
	threshold float64
	score     float64
}

// treeBuilder grows one tree with Gini impurity, unlimited depth and a random
// feature subset per node.
type treeBuilder struct {
	x           *Design
	y           []int
	classes     int
	maxFeatures int
	rng         *rand.Rand

	features []int // permutation scratch over all columns
	pairs    []pair
	nodes    []Node
}

type pair struct {
	value float64
	class int
}

func newTreeBuilder(x *Design, y []int, classes, maxFeatures int, rng *rand.Rand) *treeBuilder {
	_, cols := x.Dims()
	features := make([]int, cols)
	for j := range features {
		features[j] = j
	}
	return &treeBuilder{
		x:           x,
		y:           y,
		classes:     classes,
		maxFeatures: maxFeatures,
		rng:         rng,
		features:    features,
	}
}

// fit grows the tree over the row multiset idx. idx is reordered in place.
func (b *treeBuilder) fit(idx []int) *Tree {
	b.pairs = make([]pair, 0, len(idx))
	b.build(idx)
	return &Tree{Nodes: b.nodes}
}

func (b *treeBuilder) build(idx []int) int {
	counts := b.classCounts(idx)
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: leaf})

	if len(idx) < minSamplesSplit || pure(counts) {
		b.nodes[id].Value = fractions(counts, len(idx))
		return id
	}

	best, ok := b.bestSplit(idx, counts)
	if !ok {
		b.nodes[id].Value = fractions(counts, len(idx))
		return id
	}

	mid := b.partition(idx, best)
	left := b.build(idx[:mid])
	right := b.build(idx[mid:])
	b.nodes[id] = Node{Feature: best.feature, Threshold: best.threshold, Left: left, Right: right}
	return id
}

func (b *treeBuilder) classCounts(idx []int) []int {
	counts := make([]int, b.classes)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

// bestSplit draws features in random order until maxFeatures non-constant
// ones have been evaluated, keeping the lowest-impurity split.
func (b *treeBuilder) bestSplit(idx []int, counts []int) (split, bool) {
	hot := b.hotCounts(idx)

	best := split{score: math.Inf(1)}
	found := false
	visited := 0
	f := b.features
	for k := 0; k < len(f) && visited < b.maxFeatures; k++ {
		j := k + b.rng.IntN(len(f)-k)
		f[k], f[j] = f[j], f[k]
		feature := f[k]

		var s split
		if b.x.categorical(feature) {
			ones, present := hot[feature]
			if !present || sum(ones) == len(idx) {
				continue
			}
			s = indicatorSplit(feature, counts, ones)
		} else {
			var ok bool
			if s, ok = b.numericSplit(feature, idx, counts); !ok {
				continue
			}
		}
		visited++

		if s.score < best.score {
			best = s
			found = true
		}
	}
	return best, found
}

// hotCounts returns, per one-hot column present in the node, the class counts
// of rows where that column is 1.
func (b *treeBuilder) hotCounts(idx []int) map[int][]int {
	hot := make(map[int][]int)
	add := func(col, class int) {
		c, ok := hot[col]
		if !ok {
			c = make([]int, b.classes)
			hot[col] = c
		}
		c[class]++
	}
	for _, i := range idx {
		city, desc := b.x.hot(i)
		if city != unknown {
			add(city, b.y[i])
		}
		if desc != unknown {
			add(desc, b.y[i])
		}
	}
	return hot
}

func indicatorSplit(feature int, counts, ones []int) split {
	zeros := make([]int, len(counts))
	for c := range counts {
		zeros[c] = counts[c] - ones[c]
	}
	return split{
		feature:   feature,
		threshold: indicatorThreshold,
		score:     weightedGini(zeros) + weightedGini(ones),
	}
}

// numericSplit sweeps the sorted values of a continuous column and returns the
// best midpoint threshold. ok is false when the column is constant in the node.
func (b *treeBuilder) numericSplit(feature int, idx []int, counts []int) (split, bool) {
	pairs := b.pairs[:0]
	for _, i := range idx {
		pairs = append(pairs, pair{value: b.x.value(i, feature), class: b.y[i]})
	}
	slices.SortFunc(pairs, func(a, c pair) int {
		switch {
		case a.value < c.value:
			return -1
		case a.value > c.value:
			return 1
		default:
			return a.class - c.class
		}
	})
	b.pairs = pairs

	if pairs[0].value == pairs[len(pairs)-1].value {
		return split{}, false
	}

	left := make([]int, b.classes)
	right := slices.Clone(counts)
	best := split{feature: feature, score: math.Inf(1)}
	for p := 0; p < len(pairs)-1; p++ {
		left[pairs[p].class]++
		right[pairs[p].class]--

		lo, hi := pairs[p].value, pairs[p+1].value
		if lo == hi {
			continue
		}
		score := weightedGini(left) + weightedGini(right)
		if score < best.score {
			threshold := lo + (hi-lo)/2
			if threshold >= hi {
				threshold = lo
			}
			best.score = score
			best.threshold = threshold
		}
	}
	return best, true
}

// partition moves rows going left to the front of idx and returns their count.
func (b *treeBuilder) partition(idx []int, s split) int {
	i, j := 0, len(idx)-1
	for i <= j {
		if b.x.value(idx[i], s.feature) <= s.threshold {
			i++
			continue
		}
		idx[i], idx[j] = idx[j], idx[i]
		j--
	}
	return i
}

// weightedGini returns n * gini(counts), where n is the total count.
func weightedGini(counts []int) float64 {
	n := sum(counts)
	if n == 0 {
		return 0
	}
	var sq float64
	for _, c := range counts {
		sq += float64(c) * float64(c)
	}
	return float64(n) - sq/float64(n)
}

func pure(counts []int) bool {
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

func fractions(counts []int, n int) []float64 {
	out := make([]float64, len(counts))
	if n == 0 {
		return out
	}
	for c, v := range counts {
		out[c] = float64(v) / float64(n)
	}
	return out
}

func sum(v []int) int {
	var s int
	for _, x := range v {
		s += x
	}
	return s
}
