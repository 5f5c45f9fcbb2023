package ml

import (
	"math"
	"math/rand/v2"

	"github.com/rotisserie/eris"
)

// TrainTestSplit shuffles row indices 0..n-1 with seed and holds out
// ceil(testSize * n) of them for testing.
func TrainTestSplit(n int, testSize float64, seed uint64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, eris.Errorf("ml: test size %v must be in (0, 1)", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest >= n {
		return nil, nil, eris.Errorf("ml: %d rows are too few to hold out %v for testing", n, testSize)
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}
