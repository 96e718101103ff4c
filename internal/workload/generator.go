package workload

import (
	"fmt"
	"math/rand/v2"
)

// Generator produces random IPv4-shaped client keys. A high-cardinality key
// stream keeps the ledger's map under churn, which is where the concurrency
// strategies actually differ.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator; the same seed yields the same stream.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Keys returns n random client keys.
func (g *Generator) Keys(n int) []string {
	keys := make([]string, n)

	for i := range keys {
		keys[i] = fmt.Sprintf("%d.%d.%d.%d",
			g.rng.IntN(256), g.rng.IntN(256), g.rng.IntN(256), g.rng.IntN(256))
	}

	return keys
}
