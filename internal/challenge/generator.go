package challenge

import (
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

// Generator builds challenges from a category table.
// It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded from the runtime's random source.
func NewGenerator() *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewGeneratorWithSource returns a Generator drawing from src, for
// reproducible sequences in tests.
func NewGeneratorWithSource(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// draw is one picked clip and whether it came from the outlier category.
type draw struct {
	clip    string
	outlier bool
}

// Generate picks two distinct categories, draws three distinct clips from the
// first and one clip from the second, and shuffles them into a challenge.
// A table that fails Validate yields a *ConfigError.
func (g *Generator) Generate(categories Categories) (Challenge, error) {
	if err := categories.Validate(); err != nil {
		return Challenge{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	names := categories.Names()
	a := names[g.rng.IntN(len(names))]
	b := a
	for b == a {
		b = names[g.rng.IntN(len(names))]
	}

	pool := append([]string(nil), categories[a]...)
	shuffle(g.rng, pool)

	oddPool := categories[b]
	draws := make([]draw, 0, ClipsPerChallenge)
	for _, clip := range pool[:majorityDraws] {
		draws = append(draws, draw{clip: clip})
	}
	draws = append(draws, draw{clip: oddPool[g.rng.IntN(len(oddPool))], outlier: true})
	shuffle(g.rng, draws)

	c := Challenge{
		id:       uuid.NewString(),
		majority: a,
		outlier:  b,
	}
	for i, d := range draws {
		c.sequence[i] = d.clip
		if d.outlier {
			c.outlierPosition = i
		}
	}
	return c, nil
}

// shuffle is an in-place Fisher–Yates permutation.
func shuffle[T any](rng *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
