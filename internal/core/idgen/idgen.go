package idgen

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Generator produces short human-readable identifiers of the form
// "<PREFIX>-<4 digits>", e.g. "SH-4821". Uniqueness is the caller's concern:
// the store retries against its snapshot until an unused id comes out.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Generator seeded from the current time.
func New() *Generator {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates a Generator using the given random source.
// Tests inject a fixed seed for reproducible ids.
func NewWithRand(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Next returns a fresh id with the given prefix.
func (g *Generator) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return fmt.Sprintf("%s-%04d", prefix, 1000+g.rng.Intn(9000))
}

// NextWide returns a longer 8-digit id with the given prefix.
// The store falls back to it when the 4-digit space is too crowded.
func (g *Generator) NextWide(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return fmt.Sprintf("%s-%08d", prefix, 10000000+g.rng.Intn(90000000))
}
