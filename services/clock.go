package services

import (
	"math/rand/v2"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Random is a goroutine-safe source of the draws the analyzer, quiz engine
// and minter need. Seeding it makes those draws reproducible.
type Random struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSeededRandom is the production source.
func NewTimeSeededRandom() *Random {
	return NewRandom(uint64(time.Now().UnixNano()))
}

func (r *Random) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.IntN(n)
}

// Uniform draws from [lo, hi).
func (r *Random) Uniform(lo, hi float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.r.Float64()*(hi-lo)
}

func (r *Random) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Uint64()
}

func (r *Random) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Perm(n)
}
