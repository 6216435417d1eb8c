package engine

import (
	"math/rand/v2"
	"sync"
)

// Random is the uniform source behind golden cookie timing, placement and kind.
type Random interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// lockedRand makes a PCG source safe for the ticker and bridge goroutines.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandom returns a seeded source. Equal seeds replay equal golden cookies.
func NewRandom(seed uint64) Random {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// SequenceRandom replays fixed values in order, wrapping around. Used by
// scenarios and tests to script golden cookies.
type SequenceRandom struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func NewSequenceRandom(values ...float64) *SequenceRandom {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &SequenceRandom{values: values}
}

func (s *SequenceRandom) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
