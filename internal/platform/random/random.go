// Package random provides uniform selection helpers over an injectable
// source of randomness.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

var (
	ErrEmptyInput           = errors.New("cannot pick from an empty sequence")
	ErrInsufficientElements = errors.New("sample size exceeds population")
)

// Source yields uniformly distributed integers in [0, n).
type Source interface {
	IntN(n int) int
}

// PCGSource is a Source backed by a PCG generator. It is safe for concurrent use.
type PCGSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a Source seeded from the operating system.
func NewSource() *PCGSource {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return NewSeeded(rand.Uint64())
	}
	return &PCGSource{
		rng: rand.New(rand.NewPCG(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:]))),
	}
}

// NewSeeded returns a deterministic Source.
func NewSeeded(seed uint64) *PCGSource {
	return &PCGSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *PCGSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// PickOne returns one element of items chosen uniformly at random.
func PickOne[T any](src Source, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyInput
	}
	return items[src.IntN(len(items))], nil
}

// Sample returns k distinct elements of items chosen uniformly at random
// without replacement. The input slice is left untouched.
func Sample[T any](src Source, items []T, k int) ([]T, error) {
	if k < 0 || k > len(items) {
		return nil, fmt.Errorf("%w: want %d of %d", ErrInsufficientElements, k, len(items))
	}
	if k == 0 {
		return []T{}, nil
	}

	pool := append([]T(nil), items...)
	for i := 0; i < k; i++ {
		j := i + src.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:k:k], nil
}
