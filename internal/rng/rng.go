// Package rng provides the deterministic random source for the whole
// generation pipeline. Every draw is a pure function of (seed, call count);
// no wall clock, no host entropy.
package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrNoPositiveWeight = errors.New("rng: all weights are zero or negative")

// RNG is a splitmix64 stream. The zero value is not usable; construct with
// New or NewInt.
type RNG struct {
	state uint64
}

// New derives the stream state from an opaque string seed plus an optional
// sub-identifier. Two RNGs built from the same (seed, sub) produce identical
// sequences across runs and platforms.
func New(seed string, sub ...string) *RNG {
	h := sha256.New()
	h.Write([]byte(seed))
	for _, s := range sub {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	sum := h.Sum(nil)
	return &RNG{state: binary.LittleEndian.Uint64(sum[:8])}
}

// NewInt builds a stream from a numeric seed.
func NewInt(seed int64, sub ...string) *RNG {
	return New(fmt.Sprintf("%d", seed), sub...)
}

// Clone returns an independent RNG that will produce the same future
// sequence as the receiver.
func (r *RNG) Clone() *RNG {
	return &RNG{state: r.state}
}

// Sub derives a new independent stream from the current state and a label,
// without consuming a draw from the receiver. Used to partition work
// (per island, per chunk) so concurrent consumers stay deterministic.
func (r *RNG) Sub(label string) *RNG {
	h := sha256.New()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], r.state)
	h.Write(b[:])
	h.Write([]byte(label))
	sum := h.Sum(nil)
	return &RNG{state: binary.LittleEndian.Uint64(sum[:8])}
}

func (r *RNG) nextUint64() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Uint64 returns the next raw 64-bit value.
func (r *RNG) Uint64() uint64 {
	return r.nextUint64()
}

// Int64 returns the next value reinterpreted as a signed 64-bit integer.
// Handy for seeding noise generators.
func (r *RNG) Int64() int64 {
	return int64(r.nextUint64())
}

// Next returns a float in [0, 1).
func (r *RNG) Next() float64 {
	return float64(r.nextUint64()>>11) / (1 << 53)
}

// NextInt returns an integer in [min, max], inclusive on both ends.
// min > max is swapped rather than rejected.
func (r *RNG) NextInt(min, max int) int {
	if min > max {
		min, max = max, min
	}
	span := uint64(max-min) + 1
	return min + int(r.nextUint64()%span)
}

// Pick returns an index into items chosen by weight. A nil weights slice
// means uniform. Weights that are zero or negative are skipped; if no
// weight is positive the pick fails.
func Pick[T any](r *RNG, items []T, weights []float64) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, errors.New("rng: pick from empty slice")
	}
	if weights == nil {
		return items[r.NextInt(0, len(items)-1)], nil
	}
	if len(weights) != len(items) {
		return zero, fmt.Errorf("rng: %d items but %d weights", len(items), len(weights))
	}
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return zero, ErrNoPositiveWeight
	}
	target := r.Next() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if target < w {
			return items[i], nil
		}
		target -= w
	}
	// Floating point edge: fall through to the last positively weighted item.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return items[i], nil
		}
	}
	return zero, ErrNoPositiveWeight
}

// ShuffleInPlace applies a Fisher-Yates shuffle.
func ShuffleInPlace[T any](r *RNG, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := int(r.nextUint64() % uint64(i+1))
		items[i], items[j] = items[j], items[i]
	}
}
