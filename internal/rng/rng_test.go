package rng

import (
	"errors"
	"testing"
)

func TestRNG_SameSeedSameSequence(t *testing.T) {
	a := New("test-seed")
	b := New("test-seed")
	for i := 0; i < 1000; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("draw %d diverged: %v vs %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, va)
		}
	}
}

func TestRNG_SubIdentifierChangesStream(t *testing.T) {
	a := New("test-seed")
	b := New("test-seed", "island_2")
	same := 0
	for i := 0; i < 64; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same == 64 {
		t.Fatalf("sub-identifier did not change the stream")
	}
}

func TestRNG_CloneIsIndependent(t *testing.T) {
	a := New("seed")
	a.Next()
	c := a.Clone()

	var want [16]uint64
	for i := range want {
		want[i] = c.Uint64()
	}
	// Cloning again from the same state must replay the same future.
	_ = a // a was not advanced by c's draws
	c2 := a.Clone()
	for i := range want {
		if got := c2.Uint64(); got != want[i] {
			t.Fatalf("clone draw %d: got %d want %d", i, got, want[i])
		}
	}
}

func TestRNG_NextIntInclusiveBounds(t *testing.T) {
	r := New("bounds")
	sawMin, sawMax := false, false
	for i := 0; i < 10000; i++ {
		v := r.NextInt(3, 7)
		if v < 3 || v > 7 {
			t.Fatalf("NextInt out of range: %d", v)
		}
		if v == 3 {
			sawMin = true
		}
		if v == 7 {
			sawMax = true
		}
	}
	if !sawMin || !sawMax {
		t.Fatalf("inclusive bounds never hit: min=%v max=%v", sawMin, sawMax)
	}
}

func TestPick_WeightedRespectsZeroWeights(t *testing.T) {
	r := New("pick")
	items := []string{"a", "b", "c"}
	for i := 0; i < 200; i++ {
		got, err := Pick(r, items, []float64{0, 1, 0})
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		if got != "b" {
			t.Fatalf("zero-weighted item picked: %q", got)
		}
	}
}

func TestPick_AllNonPositiveWeightsIsError(t *testing.T) {
	r := New("pick")
	_, err := Pick(r, []string{"a", "b"}, []float64{0, -1})
	if !errors.Is(err, ErrNoPositiveWeight) {
		t.Fatalf("want ErrNoPositiveWeight, got %v", err)
	}
}

func TestShuffleInPlace_Deterministic(t *testing.T) {
	mk := func() []int {
		v := make([]int, 20)
		for i := range v {
			v[i] = i
		}
		return v
	}
	a, b := mk(), mk()
	ShuffleInPlace(New("shuffle"), a)
	ShuffleInPlace(New("shuffle"), b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shuffle diverged at %d", i)
		}
	}
}
