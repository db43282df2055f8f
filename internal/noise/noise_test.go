package noise

import (
	"math"
	"testing"

	"islandforge/internal/rng"
)

func TestField_Deterministic(t *testing.T) {
	a := NewField(rng.New("noise-seed"), DefaultParams)
	b := NewField(rng.New("noise-seed"), DefaultParams)
	for i := 0; i < 100; i++ {
		x := float64(i) * 1.7
		y := float64(i) * 0.3
		if a.Eval2(x, y) != b.Eval2(x, y) {
			t.Fatalf("fields diverged at (%v,%v)", x, y)
		}
	}
}

func TestField_DoesNotPerturbCallerStream(t *testing.T) {
	r := rng.New("stream")
	want := r.Clone().Uint64()
	_ = NewField(r, DefaultParams)
	if got := r.Uint64(); got != want {
		t.Fatalf("NewField consumed a draw from the caller's stream")
	}
}

func TestField_RangeAndContinuity(t *testing.T) {
	f := NewField(rng.New("range"), DefaultParams)
	prev := f.Eval2(0, 0)
	for i := 1; i < 2000; i++ {
		v := f.Eval2(float64(i)*0.05, 3.2)
		if v < -1 || v > 1 {
			t.Fatalf("value out of [-1,1]: %v", v)
		}
		// Adjacent samples 0.05·frequency apart should not jump wildly.
		if math.Abs(v-prev) > 0.5 {
			t.Fatalf("discontinuity at step %d: %v -> %v", i, prev, v)
		}
		prev = v
	}
}
