package score

import (
	"math"
	"testing"
)

// allVectors enumerates every possible presence vector.
func allVectors() []Presence {
	var vectors []Presence
	for i := 0; i < 64; i++ {
		vectors = append(vectors, Presence{
			HasPhoto:        i&1 != 0,
			HasValue:        i&2 != 0,
			HasCategory:     i&4 != 0,
			HasRoom:         i&8 != 0,
			HasReceipt:      i&16 != 0,
			HasSerialNumber: i&32 != 0,
		})
	}
	return vectors
}

func TestCoreScoreQuantized(t *testing.T) {
	valid := map[float64]bool{0: true, 0.25: true, 0.5: true, 0.75: true, 1: true}
	for _, p := range allVectors() {
		if c := Core(p); !valid[c] {
			t.Errorf("Core(%+v) = %v, not a quarter step", p, c)
		}
	}
}

func TestExtendedWeightsSumToOne(t *testing.T) {
	sum := WeightPhoto + WeightValue + WeightRoom + WeightCategory + WeightReceipt + WeightSerial
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("weights sum to %v, want 1.0", sum)
	}
}

func TestExtendedBounds(t *testing.T) {
	if s := Extended(Presence{}); s != 0 {
		t.Errorf("empty vector scored %v, want 0", s)
	}
	all := Presence{true, true, true, true, true, true}
	if s := Extended(all); math.Abs(s-1) > 1e-9 {
		t.Errorf("full vector scored %v, want 1", s)
	}

	for _, p := range allVectors() {
		if s := Extended(p); s < 0 || s > 1+1e-9 {
			t.Errorf("Extended(%+v) = %v out of range", p, s)
		}
	}
}

func TestExtendedNotRenormalized(t *testing.T) {
	// A missing field contributes zero; the others keep their fixed weight.
	p := Presence{HasPhoto: true, HasValue: true}
	want := WeightPhoto + WeightValue
	if s := Extended(p); math.Abs(s-want) > 1e-9 {
		t.Errorf("Extended = %v, want %v", s, want)
	}
}

func TestFullyDocumentedIffCoreComplete(t *testing.T) {
	for _, p := range allVectors() {
		want := Core(p) == 1
		if got := IsFullyDocumented(p); got != want {
			t.Errorf("IsFullyDocumented(%+v) = %v, core = %v", p, got, Core(p))
		}
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		p    Presence
		want string
	}{
		{Presence{HasPhoto: true, HasValue: true, HasCategory: true, HasRoom: true}, LevelComplete},
		{Presence{HasPhoto: true, HasValue: true, HasCategory: true}, LevelGood},
		{Presence{HasPhoto: true, HasValue: true}, LevelPartial},
		{Presence{HasPhoto: true}, LevelMinimal},
		{Presence{}, LevelMinimal},
		// Receipt and serial do not move the core level.
		{Presence{HasReceipt: true, HasSerialNumber: true}, LevelMinimal},
	}
	for _, tt := range tests {
		if got := Level(tt.p); got != tt.want {
			t.Errorf("Level(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestMissingFieldsOrder(t *testing.T) {
	missing := MissingFields(Presence{})
	want := []string{"Photo", "Value", "Category", "Room", "Receipt", "Serial number"}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing fields, got %d", len(want), len(missing))
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d] = %q, want %q", i, missing[i], want[i])
		}
	}

	if m := MissingFields(Presence{true, true, true, true, true, true}); len(m) != 0 {
		t.Errorf("full vector has missing fields: %v", m)
	}
}
