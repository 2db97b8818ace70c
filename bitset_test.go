package silo

import (
	"math/rand"
	"slices"
	"testing"
)

func TestBitsetSetUnsetContains(t *testing.T) {
	tests := []struct {
		name   string
		set    []uint32
		unset  []uint32
		want   []uint32
		absent []uint32
	}{
		{
			name:   "Single bit",
			set:    []uint32{5},
			want:   []uint32{5},
			absent: []uint32{0, 4, 6, 64},
		},
		{
			name:   "Across word boundary",
			set:    []uint32{63, 64, 65, 200},
			want:   []uint32{63, 64, 65, 200},
			absent: []uint32{62, 66, 199, 201},
		},
		{
			name:   "Unset clears",
			set:    []uint32{1, 2, 3},
			unset:  []uint32{2},
			want:   []uint32{1, 3},
			absent: []uint32{2},
		},
		{
			name:   "Unset beyond backing is a no-op",
			set:    []uint32{0},
			unset:  []uint32{500},
			want:   []uint32{0},
			absent: []uint32{500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Bitset
			for _, i := range tt.set {
				b.Set(i)
			}
			for _, i := range tt.unset {
				b.Unset(i)
			}
			for _, i := range tt.want {
				if !b.Contains(i) {
					t.Errorf("Contains(%d) = false, want true", i)
				}
			}
			for _, i := range tt.absent {
				if b.Contains(i) {
					t.Errorf("Contains(%d) = true, want false", i)
				}
			}
			if b.Count() != len(tt.want) {
				t.Errorf("Count() = %d, want %d", b.Count(), len(tt.want))
			}
		})
	}
}

func TestBitsetNextFree(t *testing.T) {
	tests := []struct {
		name  string
		set   []uint32
		unset []uint32
		start uint32
		want  uint32
	}{
		{
			name:  "Empty set",
			start: 0,
			want:  0,
		},
		{
			name:  "Dense prefix",
			set:   []uint32{0, 1, 2, 3},
			start: 0,
			want:  4,
		},
		{
			name:  "Freed middle index is reused",
			set:   []uint32{0, 1, 2, 3, 4},
			unset: []uint32{2},
			start: 0,
			want:  2,
		},
		{
			name:  "Start past backing",
			set:   []uint32{0},
			start: 1000,
			want:  1000,
		},
		{
			name:  "Full word spills into next",
			set:   []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48, 49, 50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60, 61, 62, 63},
			start: 0,
			want:  64,
		},
		{
			name:  "Start within occupied run",
			set:   []uint32{10, 11, 12},
			start: 10,
			want:  13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Bitset
			for _, i := range tt.set {
				b.Set(i)
			}
			for _, i := range tt.unset {
				b.Unset(i)
			}
			if got := b.NextFree(tt.start); got != tt.want {
				t.Errorf("NextFree(%d) = %d, want %d", tt.start, got, tt.want)
			}
		})
	}
}

func TestBitsetMin(t *testing.T) {
	var b Bitset
	if _, ok := b.Min(); ok {
		t.Error("Min() on empty set reported a value")
	}
	b.Set(130)
	b.Set(70)
	if got, ok := b.Min(); !ok || got != 70 {
		t.Errorf("Min() = %d, %v, want 70, true", got, ok)
	}
	b.Unset(70)
	if got, ok := b.Min(); !ok || got != 130 {
		t.Errorf("Min() = %d, %v, want 130, true", got, ok)
	}
}

func TestBitsetAllAscending(t *testing.T) {
	var b Bitset
	input := []uint32{200, 3, 64, 63, 0, 127}
	for _, i := range input {
		b.Set(i)
	}

	var got []uint32
	for i := range b.All() {
		got = append(got, i)
	}

	want := []uint32{0, 3, 63, 64, 127, 200}
	if !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

// TestBitsetAlgebra checks intersect/union/difference against a map oracle
// over randomized populations.
func TestBitsetAlgebra(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 10; trial++ {
		left := make(map[uint32]bool)
		right := make(map[uint32]bool)
		var a, b Bitset

		for i := 0; i < 300; i++ {
			la := uint32(rng.Intn(512))
			rb := uint32(rng.Intn(512))
			left[la] = true
			right[rb] = true
			a.Set(la)
			b.Set(rb)
		}

		inter := a.Clone()
		inter.IntersectWith(&b)
		union := a.Clone()
		union.UnionWith(&b)
		diff := a.Clone()
		diff.DifferenceWith(&b)

		for i := uint32(0); i < 512; i++ {
			if got, want := inter.Contains(i), left[i] && right[i]; got != want {
				t.Fatalf("trial %d: intersect Contains(%d) = %v, want %v", trial, i, got, want)
			}
			if got, want := union.Contains(i), left[i] || right[i]; got != want {
				t.Fatalf("trial %d: union Contains(%d) = %v, want %v", trial, i, got, want)
			}
			if got, want := diff.Contains(i), left[i] && !right[i]; got != want {
				t.Fatalf("trial %d: difference Contains(%d) = %v, want %v", trial, i, got, want)
			}
		}
	}
}

func TestBitsetAlgebraUnevenLengths(t *testing.T) {
	var short, long Bitset
	short.Set(1)
	long.Set(1)
	long.Set(500)

	inter := short.Clone()
	inter.IntersectWith(&long)
	if !inter.Contains(1) || inter.Contains(500) {
		t.Error("intersect with longer set lost or gained indices")
	}

	inter2 := long.Clone()
	inter2.IntersectWith(&short)
	if !inter2.Contains(1) || inter2.Contains(500) {
		t.Error("intersect with shorter set kept out-of-range indices")
	}

	union := short.Clone()
	union.UnionWith(&long)
	if !union.Contains(1) || !union.Contains(500) {
		t.Error("union with longer set dropped indices")
	}
}

func TestBitsetEqual(t *testing.T) {
	var a, b Bitset
	a.Set(3)
	b.Set(3)
	// Force differing backing lengths with identical contents.
	b.Set(900)
	b.Unset(900)

	if !a.Equal(&b) || !b.Equal(&a) {
		t.Error("sets with identical contents compare unequal")
	}
	b.Set(4)
	if a.Equal(&b) {
		t.Error("differing sets compare equal")
	}
}

func TestBitsetWordsRoundTrip(t *testing.T) {
	var a Bitset
	a.Set(2)
	a.Set(65)
	a.Set(64)
	a.Set(300)
	a.Unset(300)

	words := a.Words()
	if len(words) != 2 {
		t.Errorf("Words() length = %d, want 2 (trailing zeros trimmed)", len(words))
	}

	var b Bitset
	b.SetWords(words)
	if !a.Equal(&b) {
		t.Error("SetWords(Words()) did not reproduce the set")
	}
}

func TestBitsetCloneIndependent(t *testing.T) {
	var a Bitset
	a.Set(10)
	c := a.Clone()
	c.Set(11)
	a.Unset(10)

	if a.Contains(11) {
		t.Error("mutating clone affected original")
	}
	if !c.Contains(10) {
		t.Error("mutating original affected clone")
	}
}

func TestBitsetClear(t *testing.T) {
	var b Bitset
	b.Set(0)
	b.Set(99)
	b.Clear()
	if b.Count() != 0 {
		t.Errorf("Count() after Clear = %d, want 0", b.Count())
	}
	if got := b.NextFree(0); got != 0 {
		t.Errorf("NextFree(0) after Clear = %d, want 0", got)
	}
}
