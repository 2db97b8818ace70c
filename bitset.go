package silo

import (
	"iter"
	"math/bits"
	"slices"
)

// Bitset is a growable set of uint32 indices backed by a word array.
// It grows on demand: Set never fails and there is no fixed capacity,
// so callers never observe an out-of-room condition. The word backing
// is an implementation detail and is only surfaced, as a copy, through
// Words and SetWords for persistence.
type Bitset struct {
	words []uint64
}

func (b *Bitset) Set(i uint32) {
	w := int(i >> 6)
	for w >= len(b.words) {
		b.words = append(b.words, 0)
	}
	b.words[w] |= 1 << (i & 63)
}

func (b *Bitset) Unset(i uint32) {
	w := int(i >> 6)
	if w < len(b.words) {
		b.words[w] &^= 1 << (i & 63)
	}
}

func (b *Bitset) Contains(i uint32) bool {
	w := int(i >> 6)
	return w < len(b.words) && b.words[w]&(1<<(i&63)) != 0
}

// Clear unsets every index but keeps the backing storage.
func (b *Bitset) Clear() {
	clear(b.words)
}

func (b *Bitset) Count() int {
	n := 0
	for _, word := range b.words {
		n += bits.OnesCount64(word)
	}
	return n
}

// Min returns the smallest set index, or false when the set is empty.
func (b *Bitset) Min() (uint32, bool) {
	return b.nextSet(0)
}

// NextFree returns the smallest unset index >= start. Indices beyond the
// backing words are free, so NextFree always succeeds.
func (b *Bitset) NextFree(start uint32) uint32 {
	w := int(start >> 6)
	if w >= len(b.words) {
		return start
	}
	// Treat bits below start as occupied within the first word.
	word := b.words[w] | (uint64(1)<<(start&63) - 1)
	for {
		if word != ^uint64(0) {
			return uint32(w)<<6 + uint32(bits.TrailingZeros64(^word))
		}
		w++
		if w >= len(b.words) {
			return uint32(w) << 6
		}
		word = b.words[w]
	}
}

// nextSet returns the smallest set index >= start.
func (b *Bitset) nextSet(start uint32) (uint32, bool) {
	w := int(start >> 6)
	if w >= len(b.words) {
		return 0, false
	}
	word := b.words[w] >> (start & 63) << (start & 63)
	for {
		if word != 0 {
			return uint32(w)<<6 + uint32(bits.TrailingZeros64(word)), true
		}
		w++
		if w >= len(b.words) {
			return 0, false
		}
		word = b.words[w]
	}
}

// IntersectWith removes every index not present in other.
func (b *Bitset) IntersectWith(other *Bitset) {
	for i := range b.words {
		if i < len(other.words) {
			b.words[i] &= other.words[i]
		} else {
			b.words[i] = 0
		}
	}
}

// UnionWith adds every index present in other.
func (b *Bitset) UnionWith(other *Bitset) {
	for len(b.words) < len(other.words) {
		b.words = append(b.words, 0)
	}
	for i, word := range other.words {
		b.words[i] |= word
	}
}

// DifferenceWith removes every index present in other.
func (b *Bitset) DifferenceWith(other *Bitset) {
	n := min(len(b.words), len(other.words))
	for i := 0; i < n; i++ {
		b.words[i] &^= other.words[i]
	}
}

// All iterates the set indices in ascending order. The set must not be
// modified during iteration.
func (b *Bitset) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for w, word := range b.words {
			for word != 0 {
				i := uint32(w)<<6 + uint32(bits.TrailingZeros64(word))
				if !yield(i) {
					return
				}
				word &= word - 1
			}
		}
	}
}

func (b *Bitset) Clone() *Bitset {
	return &Bitset{words: slices.Clone(b.words)}
}

// Equal reports whether both sets hold the same indices, regardless of
// backing length.
func (b *Bitset) Equal(other *Bitset) bool {
	longer, shorter := b.words, other.words
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
	}
	for i, word := range shorter {
		if word != longer[i] {
			return false
		}
	}
	for _, word := range longer[len(shorter):] {
		if word != 0 {
			return false
		}
	}
	return true
}

// Words returns a copy of the backing words with trailing zero words
// trimmed. Intended for persistence.
func (b *Bitset) Words() []uint64 {
	end := len(b.words)
	for end > 0 && b.words[end-1] == 0 {
		end--
	}
	return slices.Clone(b.words[:end])
}

// SetWords replaces the set contents with a copy of words.
func (b *Bitset) SetWords(words []uint64) {
	b.words = slices.Clone(words)
}
