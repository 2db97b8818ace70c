package silo

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// column is the dense, type-erased value buffer inside an untyped store.
// Slot bookkeeping lives in the store; the column only holds and moves
// values. Boxed arguments must hold the column's element type.
type column interface {
	len() int
	// value returns a *T reference into slot i.
	value(i int) any
	// copyValue returns slot i by value.
	copyValue(i int) any
	set(i int, v any)
	push(v any) int
	// swapRemove moves the last value into slot i and truncates.
	swapRemove(i int)
	reset()
	encodeValues() ([]byte, error)
	decodeValues(data []byte, want int) error
}

type sliceColumn[T any] struct {
	data []T
}

var _ column = &sliceColumn[int]{}

func (c *sliceColumn[T]) len() int { return len(c.data) }

func (c *sliceColumn[T]) value(i int) any { return &c.data[i] }

func (c *sliceColumn[T]) copyValue(i int) any { return c.data[i] }

func (c *sliceColumn[T]) set(i int, v any) { c.data[i] = v.(T) }

func (c *sliceColumn[T]) push(v any) int {
	c.data = append(c.data, v.(T))
	return len(c.data) - 1
}

func (c *sliceColumn[T]) swapRemove(i int) {
	last := len(c.data) - 1
	c.data[i] = c.data[last]
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
}

func (c *sliceColumn[T]) reset() {
	clear(c.data)
	c.data = c.data[:0]
}

func (c *sliceColumn[T]) encodeValues() ([]byte, error) {
	return cbor.Marshal(c.data)
}

func (c *sliceColumn[T]) decodeValues(data []byte, want int) error {
	var vals []T
	if err := cbor.Unmarshal(data, &vals); err != nil {
		return fmt.Errorf("decoding column values: %w", err)
	}
	if len(vals) != want {
		return fmt.Errorf("decoded %d column values, want %d", len(vals), want)
	}
	c.data = vals
	return nil
}
