package silo

// Fixed-arity join helpers over a world's stores. Each variant intersects
// the live set with every required store's presence set and calls fn per
// match in ascending index order. Rows whose stored generation no longer
// matches the live entity are skipped.

// Each runs fn for every live entity holding an A.
func Each[A any](w *World, fn func(e Entity, a *A)) {
	sa := StoreFor[A](w)
	cur := newCursor(w, sa.untyped)
	for cur.Next() {
		e := cur.Entity()
		a, ok := sa.Get(e)
		if !ok {
			continue
		}
		fn(e, a)
	}
}

// Each2 runs fn for every live entity holding both an A and a B.
func Each2[A, B any](w *World, fn func(e Entity, a *A, b *B)) {
	sa := StoreFor[A](w)
	sb := StoreFor[B](w)
	cur := newCursor(w, sa.untyped, sb.untyped)
	for cur.Next() {
		e := cur.Entity()
		a, okA := sa.Get(e)
		b, okB := sb.Get(e)
		if !okA || !okB {
			continue
		}
		fn(e, a, b)
	}
}

// Each3 runs fn for every live entity holding an A, a B, and a C.
func Each3[A, B, C any](w *World, fn func(e Entity, a *A, b *B, c *C)) {
	sa := StoreFor[A](w)
	sb := StoreFor[B](w)
	sc := StoreFor[C](w)
	cur := newCursor(w, sa.untyped, sb.untyped, sc.untyped)
	for cur.Next() {
		e := cur.Entity()
		a, okA := sa.Get(e)
		b, okB := sb.Get(e)
		c, okC := sc.Get(e)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, a, b, c)
	}
}

// Each2Optional runs fn for every live entity holding an A; b is nil when
// the entity has no B.
func Each2Optional[A, B any](w *World, fn func(e Entity, a *A, b *B)) {
	sa := StoreFor[A](w)
	sb := StoreFor[B](w)
	cur := newCursor(w, sa.untyped)
	for cur.Next() {
		e := cur.Entity()
		a, ok := sa.Get(e)
		if !ok {
			continue
		}
		b, _ := sb.Get(e)
		fn(e, a, b)
	}
}

// Each3Optional runs fn for every live entity holding an A and a B; c is
// nil when the entity has no C.
func Each3Optional[A, B, C any](w *World, fn func(e Entity, a *A, b *B, c *C)) {
	sa := StoreFor[A](w)
	sb := StoreFor[B](w)
	sc := StoreFor[C](w)
	cur := newCursor(w, sa.untyped, sb.untyped)
	for cur.Next() {
		e := cur.Entity()
		a, okA := sa.Get(e)
		b, okB := sb.Get(e)
		if !okA || !okB {
			continue
		}
		c, _ := sc.Get(e)
		fn(e, a, b, c)
	}
}
