package query

import "context"

// Grouping is one group produced by GroupBy: a key and the members that
// mapped to it, in source order.
type Grouping[K comparable, T any] struct {
	Key   K
	items []T
}

// Items returns the members of the group. The slice must not be modified.
func (g *Grouping[K, T]) Items() []T { return g.items }

// Len returns the number of members.
func (g *Grouping[K, T]) Len() int { return len(g.items) }

// Seq returns the members as a Sequence, so groups can feed further operators.
func (g *Grouping[K, T]) Seq() *Sequence[T] { return FromSlice(g.items) }

// GroupBy partitions s by key. Groups are emitted in the order their key was
// first seen; members keep their relative source order. The whole input is
// consumed on the first call to Next.
func GroupBy[T any, K comparable](s *Sequence[T], key func(T) K) *Sequence[*Grouping[K, T]] {
	return GroupByInto(s, key, identity[T])
}

// GroupByInto is GroupBy with each member projected through elem.
func GroupByInto[T any, K comparable, E any](s *Sequence[T], key func(T) K, elem func(T) E) *Sequence[*Grouping[K, E]] {
	return newSequence(func(ctx context.Context) Cursor[*Grouping[K, E]] {
		return &groupCursor[T, K, E]{source: s.traverse(ctx), key: key, elem: elem}
	})
}

type groupCursor[T any, K comparable, E any] struct {
	source Cursor[T]
	key    func(T) K
	elem   func(T) E
	groups []*Grouping[K, E]
	index  int
	loaded bool
}

func (c *groupCursor[T, K, E]) Next(ctx context.Context) (*Grouping[K, E], bool, error) {
	if !c.loaded {
		groups, err := collectGroups(ctx, c.source, c.key, c.elem)
		if err != nil {
			return nil, false, err
		}
		c.groups, c.loaded = groups, true
	}
	if c.index >= len(c.groups) {
		return nil, false, nil
	}
	g := c.groups[c.index]
	c.index++
	return g, true, nil
}

func (c *groupCursor[T, K, E]) Close() error {
	c.groups = nil
	return c.source.Close()
}

func collectGroups[T any, K comparable, E any](ctx context.Context, cur Cursor[T], key func(T) K, elem func(T) E) ([]*Grouping[K, E], error) {
	index := make(map[K]*Grouping[K, E])
	var groups []*Grouping[K, E]
	for {
		val, ok, err := cur.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return groups, nil
		}
		k := key(val)
		g, found := index[k]
		if !found {
			g = &Grouping[K, E]{Key: k}
			index[k] = g
			groups = append(groups, g)
		}
		g.items = append(g.items, elem(val))
	}
}

// Lookup is a materialized, read-only key → members index that remembers the
// order in which keys were first seen.
type Lookup[K comparable, T any] struct {
	groups []*Grouping[K, T]
	index  map[K]*Grouping[K, T]
}

// ToLookup drains s into a Lookup keyed by key.
func ToLookup[T any, K comparable](ctx context.Context, s *Sequence[T], key func(T) K) (*Lookup[K, T], error) {
	cur := s.traverse(ctx)
	defer cur.Close()
	groups, err := collectGroups(ctx, cur, key, identity[T])
	if err != nil {
		return nil, err
	}
	return newLookup(groups), nil
}

func newLookup[K comparable, T any](groups []*Grouping[K, T]) *Lookup[K, T] {
	index := make(map[K]*Grouping[K, T], len(groups))
	for _, g := range groups {
		index[g.Key] = g
	}
	return &Lookup[K, T]{groups: groups, index: index}
}

// Get returns the members for key, or nil if the key is absent.
func (l *Lookup[K, T]) Get(key K) []T {
	if g, ok := l.index[key]; ok {
		return g.items
	}
	return nil
}

// Contains reports whether key has at least one member.
func (l *Lookup[K, T]) Contains(key K) bool {
	_, ok := l.index[key]
	return ok
}

// Keys returns the keys in first-seen order.
func (l *Lookup[K, T]) Keys() []K {
	keys := make([]K, len(l.groups))
	for i, g := range l.groups {
		keys[i] = g.Key
	}
	return keys
}

// Len returns the number of distinct keys.
func (l *Lookup[K, T]) Len() int { return len(l.groups) }

// Groups returns the groups as a Sequence, in first-seen key order.
func (l *Lookup[K, T]) Groups() *Sequence[*Grouping[K, T]] { return FromSlice(l.groups) }

// --- Joins ---

// Join correlates outer and inner on equal keys. For each outer value, in
// order, one result is produced per matching inner value, in inner order.
// inner is drained into a lookup on the first call to Next.
func Join[O, I any, K comparable, R any](
	outer *Sequence[O], inner *Sequence[I],
	outerKey func(O) K, innerKey func(I) K,
	result func(O, I) R,
) *Sequence[R] {
	return newSequence(func(ctx context.Context) Cursor[R] {
		return &joinCursor[O, I, K, R]{
			ctx: ctx, outer: outer.traverse(ctx), inner: inner,
			outerKey: outerKey, innerKey: innerKey, result: result,
		}
	})
}

// GroupJoin correlates each outer value with all inner values sharing its
// key. Outer values without matches are paired with an empty slice.
func GroupJoin[O, I any, K comparable, R any](
	outer *Sequence[O], inner *Sequence[I],
	outerKey func(O) K, innerKey func(I) K,
	result func(O, []I) R,
) *Sequence[R] {
	return newSequence(func(ctx context.Context) Cursor[R] {
		return &groupJoinCursor[O, I, K, R]{
			ctx: ctx, outer: outer.traverse(ctx), inner: inner,
			outerKey: outerKey, innerKey: innerKey, result: result,
		}
	})
}

type joinCursor[O, I any, K comparable, R any] struct {
	ctx      context.Context
	outer    Cursor[O]
	inner    *Sequence[I]
	outerKey func(O) K
	innerKey func(I) K
	result   func(O, I) R

	lookup  *Lookup[K, I]
	current O
	matches []I
}

func (c *joinCursor[O, I, K, R]) Next(ctx context.Context) (R, bool, error) {
	var zero R
	if c.lookup == nil {
		lookup, err := ToLookup(c.ctx, c.inner, c.innerKey)
		if err != nil {
			return zero, false, err
		}
		c.lookup = lookup
	}
	for len(c.matches) == 0 {
		val, ok, err := c.outer.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		c.current, c.matches = val, c.lookup.Get(c.outerKey(val))
	}
	match := c.matches[0]
	c.matches = c.matches[1:]
	return c.result(c.current, match), true, nil
}

func (c *joinCursor[O, I, K, R]) Close() error {
	c.lookup, c.matches = nil, nil
	return c.outer.Close()
}

type groupJoinCursor[O, I any, K comparable, R any] struct {
	ctx      context.Context
	outer    Cursor[O]
	inner    *Sequence[I]
	outerKey func(O) K
	innerKey func(I) K
	result   func(O, []I) R
	lookup   *Lookup[K, I]
}

func (c *groupJoinCursor[O, I, K, R]) Next(ctx context.Context) (R, bool, error) {
	var zero R
	if c.lookup == nil {
		lookup, err := ToLookup(c.ctx, c.inner, c.innerKey)
		if err != nil {
			return zero, false, err
		}
		c.lookup = lookup
	}
	val, ok, err := c.outer.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	matches := c.lookup.Get(c.outerKey(val))
	if matches == nil {
		matches = []I{}
	}
	return c.result(val, matches), true, nil
}

func (c *groupJoinCursor[O, I, K, R]) Close() error {
	c.lookup = nil
	return c.outer.Close()
}
