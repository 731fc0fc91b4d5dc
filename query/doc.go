// Package query provides a lazy, composable, pull-based sequence-query engine.
//
// A Sequence is a description, not a result. Building a chain of operators
// does no work; each terminal call (ToSlice, Count, First, Sum...) or each
// call to Traverse starts a brand-new traversal that re-runs the whole chain
// from the original source. Side-effecting sources and callbacks therefore
// run again on every traversal, and buffering operators (OrderBy, GroupBy,
// Reverse, the set operators) rebuild their buffers from scratch each time.
//
// Each stage pulls from its upstream cursor only when its own Next is called,
// so purely lazy chains (Where, Select, Take, Skip, Concat, Zip...) work over
// infinite sources as long as something like Take bounds the consumption.
// Buffering and terminal operators drain their input and never terminate on
// an infinite source.
//
// # Operators
//
// Lazy (one output per upstream pull, nothing retained):
//
//   - Where, TryWhere, Select, TrySelect, SelectMany
//   - Take, Skip, TakeWhile, SkipWhile
//   - Concat, Zip, Append, Prepend, DefaultIfEmpty, Tap
//   - Chunk, Window (count-based windows)
//
// Buffering (state scoped to one traversal):
//
//   - Distinct, DistinctBy, Union, UnionBy, Intersect, IntersectBy, Except, ExceptBy
//   - OrderBy, OrderByDescending, OrderByFunc, ThenBy, ThenByDescending
//   - GroupBy, GroupByInto, Join, GroupJoin, Reverse
//
// Terminal:
//
//   - ToSlice, ToMap, ToLookup, ForEach
//   - Count, CountWhere, Any, AnyWhere, All, Contains, SequenceEqual
//   - First, Last, Single, ElementAt and their OrDefault / Try variants
//   - Aggregate, TryAggregate, Reduce
//   - Sum, SumBy, Average, AverageBy, Min, Max, MinBy, MaxBy
//
// # Usage
//
//	src := query.Of(5, 1, 8, 9, 3)
//	big := src.Where(func(n int) bool { return n > 2 })
//	doubled := query.Select(big, func(n int) int { return n * 2 })
//	sorted := query.OrderByDescending(doubled, func(n int) int { return n })
//	got, err := query.ToSlice(ctx, sorted.Sequence) // [18 16 10 6]
//
// Sequences can be ranged over directly:
//
//	for v, err := range sorted.All(ctx) {
//	    if err != nil { ... }
//	}
//
// Cursors are not safe for concurrent use; a Sequence may be traversed from
// many goroutines at once because every traversal owns its own state.
package query
