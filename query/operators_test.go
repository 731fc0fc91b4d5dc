package query

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

func TestLazyOperators(t *testing.T) {
	isEven := func(n int) bool { return n%2 == 0 }
	tests := []struct {
		name string
		seq  *Sequence[int]
		want []int
	}{
		{"where", Where(Of(1, 2, 3, 4, 5, 6), isEven), []int{2, 4, 6}},
		{"where none", Where(Of(1, 3), isEven), []int{}},
		{"select", Select(Of(1, 2, 3), func(n int) int { return n * 10 }), []int{10, 20, 30}},
		{"take", Take(Of(1, 2, 3, 4), 2), []int{1, 2}},
		{"take more than available", Take(Of(1, 2), 5), []int{1, 2}},
		{"take zero", Take(Of(1, 2), 0), []int{}},
		{"take negative", Take(Of(1, 2), -3), []int{}},
		{"skip", Skip(Of(1, 2, 3, 4), 2), []int{3, 4}},
		{"skip past end", Skip(Of(1, 2), 5), []int{}},
		{"skip negative", Skip(Of(1, 2), -1), []int{1, 2}},
		{"take while", TakeWhile(Of(1, 2, 5, 1), func(n int) bool { return n < 3 }), []int{1, 2}},
		{"skip while", SkipWhile(Of(1, 2, 5, 1), func(n int) bool { return n < 3 }), []int{5, 1}},
		{"concat", Concat(Of(1, 2), Empty[int](), Of(3)), []int{1, 2, 3}},
		{"concat none", Concat[int](), []int{}},
		{"append", Append(Of(1, 2), 3), []int{1, 2, 3}},
		{"prepend", Prepend(Of(1, 2), 0), []int{0, 1, 2}},
		{"default if empty on empty", DefaultIfEmpty(Empty[int](), 9), []int{9}},
		{"default if empty on values", DefaultIfEmpty(Of(1, 2), 9), []int{1, 2}},
		{"select many", SelectMany(Of(1, 2, 3), func(n int) *Sequence[int] { return Repeat(n, n) }), []int{1, 2, 2, 3, 3, 3}},
		{"select many nil inner", SelectMany(Of(1, 2), func(n int) *Sequence[int] {
			if n == 1 {
				return nil
			}
			return Of(n)
		}), []int{2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertSlice(t, collect(t, tc.seq), tc.want)
		})
	}
}

func TestChainingMethods(t *testing.T) {
	got := collect(t, Of(1, 2, 3, 4, 5, 6, 7, 8).
		Where(func(n int) bool { return n > 1 }).
		Skip(1).
		Take(5).
		TakeWhile(func(n int) bool { return n < 7 }).
		SkipWhile(func(n int) bool { return n < 4 }).
		Concat(Of(10), Of(11)).
		Append(12).
		Prepend(0).
		Reverse())
	assertSlice(t, got, []int{12, 11, 10, 6, 5, 4, 0})
}

func TestSelectChangesType(t *testing.T) {
	got := collect(t, Select(Of(1, 22), strconv.Itoa))
	assertSlice(t, got, []string{"1", "22"})
}

func TestTakeNonPositiveNeverTraversesUpstream(t *testing.T) {
	var p probe
	s := Take(p.source(1, 2, 3), 0)
	collect(t, s)
	if p.traversals != 0 {
		t.Errorf("upstream traversed %d times, want 0", p.traversals)
	}
}

func TestTakeStopsPulling(t *testing.T) {
	var p probe
	collect(t, Take(p.source(1, 2, 3, 4, 5), 2))
	if p.yielded != 2 {
		t.Errorf("pulled %d values, want 2", p.yielded)
	}
	if p.closes != 1 {
		t.Errorf("closes = %d, want 1", p.closes)
	}
}

func TestWhereIsLazy(t *testing.T) {
	calls := 0
	s := Where(Of(1, 2, 3), func(n int) bool {
		calls++
		return true
	})
	if calls != 0 {
		t.Fatalf("predicate ran %d times before traversal", calls)
	}
	if _, err := First(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("First should evaluate the predicate once, got %d", calls)
	}
}

func TestConcatOpensLazily(t *testing.T) {
	var first, second probe
	s := Concat(first.source(1, 2), second.source(3, 4))

	assertSlice(t, collect(t, Take(s, 2)), []int{1, 2})
	if second.traversals != 0 {
		t.Errorf("second operand opened before the first was exhausted")
	}

	assertSlice(t, collect(t, s), []int{1, 2, 3, 4})
	if first.closes != 2 || second.closes != 1 {
		t.Errorf("closes = %d/%d, want 2/1", first.closes, second.closes)
	}
}

func TestZip(t *testing.T) {
	got := collect(t, Zip(Of(1, 2, 3), Of("A", "B"), func(n int, s string) string {
		return s + strconv.Itoa(n)
	}))
	assertSlice(t, got, []string{"A1", "B2"})

	var left, right probe
	collect(t, Zip(left.source(1), right.source(1, 2), func(a, b int) int { return a + b }))
	if left.closes != 1 || right.closes != 1 {
		t.Errorf("zip must close both inputs, closes = %d/%d", left.closes, right.closes)
	}
}

func TestTryOperatorsPropagateCallerErrors(t *testing.T) {
	ctx := context.Background()
	failOn := func(bad int) func(context.Context, int) (bool, error) {
		return func(_ context.Context, n int) (bool, error) {
			if n == bad {
				return false, errBoom
			}
			return true, nil
		}
	}

	tests := []struct {
		name string
		seq  *Sequence[int]
		want []int
	}{
		{"try where", TryWhere(Of(1, 2, 3), failOn(2)), []int{1}},
		{"try select", TrySelect(Of(1, 2, 3), func(_ context.Context, n int) (int, error) {
			if n == 3 {
				return 0, errBoom
			}
			return n * 2, nil
		}), []int{2, 4}},
		{"tap", Tap(Of(1, 2, 3), func(_ context.Context, n int) error {
			if n == 2 {
				return errBoom
			}
			return nil
		}), []int{1}},
		{"upstream error", Select(failing(2, errBoom), func(n int) int { return n }), []int{0, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToSlice(ctx, tc.seq)
			if err != errBoom {
				t.Fatalf("err = %v, want the caller's error unchanged", err)
			}
			assertSlice(t, got, tc.want)
		})
	}
}

func TestTapSeesEveryValue(t *testing.T) {
	var seen []int
	s := Tap(Of(1, 2, 3), func(_ context.Context, n int) error {
		seen = append(seen, n)
		return nil
	})
	assertSlice(t, collect(t, s), []int{1, 2, 3})
	assertSlice(t, seen, []int{1, 2, 3})
}

func TestCanceledContextFromCallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := TryWhere(Range(0, 100), func(ctx context.Context, n int) (bool, error) {
		if n == 3 {
			cancel()
		}
		return true, ctx.Err()
	})
	got, err := ToSlice(ctx, s)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	assertSlice(t, got, []int{0, 1, 2})
}
