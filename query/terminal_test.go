package query

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/kbukum/seqkit/errors"
)

func TestToMap(t *testing.T) {
	ctx := context.Background()
	m, err := ToMap(ctx, Of("a", "bb", "ccc"), func(s string) int { return len(s) }, func(s string) string { return s })
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 3 || m[2] != "bb" {
		t.Errorf("unexpected map %v", m)
	}

	_, err = ToMap(ctx, Of("a", "b"), func(s string) int { return len(s) }, func(s string) string { return s })
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Details["key"] != 1 {
		t.Errorf("expected the duplicate key in details, got %v", err)
	}
}

func TestForEachStopsOnCallbackError(t *testing.T) {
	var p probe
	var seen []int
	err := ForEach(context.Background(), p.source(1, 2, 3), func(_ context.Context, n int) error {
		seen = append(seen, n)
		if n == 2 {
			return errBoom
		}
		return nil
	})
	if err != errBoom {
		t.Fatalf("err = %v, want %v", err, errBoom)
	}
	assertSlice(t, seen, []int{1, 2})
	if p.closes != 1 {
		t.Errorf("closes = %d, want 1", p.closes)
	}
}

func TestQuantifiers(t *testing.T) {
	ctx := context.Background()
	positive := func(n int) bool { return n > 0 }
	even := func(n int) bool { return n%2 == 0 }

	tests := []struct {
		name string
		run  func() (bool, error)
		want bool
	}{
		{"any on values", func() (bool, error) { return Any(ctx, Of(1)) }, true},
		{"any on empty", func() (bool, error) { return Any(ctx, Empty[int]()) }, false},
		{"any where match", func() (bool, error) { return AnyWhere(ctx, Of(1, 2), even) }, true},
		{"any where none", func() (bool, error) { return AnyWhere(ctx, Of(1, 3), even) }, false},
		{"all true", func() (bool, error) { return All(ctx, Of(1, 2), positive) }, true},
		{"all false", func() (bool, error) { return All(ctx, Of(1, -2), positive) }, false},
		{"all on empty is true", func() (bool, error) { return All(ctx, Empty[int](), positive) }, true},
		{"contains", func() (bool, error) { return Contains(ctx, Of(1, 2, 3), 2) }, true},
		{"does not contain", func() (bool, error) { return Contains(ctx, Of(1, 2, 3), 7) }, false},
		{"sequence equal", func() (bool, error) { return SequenceEqual(ctx, Of(1, 2), Range(1, 2)) }, true},
		{"sequence shorter", func() (bool, error) { return SequenceEqual(ctx, Of(1, 2), Of(1, 2, 3)) }, false},
		{"sequence differs", func() (bool, error) { return SequenceEqual(ctx, Of(1, 2), Of(1, 3)) }, false},
		{"both empty", func() (bool, error) { return SequenceEqual(ctx, Empty[int](), Empty[int]()) }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.run()
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAnyStopsEarly(t *testing.T) {
	var p probe
	if ok, _ := Any(context.Background(), p.source(1, 2, 3)); !ok {
		t.Fatal("expected true")
	}
	if p.yielded != 1 {
		t.Errorf("Any pulled %d values, want 1", p.yielded)
	}

	ok, err := AnyWhere(context.Background(), Generate(1, func(n int) int { return n + 1 }), func(n int) bool { return n > 10 })
	if !ok || err != nil {
		t.Errorf("AnyWhere over an infinite source = %v, %v", ok, err)
	}
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	n, err := Count(ctx, Range(0, 7))
	if err != nil || n != 7 {
		t.Errorf("Count = %d, %v", n, err)
	}
	n, err = CountWhere(ctx, Range(0, 7), func(n int) bool { return n%3 == 0 })
	if err != nil || n != 3 {
		t.Errorf("CountWhere = %d, %v", n, err)
	}
	n, err = Count(ctx, Empty[string]())
	if err != nil || n != 0 {
		t.Errorf("Count(empty) = %d, %v", n, err)
	}
}

func TestElementAccess(t *testing.T) {
	ctx := context.Background()
	gt := func(v int) func(int) bool { return func(n int) bool { return n > v } }

	tests := []struct {
		name    string
		run     func() (int, error)
		want    int
		wantErr error
	}{
		{"first", func() (int, error) { return First(ctx, Of(4, 5, 6)) }, 4, nil},
		{"first match", func() (int, error) { return First(ctx, Of(4, 5, 6), gt(4)) }, 5, nil},
		{"first empty", func() (int, error) { return First(ctx, Empty[int]()) }, 0, ErrNoElements},
		{"first no match", func() (int, error) { return First(ctx, Of(1), gt(4)) }, 0, ErrNoMatch},
		{"first or default", func() (int, error) { return FirstOrDefault(ctx, Empty[int]()) }, 0, nil},
		{"first or default match", func() (int, error) { return FirstOrDefault(ctx, Of(1, 9), gt(4)) }, 9, nil},
		{"last", func() (int, error) { return Last(ctx, Of(4, 5, 6)) }, 6, nil},
		{"last match", func() (int, error) { return Last(ctx, Of(4, 5, 6, 1), gt(4)) }, 6, nil},
		{"last empty", func() (int, error) { return Last(ctx, Empty[int]()) }, 0, ErrNoElements},
		{"last no match", func() (int, error) { return Last(ctx, Of(1), gt(4)) }, 0, ErrNoMatch},
		{"last or default", func() (int, error) { return LastOrDefault(ctx, Of(1), gt(4)) }, 0, nil},
		{"single", func() (int, error) { return Single(ctx, Of(7)) }, 7, nil},
		{"single match", func() (int, error) { return Single(ctx, Of(1, 7, 2), gt(4)) }, 7, nil},
		{"single empty", func() (int, error) { return Single(ctx, Empty[int]()) }, 0, ErrNoElements},
		{"single no match", func() (int, error) { return Single(ctx, Of(1), gt(4)) }, 0, ErrNoMatch},
		{"single many", func() (int, error) { return Single(ctx, Of(1, 2)) }, 0, ErrMoreThanOne},
		{"single or default empty", func() (int, error) { return SingleOrDefault(ctx, Empty[int]()) }, 0, nil},
		{"single or default many", func() (int, error) { return SingleOrDefault(ctx, Of(5, 6), gt(4)) }, 0, ErrMoreThanOne},
		{"element at", func() (int, error) { return ElementAt(ctx, Of(4, 5, 6), 1) }, 5, nil},
		{"element at end", func() (int, error) { return ElementAt(ctx, Of(4, 5, 6), 3) }, 0, ErrOutOfRange},
		{"element at negative", func() (int, error) { return ElementAt(ctx, Of(4, 5, 6), -1) }, 0, ErrOutOfRange},
		{"element at or default", func() (int, error) { return ElementAtOrDefault(ctx, Of(4), 5) }, 0, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.run()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestTryVariantsDistinguishZeroFromAbsent(t *testing.T) {
	ctx := context.Background()

	v, found, err := TryFirst(ctx, Of(0, 1))
	if err != nil || !found || v != 0 {
		t.Errorf("TryFirst on [0 1] = %d, %v, %v; want a found zero", v, found, err)
	}
	v, found, err = TryFirst(ctx, Empty[int]())
	if err != nil || found || v != 0 {
		t.Errorf("TryFirst on empty = %d, %v, %v; want not found", v, found, err)
	}

	_, found, _ = TryLast(ctx, Of(0))
	if !found {
		t.Error("TryLast must report a found zero")
	}
	_, found, _ = TrySingle(ctx, Of(1, 0), func(n int) bool { return n == 0 })
	if !found {
		t.Error("TrySingle must report a found zero")
	}
}

func TestElementErrorsCarryOperation(t *testing.T) {
	_, err := First(context.Background(), Empty[int]())
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Details["operation"] != "First" {
		t.Errorf("operation detail = %v", appErr.Details["operation"])
	}
	if errors.Is(err, ErrNoMatch) {
		t.Error("NO_ELEMENTS must not match ErrNoMatch")
	}
}

func TestSingleStopsAtSecondMatch(t *testing.T) {
	var p probe
	_, err := Single(context.Background(), p.source(1, 2, 3, 4))
	if !errors.Is(err, ErrMoreThanOne) {
		t.Fatalf("err = %v", err)
	}
	if p.yielded != 2 {
		t.Errorf("Single pulled %d values, want 2", p.yielded)
	}
}

func TestTerminalsPropagateSourceErrors(t *testing.T) {
	ctx := context.Background()
	src := failing(2, errBoom)
	checks := map[string]error{}

	_, checks["Count"] = Count(ctx, src)
	_, checks["Last"] = Last(ctx, src)
	_, checks["Single"] = Single(ctx, Take(Skip(src, 5), 1))
	_, checks["All"] = All(ctx, src, func(int) bool { return true })
	_, checks["Sum"] = Sum(ctx, src)
	_, checks["Max"] = Max(ctx, src)
	_, checks["Reduce"] = Reduce(ctx, src, func(a, b int) int { return a + b })
	_, checks["ToMap"] = ToMap(ctx, src, func(n int) int { return n }, func(n int) int { return n })
	_, checks["SequenceEqual"] = SequenceEqual(ctx, src, Range(0, 5))

	for name, err := range checks {
		if err != errBoom {
			t.Errorf("%s: err = %v, want %v", name, err, errBoom)
		}
	}
}

func TestAggregate(t *testing.T) {
	ctx := context.Background()

	got, err := Aggregate(ctx, Of("a", "b", "c"), "", func(acc, s string) string { return acc + s })
	if err != nil || got != "abc" {
		t.Errorf("Aggregate = %q, %v", got, err)
	}

	seed, err := Aggregate(ctx, Empty[int](), 42, func(acc, n int) int { return acc + n })
	if err != nil || seed != 42 {
		t.Errorf("Aggregate over empty = %d, %v; want the seed", seed, err)
	}

	_, err = TryAggregate(ctx, Of(1, 2, 3), 0, func(_ context.Context, acc, n int) (int, error) {
		if n == 2 {
			return 0, errBoom
		}
		return acc + n, nil
	})
	if err != errBoom {
		t.Errorf("TryAggregate err = %v, want %v", err, errBoom)
	}

	r, err := Reduce(ctx, Of(3, 4, 5), func(a, b int) int { return a * b })
	if err != nil || r != 60 {
		t.Errorf("Reduce = %d, %v", r, err)
	}
	_, err = Reduce(ctx, Empty[int](), func(a, b int) int { return a + b })
	if !errors.Is(err, ErrNoElements) {
		t.Errorf("Reduce(empty) err = %v", err)
	}
}

func TestTerminalsCloseCursor(t *testing.T) {
	ctx := context.Background()
	var p probe
	s := p.source(1, 2, 3)

	_, _ = First(ctx, s)
	_, _ = Count(ctx, s)
	_, _ = ToSlice(ctx, s)
	_, _ = ElementAt(ctx, s, 1)
	_, _ = SequenceEqual(ctx, s, s)

	if p.traversals != p.closes {
		t.Errorf("traversals=%d closes=%d; every traversal must be closed", p.traversals, p.closes)
	}
}
