package query

import (
	"context"
	"slices"
	"testing"
)

func assertWindows(t *testing.T, got, want [][]int) {
	t.Helper()
	if !slices.EqualFunc(got, want, slices.Equal[[]int]) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		size int
		want [][]int
	}{
		{"even", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"partial tail", []int{1, 2, 3, 4, 5, 6, 7}, 3, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}},
		{"larger than input", []int{1, 2}, 5, [][]int{{1, 2}}},
		{"empty", nil, 3, [][]int{}},
		{"zero size", []int{1, 2}, 0, [][]int{{1}, {2}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertWindows(t, collect(t, Chunk(FromSlice(tc.in), tc.size)), tc.want)
		})
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name       string
		in         []int
		size, step int
		want       [][]int
	}{
		{"sliding", []int{1, 2, 3, 4, 5}, 3, 1, [][]int{{1, 2, 3}, {2, 3, 4}, {3, 4, 5}}},
		{"step two", []int{1, 2, 3, 4, 5}, 3, 2, [][]int{{1, 2, 3}, {3, 4, 5}}},
		{"tumbling", []int{1, 2, 3, 4, 5}, 2, 2, [][]int{{1, 2}, {3, 4}}},
		{"step beyond size", []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, 2, 4, [][]int{{1, 2}, {5, 6}}},
		{"too short", []int{1, 2}, 3, 1, [][]int{}},
		{"zero size", []int{1, 2}, 0, 1, [][]int{}},
		{"zero step", []int{1, 2, 3}, 2, 0, [][]int{{1, 2}, {2, 3}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertWindows(t, collect(t, Window(FromSlice(tc.in), tc.size, tc.step)), tc.want)
		})
	}
}

func TestWindowSlicesAreIndependent(t *testing.T) {
	windows := collect(t, Window(Of(1, 2, 3, 4), 2, 1))
	windows[0][1] = 99
	assertWindows(t, windows, [][]int{{1, 99}, {2, 3}, {3, 4}})
}

func TestChunkOverInfiniteSource(t *testing.T) {
	got := collect(t, Take(Chunk(Generate(1, func(n int) int { return n + 1 }), 2), 2))
	assertWindows(t, got, [][]int{{1, 2}, {3, 4}})
}

func TestChunkPropagatesError(t *testing.T) {
	got, err := ToSlice(context.Background(), Chunk(failing(3, errBoom), 2))
	if err != errBoom {
		t.Fatalf("err = %v, want %v", err, errBoom)
	}
	assertWindows(t, got, [][]int{{0, 1}})
}
