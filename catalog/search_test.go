package catalog

import (
	"context"
	"testing"

	apperrors "github.com/kbukum/seqkit/errors"
)

func productNames(ps []Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestSearch(t *testing.T) {
	s := sampleStore(t)

	tests := []struct {
		name      string
		params    SearchParams
		want      []string
		wantTotal int
	}{
		{
			name:   "default sort by name with paging",
			params: SearchParams{Offset: 2, Limit: 3},
			want:   []string{"Headlamp", "Hiking Boot", "Merino Tee"}, wantTotal: 10,
		},
		{
			name:   "category by price descending",
			params: SearchParams{Category: "GEAR", Sort: "price:desc"},
			want:   []string{"Two-Person Tent", "Trekking Poles", "Water Filter", "Headlamp"}, wantTotal: 4,
		},
		{
			name:   "multi-key sort",
			params: SearchParams{Sort: "category, price:desc"},
			want: []string{
				"Rain Shell", "Fleece Pullover", "Merino Tee",
				"Hiking Boot", "Trail Runner", "City Sneaker",
				"Two-Person Tent", "Trekking Poles", "Water Filter", "Headlamp",
			},
			wantTotal: 10,
		},
		{
			name:   "tag and stock",
			params: SearchParams{Tag: "outdoor", InStock: true, Sort: "price"},
			want: []string{
				"Headlamp", "Fleece Pullover", "Trekking Poles", "Trail Runner",
				"Hiking Boot", "Rain Shell", "Two-Person Tent",
			},
			wantTotal: 7,
		},
		{
			name:   "text",
			params: SearchParams{Text: "BOOT"},
			want:   []string{"Hiking Boot"}, wantTotal: 1,
		},
		{
			name:   "price range",
			params: SearchParams{MinPrice: 50, MaxPrice: 90, Sort: "price:asc"},
			want:   []string{"Fleece Pullover", "City Sneaker", "Trekking Poles", "Trail Runner"}, wantTotal: 4,
		},
		{
			name:   "page past the end",
			params: SearchParams{Offset: 50},
			want:   []string{}, wantTotal: 10,
		},
		{
			name:   "no matches",
			params: SearchParams{Category: "food"},
			want:   []string{}, wantTotal: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := s.Search(context.Background(), tc.params)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			assertStrings(t, productNames(page.Items), tc.want)
			if page.Total != tc.wantTotal {
				t.Errorf("total = %d, want %d", page.Total, tc.wantTotal)
			}
		})
	}
}

func TestSearchDefaultsLimit(t *testing.T) {
	page, err := sampleStore(t).Search(context.Background(), SearchParams{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Limit != DefaultLimit || len(page.Items) != 10 {
		t.Errorf("limit = %d, items = %d", page.Limit, len(page.Items))
	}
}

func TestSearchRejectsBadParams(t *testing.T) {
	s := sampleStore(t)

	tests := []struct {
		name   string
		params SearchParams
	}{
		{"unknown sort field", SearchParams{Sort: "color"}},
		{"unknown direction", SearchParams{Sort: "price:up"}},
		{"empty sort part", SearchParams{Sort: "price,,name"}},
		{"negative price", SearchParams{MinPrice: -1}},
		{"inverted range", SearchParams{MinPrice: 10, MaxPrice: 5}},
		{"limit too large", SearchParams{Limit: MaxLimit + 1}},
		{"negative offset", SearchParams{Offset: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Search(context.Background(), tc.params)
			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
				t.Fatalf("err = %v, want invalid input", err)
			}
			if _, ok := appErr.Details["fields"]; !ok {
				t.Errorf("expected field details, got %v", appErr.Details)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	keys, err := ParseSort("price:desc,name")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != (SortKey{Field: "price", Desc: true}) || keys[1] != (SortKey{Field: "name"}) {
		t.Errorf("keys = %+v", keys)
	}

	keys, err = ParseSort("  ")
	if err != nil || len(keys) != 1 || keys[0].Field != "name" {
		t.Errorf("default = %+v, %v", keys, err)
	}
}
