package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/query"
)

func TestCategorySummaries(t *testing.T) {
	rows, err := sampleStore(t).CategorySummaries(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	want := []CategorySummary{
		{Category: "apparel", Products: 3, Units: 67, AvgPrice: 82.33, MinPrice: 39, MaxPrice: 149, StockValue: 3963},
		{Category: "footwear", Products: 3, Units: 20, AvgPrice: 94.47, MinPrice: 64.5, MaxPrice: 129, StockValue: 2032.6},
		{Category: "gear", Products: 4, Units: 35, AvgPrice: 111.74, MinPrice: 34.95, MaxPrice: 289, StockValue: 2293.75},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, w := range want {
		got := rows[i]
		if got.Category != w.Category || got.Products != w.Products || got.Units != w.Units {
			t.Errorf("row %d = %+v, want %+v", i, got, w)
		}
		if !approx(got.AvgPrice, w.AvgPrice) || !approx(got.MinPrice, w.MinPrice) ||
			!approx(got.MaxPrice, w.MaxPrice) || !approx(got.StockValue, w.StockValue) {
			t.Errorf("row %d prices = %+v, want %+v", i, got, w)
		}
	}
}

func TestTopCustomers(t *testing.T) {
	s := sampleStore(t)
	ctx := context.Background()

	rows, err := s.TopCustomers(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := []CustomerRevenue{
		{Customer: "ana", Orders: 3, Units: 4, Revenue: 507.8},
		{Customer: "ben", Orders: 3, Units: 4, Revenue: 277.9},
		{Customer: "cleo", Orders: 2, Units: 4, Revenue: 246},
		{Customer: "erik", Orders: 1, Units: 2, Revenue: 158},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %+v", rows)
	}
	for i, w := range want {
		got := rows[i]
		if got.Customer != w.Customer || got.Orders != w.Orders || got.Units != w.Units || !approx(got.Revenue, w.Revenue) {
			t.Errorf("row %d = %+v, want %+v", i, got, w)
		}
	}

	top, err := s.TopCustomers(ctx, 2)
	if err != nil || len(top) != 2 || top[1].Customer != "ben" {
		t.Errorf("TopCustomers(2) = %+v, %v", top, err)
	}
	none, err := s.TopCustomers(ctx, 0)
	if err != nil || len(none) != 0 {
		t.Errorf("TopCustomers(0) = %+v, %v", none, err)
	}
}

func TestTopCustomersTiesByName(t *testing.T) {
	ds := &Dataset{
		Products: []Product{{ID: "x", Name: "X", Category: "c", Price: 10, Stock: 1}},
		Orders: []Order{
			{ID: "3f1c2a4e-6b1d-4c8e-9a51-0d2f7e1b9d01", ProductID: "x", Customer: "zoe", Quantity: 1},
			{ID: "3f1c2a4e-6b1d-4c8e-9a51-0d2f7e1b9d02", ProductID: "x", Customer: "amy", Quantity: 1},
		},
	}
	s, err := NewStore(context.Background(), ds)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := s.TopCustomers(context.Background(), 5)
	if err != nil || len(rows) != 2 || rows[0].Customer != "amy" {
		t.Errorf("rows = %+v, %v", rows, err)
	}
}

func TestProductSales(t *testing.T) {
	rows, err := sampleStore(t).ProductSales(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	assertStrings(t, names, []string{
		"Merino Tee",
		"Headlamp", "Trail Runner", "Trekking Poles",
		"Fleece Pullover", "Hiking Boot", "Rain Shell", "Two-Person Tent",
		"City Sneaker", "Water Filter",
	})
	if rows[0].Orders != 2 || rows[0].Units != 4 || !approx(rows[0].Revenue, 156) {
		t.Errorf("best seller = %+v", rows[0])
	}
	if last := rows[len(rows)-1]; last.Orders != 0 || last.Units != 0 || last.Revenue != 0 {
		t.Errorf("unsold product = %+v", last)
	}
}

func TestMissingProducts(t *testing.T) {
	ids, err := sampleStore(t).MissingProducts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assertStrings(t, ids, []string{"p-999"})
}

func TestTags(t *testing.T) {
	tags, err := sampleStore(t).Tags(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assertStrings(t, tags, []string{"camping", "casual", "hiking", "outdoor", "running", "waterproof", "wool"})
}

func TestReportsAreInstrumented(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "catalog-test", &buf)
	s := sampleStore(t, WithLogger(log), WithInstrumentation(query.Instrumentation{Logger: log}))

	if _, err := s.MissingProducts(context.Background()); err != nil {
		t.Fatal(err)
	}

	queries := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		if q, ok := m[logger.FieldQuery].(string); ok {
			queries[q] = true
		}
	}
	for _, q := range []string{"catalog.missing", "catalog.missing.products"} {
		if !queries[q] {
			t.Errorf("no log line for query %s; saw %v", q, queries)
		}
	}
}
