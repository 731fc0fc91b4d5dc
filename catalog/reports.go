package catalog

import (
	"context"
	"math"

	"github.com/kbukum/seqkit/query"
)

type orderLine struct {
	order   Order
	product Product
}

func (l orderLine) total() float64 { return float64(l.order.Quantity) * l.product.Price }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// CategorySummaries aggregates products per category, ordered by category.
func (s *Store) CategorySummaries(ctx context.Context) ([]CategorySummary, error) {
	groups := query.GroupBy(s.productSeq("catalog.categories"), func(p Product) string { return p.Category })
	summaries := query.TrySelect(groups, summarize)
	return query.ToSlice(ctx, query.OrderBy(summaries, func(c CategorySummary) string { return c.Category }).Sequence)
}

func summarize(ctx context.Context, g *query.Grouping[string, Product]) (CategorySummary, error) {
	prices := query.Select(g.Seq(), func(p Product) float64 { return p.Price })

	avg, err := query.Average(ctx, prices)
	if err != nil {
		return CategorySummary{}, err
	}
	lo, err := query.Min(ctx, prices)
	if err != nil {
		return CategorySummary{}, err
	}
	hi, err := query.Max(ctx, prices)
	if err != nil {
		return CategorySummary{}, err
	}
	units, err := query.SumBy(ctx, g.Seq(), func(p Product) int { return p.Stock })
	if err != nil {
		return CategorySummary{}, err
	}
	value, err := query.SumBy(ctx, g.Seq(), func(p Product) float64 { return p.Price * float64(p.Stock) })
	if err != nil {
		return CategorySummary{}, err
	}

	return CategorySummary{
		Category:   g.Key,
		Products:   g.Len(),
		Units:      units,
		AvgPrice:   round2(avg),
		MinPrice:   lo,
		MaxPrice:   hi,
		StockValue: round2(value),
	}, nil
}

func (s *Store) orderLines(name string) *query.Sequence[orderLine] {
	return query.Join(s.orderSeq(name), s.productSeq(name+".products"),
		func(o Order) string { return o.ProductID },
		func(p Product) string { return p.ID },
		func(o Order, p Product) orderLine { return orderLine{order: o, product: p} })
}

// TopCustomers ranks customers by revenue, highest first, ties by name.
// Orders for unknown products are ignored. n <= 0 yields no rows.
func (s *Store) TopCustomers(ctx context.Context, n int) ([]CustomerRevenue, error) {
	byCustomer := query.GroupBy(s.orderLines("catalog.customers"), func(l orderLine) string { return l.order.Customer })
	rows := query.TrySelect(byCustomer, func(ctx context.Context, g *query.Grouping[string, orderLine]) (CustomerRevenue, error) {
		revenue, err := query.SumBy(ctx, g.Seq(), orderLine.total)
		if err != nil {
			return CustomerRevenue{}, err
		}
		units, err := query.SumBy(ctx, g.Seq(), func(l orderLine) int { return l.order.Quantity })
		if err != nil {
			return CustomerRevenue{}, err
		}
		return CustomerRevenue{Customer: g.Key, Orders: g.Len(), Units: units, Revenue: round2(revenue)}, nil
	})

	ranked := query.ThenBy(
		query.OrderByDescending(rows, func(r CustomerRevenue) float64 { return r.Revenue }),
		func(r CustomerRevenue) string { return r.Customer })
	return query.ToSlice(ctx, ranked.Take(n))
}

// ProductSales lists every product with its order volume, best sellers
// first. Products without orders are included with zero counts.
func (s *Store) ProductSales(ctx context.Context) ([]ProductSales, error) {
	sales := query.GroupJoin(s.productSeq("catalog.sales"), s.orderSeq("catalog.sales.orders"),
		func(p Product) string { return p.ID },
		func(o Order) string { return o.ProductID },
		func(p Product, orders []Order) ProductSales {
			units := 0
			for _, o := range orders {
				units += o.Quantity
			}
			return ProductSales{
				ProductID: p.ID,
				Name:      p.Name,
				Orders:    len(orders),
				Units:     units,
				Revenue:   round2(float64(units) * p.Price),
			}
		})

	ranked := query.ThenBy(
		query.OrderByDescending(sales, func(r ProductSales) int { return r.Units }),
		func(r ProductSales) string { return r.Name })
	return query.ToSlice(ctx, ranked.Sequence)
}

// MissingProducts lists, in order of first reference, the product ids that
// orders reference but the catalog does not carry.
func (s *Store) MissingProducts(ctx context.Context) ([]string, error) {
	referenced := query.Select(s.orderSeq("catalog.missing"), func(o Order) string { return o.ProductID })
	known := query.Select(s.productSeq("catalog.missing.products"), func(p Product) string { return p.ID })
	return query.ToSlice(ctx, query.Except(referenced, known))
}

// Tags lists the distinct product tags in alphabetical order.
func (s *Store) Tags(ctx context.Context) ([]string, error) {
	tags := query.SelectMany(s.productSeq("catalog.tags"), func(p Product) *query.Sequence[string] {
		return query.FromSlice(p.Tags)
	})
	return query.ToSlice(ctx, query.OrderBy(query.Distinct(tags), func(t string) string { return t }).Sequence)
}
