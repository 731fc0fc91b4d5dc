package catalog

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/kbukum/seqkit/query"
	"github.com/kbukum/seqkit/validation"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// SearchParams filter, sort and page products. Empty filters match
// everything; MaxPrice 0 means no upper bound.
type SearchParams struct {
	Category string  `form:"category"`
	Text     string  `form:"q"`
	Tag      string  `form:"tag"`
	MinPrice float64 `form:"min_price" validate:"gte=0"`
	MaxPrice float64 `form:"max_price" validate:"omitempty,gtefield=MinPrice"`
	InStock  bool    `form:"in_stock"`
	// Sort is a comma-separated list of field[:asc|desc], e.g.
	// "price:desc,name". It defaults to name.
	Sort   string `form:"sort"`
	Offset int    `form:"offset" validate:"gte=0"`
	Limit  int    `form:"limit" validate:"gte=0,lte=100"`
}

// SortKey is one level of a product ordering.
type SortKey struct {
	Field string
	Desc  bool
}

var sortFields = []string{"id", "name", "category", "price", "stock"}

// ParseSort parses a sort string. Every malformed part is reported.
func ParseSort(raw string) ([]SortKey, error) {
	if strings.TrimSpace(raw) == "" {
		return []SortKey{{Field: "name"}}, nil
	}

	v := validation.New()
	var keys []SortKey
	for part := range strings.SplitSeq(raw, ",") {
		field, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
		v.Required("sort", field)
		v.OneOf("sort", field, sortFields)
		v.OneOf("sort", dir, []string{"asc", "desc"})
		keys = append(keys, SortKey{Field: field, Desc: dir == "desc"})
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (k SortKey) compare(a, b Product) int {
	var c int
	switch k.Field {
	case "id":
		c = cmp.Compare(a.ID, b.ID)
	case "category":
		c = cmp.Compare(a.Category, b.Category)
	case "price":
		c = cmp.Compare(a.Price, b.Price)
	case "stock":
		c = cmp.Compare(a.Stock, b.Stock)
	default:
		c = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
	if k.Desc {
		return -c
	}
	return c
}

func orderProducts(s *query.Sequence[Product], keys []SortKey) *query.OrderedSequence[Product] {
	ordered := query.OrderByFunc(s, keys[0].compare)
	for _, k := range keys[1:] {
		ordered = ordered.ThenByFunc(k.compare)
	}
	return ordered
}

func (p SearchParams) matches(prod Product) bool {
	switch {
	case p.Category != "" && !strings.EqualFold(prod.Category, p.Category):
		return false
	case p.Text != "" && !strings.Contains(strings.ToLower(prod.Name), strings.ToLower(p.Text)):
		return false
	case p.Tag != "" && !slices.Contains(prod.Tags, p.Tag):
		return false
	case prod.Price < p.MinPrice:
		return false
	case p.MaxPrice > 0 && prod.Price > p.MaxPrice:
		return false
	case p.InStock && prod.Stock == 0:
		return false
	}
	return true
}

// Search returns the requested page of matching products and the total
// number of matches.
func (s *Store) Search(ctx context.Context, p SearchParams) (*Page[Product], error) {
	if err := validation.Validate(p); err != nil {
		return nil, err
	}
	keys, err := ParseSort(p.Sort)
	if err != nil {
		return nil, err
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}

	matches := query.Where(s.productSeq("catalog.search"), p.matches)
	total, err := query.Count(ctx, matches)
	if err != nil {
		return nil, err
	}
	items, err := query.ToSlice(ctx, orderProducts(matches, keys).Skip(p.Offset).Take(p.Limit))
	if err != nil {
		return nil, err
	}
	return &Page[Product]{Items: items, Offset: p.Offset, Limit: p.Limit, Total: total}, nil
}
