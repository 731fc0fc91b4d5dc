package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	apperrors "github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/query"
	"github.com/kbukum/seqkit/validation"
)

//go:embed data/sample.json
var sampleData []byte

// Load decodes and validates a dataset.
func Load(r io.Reader) (*Dataset, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, apperrors.InvalidInput("dataset", err.Error()).WithCause(err)
	}
	if err := validation.Validate(ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// LoadFile loads a dataset from path.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Sample returns the dataset bundled with the binary.
func Sample() *Dataset {
	ds, err := Load(bytes.NewReader(sampleData))
	if err != nil {
		panic("catalog: invalid embedded sample: " + err.Error())
	}
	return ds
}

// Store answers catalog queries over an immutable dataset. Every query
// re-traverses the data, so a Store is safe for concurrent use.
type Store struct {
	products []Product
	orders   []Order
	byID     map[string]Product
	inst     query.Instrumentation
	log      *logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithInstrumentation reports every store traversal through inst.
func WithInstrumentation(inst query.Instrumentation) Option {
	return func(s *Store) { s.inst = inst }
}

// WithLogger sets the store logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) { s.log = log }
}

// NewStore indexes ds. Product and order ids must be unique.
func NewStore(ctx context.Context, ds *Dataset, opts ...Option) (*Store, error) {
	s := &Store{products: ds.Products, orders: ds.Orders, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	byID, err := query.ToMap(ctx, query.FromSlice(s.products),
		func(p Product) string { return p.ID },
		func(p Product) Product { return p })
	if err != nil {
		return nil, fmt.Errorf("indexing products: %w", err)
	}
	if _, err := query.ToMap(ctx, query.FromSlice(s.orders),
		func(o Order) string { return o.ID },
		func(Order) struct{} { return struct{}{} }); err != nil {
		return nil, fmt.Errorf("indexing orders: %w", err)
	}
	s.byID = byID

	s.log.Info("Catalog loaded", map[string]interface{}{
		"products": len(s.products),
		"orders":   len(s.orders),
	})
	return s, nil
}

func (s *Store) productSeq(name string) *query.Sequence[Product] {
	return query.Instrument(query.FromSlice(s.products), name, s.inst)
}

func (s *Store) orderSeq(name string) *query.Sequence[Order] {
	return query.Instrument(query.FromSlice(s.orders), name, s.inst)
}

// Product returns the product with id.
func (s *Store) Product(id string) (Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return Product{}, apperrors.NotFound("product", id)
	}
	return p, nil
}

// Order returns the order with id, which must be a UUID.
func (s *Store) Order(ctx context.Context, id string) (Order, error) {
	uid, err := validation.ValidateUUID("id", id)
	if err != nil {
		return Order{}, err
	}
	o, err := query.First(ctx, s.orderSeq("catalog.order"), func(o Order) bool { return o.ID == uid.String() })
	if errors.Is(err, query.ErrNoMatch) {
		return Order{}, apperrors.NotFound("order", id)
	}
	return o, err
}

// CheckHealth reports the store as degraded when it holds no products.
func (s *Store) CheckHealth(context.Context) observability.Health {
	h := observability.Health{
		Name:   "catalog",
		Status: observability.HealthStatusUp,
		Details: map[string]string{
			"products": strconv.Itoa(len(s.products)),
			"orders":   strconv.Itoa(len(s.orders)),
		},
	}
	if len(s.products) == 0 {
		h.Status = observability.HealthStatusDegraded
		h.Message = "catalog is empty"
	}
	return h
}
