package catalog

// Product is a catalog entry.
type Product struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Price    float64  `json:"price" validate:"gte=0"`
	Stock    int      `json:"stock" validate:"gte=0"`
	Tags     []string `json:"tags,omitempty"`
}

// Order is one customer order line. ProductID may name a product the
// catalog no longer carries.
type Order struct {
	ID        string `json:"id" validate:"required,uuid"`
	ProductID string `json:"product_id" validate:"required"`
	Customer  string `json:"customer" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// Dataset is the on-disk form of a catalog.
type Dataset struct {
	Products []Product `json:"products" validate:"dive"`
	Orders   []Order   `json:"orders" validate:"dive"`
}

// CategorySummary aggregates the products of one category.
type CategorySummary struct {
	Category   string  `json:"category"`
	Products   int     `json:"products"`
	Units      int     `json:"units"`
	AvgPrice   float64 `json:"avg_price"`
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
	StockValue float64 `json:"stock_value"`
}

// CustomerRevenue aggregates the orders of one customer that reference a
// known product.
type CustomerRevenue struct {
	Customer string  `json:"customer"`
	Orders   int     `json:"orders"`
	Units    int     `json:"units"`
	Revenue  float64 `json:"revenue"`
}

// ProductSales is the order volume of one product, zero when unsold.
type ProductSales struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Orders    int     `json:"orders"`
	Units     int     `json:"units"`
	Revenue   float64 `json:"revenue"`
}

// Page is one slice of a sorted result.
type Page[T any] struct {
	Items  []T `json:"items"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}
