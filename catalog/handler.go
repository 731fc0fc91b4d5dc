package catalog

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/server"
	"github.com/kbukum/seqkit/validation"
)

// Handler exposes a Store over HTTP.
type Handler struct {
	store *Store
}

// NewHandler creates a Handler for store.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Register mounts the catalog routes under /v1.
func (h *Handler) Register(r gin.IRouter) {
	v1 := r.Group("/v1")
	v1.GET("/products", h.searchProducts)
	v1.GET("/products/:id", h.getProduct)
	v1.GET("/orders/:id", h.getOrder)
	v1.GET("/tags", h.listTags)

	reports := v1.Group("/reports")
	reports.GET("/categories", h.categoryReport)
	reports.GET("/customers", h.customerReport)
	reports.GET("/products", h.productReport)
	reports.GET("/missing-products", h.missingProductsReport)
}

func (h *Handler) searchProducts(c *gin.Context) {
	var params SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("query", err.Error()))
		return
	}
	page, err := h.store.Search(c.Request.Context(), params)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOKWithMeta(c, page.Items, &server.Meta{Offset: page.Offset, Limit: page.Limit, Total: page.Total})
}

func (h *Handler) getProduct(c *gin.Context) {
	p, err := h.store.Product(c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, p)
}

func (h *Handler) getOrder(c *gin.Context) {
	o, err := h.store.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, o)
}

func (h *Handler) listTags(c *gin.Context) {
	tags, err := h.store.Tags(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, tags)
}

func (h *Handler) categoryReport(c *gin.Context) {
	rows, err := h.store.CategorySummaries(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, rows)
}

const defaultTopCustomers = 5

func (h *Handler) customerReport(c *gin.Context) {
	n := defaultTopCustomers
	if raw := c.Query("limit"); raw != "" {
		v := validation.New()
		parsed, err := strconv.Atoi(raw)
		v.Check(err == nil, "limit", "must be an integer")
		if err == nil {
			v.Range("limit", parsed, 1, MaxLimit)
		}
		if err := v.Validate(); err != nil {
			server.RespondWithError(c, err)
			return
		}
		n = parsed
	}

	rows, err := h.store.TopCustomers(c.Request.Context(), n)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, rows)
}

func (h *Handler) productReport(c *gin.Context) {
	rows, err := h.store.ProductSales(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, rows)
}

func (h *Handler) missingProductsReport(c *gin.Context) {
	ids, err := h.store.MissingProducts(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, ids)
}
