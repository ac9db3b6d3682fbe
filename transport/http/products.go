package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/layer-3/catalog/core"
	"github.com/layer-3/catalog/ports"
)

// ProductHandlers serves the product catalog
type ProductHandlers struct {
	products ports.ProductRepository
}

// NewProductHandlers creates handlers backed by the given repository
func NewProductHandlers(products ports.ProductRepository) *ProductHandlers {
	return &ProductHandlers{products: products}
}

type productRequest struct {
	Name        string          `json:"nome" binding:"required,min=3,max=100"`
	Description string          `json:"descricao" binding:"max=500"`
	Price       decimal.Decimal `json:"preco" binding:"required,gt=0"`
	Quantity    int             `json:"quantidade" binding:"min=0"`
}

func (r productRequest) toProduct(id int64) core.Product {
	return core.Product{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
	}
}

type productResponse struct {
	ID          int64       `json:"id"`
	Name        string      `json:"nome"`
	Description string      `json:"descricao"`
	Price       json.Number `json:"preco"`
	Quantity    int         `json:"quantidade"`
}

func newProductResponse(p core.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       json.Number(p.Price.StringFixed(2)),
		Quantity:    p.Quantity,
	}
}

// List returns every product, filtered by the optional search query
func (h *ProductHandlers) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = newProductResponse(p)
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns one product by id
func (h *ProductHandlers) Get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(p))
}

// Exists answers HEAD requests without a body
func (h *ProductHandlers) Exists(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	if _, err := h.products.Get(c.Request.Context(), id); err != nil {
		c.AbortWithStatus(classifyError(err).status)
		return
	}
	c.Status(http.StatusOK)
}

// Create adds a product and answers 201
func (h *ProductHandlers) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	p, err := h.products.Create(c.Request.Context(), req.toProduct(0))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Location", "/api/produtos/"+strconv.FormatInt(p.ID, 10))
	c.JSON(http.StatusCreated, newProductResponse(p))
}

// Update replaces a product
func (h *ProductHandlers) Update(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	p, err := h.products.Update(c.Request.Context(), req.toProduct(id))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(p))
}

// Delete removes a product and answers 204
func (h *ProductHandlers) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithMessage(c, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}
