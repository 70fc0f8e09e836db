package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quoteshorts/api/internal/adapters/http/dto"
	"github.com/quoteshorts/api/internal/app"
)

// CategoryHandler handles category-related HTTP endpoints.
type CategoryHandler struct {
	service *app.QuoteService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(service *app.QuoteService) *CategoryHandler {
	return &CategoryHandler{
		service: service,
	}
}

// List handles GET /api/v1/categories
// Returns the distinct categories with quote counts, largest first.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.CategoriesFromDomain(categories)))
}

// Quotes handles GET /api/v1/categories/:category/quotes
// Returns one page of a category's quotes, most liked first.
func (h *CategoryHandler) Quotes(c *gin.Context) {
	var query dto.PageQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	page, err := h.service.QuotesByCategory(c.Request.Context(), c.Param("category"), query.Page, query.Limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKPage(dto.QuotesFromDomain(page.Quotes), dto.NewPagination(page)))
}

// RegisterCategoryRoutes registers category routes on the given router group.
func (h *CategoryHandler) RegisterCategoryRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.GET("", h.List)
	categories.GET("/:category/quotes", h.Quotes)
}
