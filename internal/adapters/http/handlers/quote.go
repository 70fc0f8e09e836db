package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quoteshorts/api/internal/adapters/http/dto"
	"github.com/quoteshorts/api/internal/app"
	"github.com/quoteshorts/api/internal/domain"
)

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// List handles GET /api/v1/quotes
// Returns one page of quotes, optionally filtered by category and sorted.
//
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size, 1-100 (default 25)"
// @Param category query string false "Category filter"
// @Param sortBy query string false "createdAt, likes, author or category"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	var query dto.ListQuotesQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	page, err := h.service.ListQuotes(c.Request.Context(), app.ListOptions{
		Page:      query.Page,
		Limit:     query.Limit,
		Category:  query.Category,
		SortBy:    domain.SortField(query.SortBy),
		SortOrder: domain.SortOrder(query.SortOrder),
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKPage(dto.QuotesFromDomain(page.Quotes), dto.NewPagination(page)))
}

// Random handles GET /api/v1/quotes/random
// Returns one quote drawn uniformly at random, optionally from a category.
//
// @Summary Get a random quote
// @Tags quotes
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/quotes/random [get]
func (h *QuoteHandler) Random(c *gin.Context) {
	quote, err := h.service.GetRandomQuote(c.Request.Context(), c.Query("category"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.QuoteFromDomain(quote)))
}

// Search handles GET /api/v1/quotes/search
// Returns quotes containing the query as a case-insensitive substring in
// text, author, book or category, most liked first.
//
// @Summary Search quotes
// @Tags quotes
// @Produce json
// @Param q query string true "Search term"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size, 1-100 (default 10)"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Router /api/v1/quotes/search [get]
func (h *QuoteHandler) Search(c *gin.Context) {
	var query dto.SearchQuotesQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	page, err := h.service.SearchQuotes(c.Request.Context(), query.Q, query.Page, query.Limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKPage(dto.QuotesFromDomain(page.Quotes), dto.NewWindowPagination(page)))
}

// Top handles GET /api/v1/quotes/top
// Returns the most liked quotes.
func (h *QuoteHandler) Top(c *gin.Context) {
	var query dto.TopQuotesQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	quotes, err := h.service.MostLikedQuotes(c.Request.Context(), query.Limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.QuotesFromDomain(quotes)))
}

// GetByID handles GET /api/v1/quotes/:id
// Returns a specific quote. A malformed identifier is a 400, a missing
// quote a 404.
//
// @Summary Get a quote by ID
// @Tags quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *gin.Context) {
	quote, err := h.service.GetQuoteByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.QuoteFromDomain(quote)))
}

// Create handles POST /api/v1/quotes
// Validates and stores a new quote, answering 201 with the stored record.
//
// @Summary Create a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	created, err := h.service.CreateQuote(c.Request.Context(), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.QuoteFromDomain(created)))
}

// Update handles PUT /api/v1/quotes/:id
// Applies the supplied fields to an existing quote.
func (h *QuoteHandler) Update(c *gin.Context) {
	var req dto.UpdateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	updated, err := h.service.UpdateQuote(c.Request.Context(), c.Param("id"), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.QuoteFromDomain(updated)))
}

// Like handles POST /api/v1/quotes/:id/like
// Adds one to the quote's like counter and returns the updated quote.
//
// @Summary Like a quote
// @Tags quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/quotes/{id}/like [post]
func (h *QuoteHandler) Like(c *gin.Context) {
	quote, err := h.service.IncrementLikes(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.QuoteFromDomain(quote)))
}

// Delete handles DELETE /api/v1/quotes/:id
// Permanently removes a quote.
func (h *QuoteHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteQuote(c.Request.Context(), c.Param("id")); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("quote deleted"))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
// Static segments go before the :id parameter so "random" and friends are
// never swallowed as identifiers.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.List)
	quotes.POST("", h.Create)
	quotes.GET("/random", h.Random)
	quotes.GET("/search", h.Search)
	quotes.GET("/top", h.Top)
	quotes.GET("/:id", h.GetByID)
	quotes.PUT("/:id", h.Update)
	quotes.DELETE("/:id", h.Delete)
	quotes.POST("/:id/like", h.Like)
}
