package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nardi-nardi/naanews-sub000/internal/content"
	"github.com/nardi-nardi/naanews-sub000/internal/logger"
	"github.com/nardi-nardi/naanews-sub000/internal/models"
)

// ContentHandler serves the public read API. Every response comes from the
// content service, so it is cached and falls back to seed data.
type ContentHandler struct {
	svc    *content.Service
	logger logger.Logger
}

func NewContentHandler(svc *content.Service, log logger.Logger) *ContentHandler {
	return &ContentHandler{
		svc:    svc,
		logger: log,
	}
}

// RegisterRoutes mounts the read endpoints under rg.
func (h *ContentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/feeds", h.ListFeeds)
	rg.GET("/feeds/:id", h.GetFeed)
	rg.GET("/stories", h.ListStories)
	rg.GET("/stories/:id", h.GetStory)
	rg.GET("/books", h.ListBooks)
	rg.GET("/books/:id", h.GetBook)
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:slug", h.GetProduct)
	rg.GET("/categories", h.ListCategories)
	rg.GET("/roadmaps", h.ListRoadmaps)
	rg.GET("/roadmaps/:slug", h.GetRoadmap)
}

func (h *ContentHandler) ListFeeds(c *gin.Context) {
	var category models.Category
	if raw := c.Query("category"); raw != "" {
		parsed, ok := models.ParseCategory(raw)
		if !ok {
			logger.FromContext(c.Request.Context(), h.logger).Debug("Invalid feed category",
				logger.String("category", raw),
			)
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid category",
				"allowed": models.Categories(),
			})
			return
		}
		category = parsed
	}

	feeds := h.svc.GetFeeds(c.Request.Context(), category)
	c.JSON(http.StatusOK, gin.H{
		"feeds": feeds,
		"count": len(feeds),
	})
}

func (h *ContentHandler) GetFeed(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	feed := h.svc.GetFeedByID(c.Request.Context(), id)
	if feed == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *ContentHandler) ListStories(c *gin.Context) {
	stories := h.svc.GetStories(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"stories": stories,
		"count":   len(stories),
	})
}

// GetStory returns the story together with its feeds and books.
func (h *ContentHandler) GetStory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail := h.svc.GetStoryByID(c.Request.Context(), id)
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ContentHandler) ListBooks(c *gin.Context) {
	books := h.svc.GetBooks(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"books": books,
		"count": len(books),
	})
}

func (h *ContentHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	book := h.svc.GetBookByID(c.Request.Context(), id)
	if book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	c.JSON(http.StatusOK, book)
}

// ListProducts filters by the category slug in ?category=.
func (h *ContentHandler) ListProducts(c *gin.Context) {
	products := h.svc.GetProducts(c.Request.Context(), c.Query("category"))
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

func (h *ContentHandler) GetProduct(c *gin.Context) {
	product := h.svc.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ContentHandler) ListCategories(c *gin.Context) {
	categories := h.svc.GetCategories(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

func (h *ContentHandler) ListRoadmaps(c *gin.Context) {
	roadmaps := h.svc.GetRoadmaps(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"roadmaps": roadmaps,
		"count":    len(roadmaps),
	})
}

func (h *ContentHandler) GetRoadmap(c *gin.Context) {
	roadmap := h.svc.GetRoadmapBySlug(c.Request.Context(), c.Param("slug"))
	if roadmap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Roadmap not found"})
		return
	}
	c.JSON(http.StatusOK, roadmap)
}

// parseID reads a positive numeric :id. On failure it writes the 400 response.
func parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id", "id": raw})
		return 0, false
	}
	return id, true
}
