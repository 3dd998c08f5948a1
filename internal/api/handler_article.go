package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pressroom/internal/service"
	"pressroom/internal/widget"
)

type ArticleHandler struct {
	content *service.ContentService
}

func NewArticleHandler(content *service.ContentService) *ArticleHandler {
	return &ArticleHandler{
		content: content,
	}
}

// GetArticle handles GET /sites/:site/articles/:slug
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	siteID, ok := siteParam(c)
	if !ok {
		return
	}

	view, err := h.content.Get(c.Request.Context(), siteID, c.Param("slug"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch article"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// BumpViews handles POST /sites/:site/articles/:slug/views
func (h *ArticleHandler) BumpViews(c *gin.Context) {
	siteID, ok := siteParam(c)
	if !ok {
		return
	}

	views, err := h.content.IncrementViews(c.Request.Context(), siteID, c.Param("slug"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update views"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"displayViews": views})
}

// BumpLikes handles POST /sites/:site/articles/:slug/likes
func (h *ArticleHandler) BumpLikes(c *gin.Context) {
	siteID, ok := siteParam(c)
	if !ok {
		return
	}

	likes, err := h.content.IncrementLikes(c.Request.Context(), siteID, c.Param("slug"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update likes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"displayLikes": likes})
}

// PutWidgets handles PUT /admin/sites/:site/articles/:id/widgets. The body
// is the raw widget collection. Per-widget problems come back as warnings
// on a 200; only an unparseable collection is a 400, and that write leaves
// the stored state untouched.
func (h *ArticleHandler) PutWidgets(c *gin.Context) {
	siteID, ok := siteParam(c)
	if !ok {
		return
	}

	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	warnings, err := h.content.PutWidgets(c.Request.Context(), siteID, articleID, raw)

	var parseErr *widget.ParseError
	if errors.As(err, &parseErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update widgets"})
		return
	}

	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "updated",
		"warnings": lines,
	})
}

func siteParam(c *gin.Context) (int, bool) {
	siteID, err := strconv.Atoi(c.Param("site"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site id"})
		return 0, false
	}
	return siteID, true
}
