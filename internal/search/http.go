package search

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/projectdesk/projectdesk-backend/internal/upstream"
)

// Searcher queries a hosted search index.
type Searcher interface {
	Configured() bool
	Search(ctx context.Context, query string) ([]Hit, error)
}

type Handler struct {
	searcher Searcher
}

// Register attaches the search proxy route to the given router group.
func Register(rg *gin.RouterGroup, searcher Searcher) {
	h := &Handler{searcher: searcher}
	rg.GET("", h.search)
}

func (h *Handler) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "q is required"})
		return
	}

	if !h.searcher.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "search backend is not configured"})
		return
	}

	hits, err := h.searcher.Search(c.Request.Context(), q)
	if err != nil {
		upstream.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hits": hits})
}
