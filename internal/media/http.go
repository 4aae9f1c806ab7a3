package media

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/projectdesk/projectdesk-backend/internal/upstream"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
)

// PhotoSearcher queries a stock-photo API.
type PhotoSearcher interface {
	Configured() bool
	Search(ctx context.Context, query string, page, perPage int) (*Result, error)
}

type Handler struct {
	searcher PhotoSearcher
}

// Register attaches the media proxy route to the given router group.
func Register(rg *gin.RouterGroup, searcher PhotoSearcher) {
	h := &Handler{searcher: searcher}
	rg.GET("", h.search)
}

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "query is required"})
		return
	}

	page := positiveIntOrDefault(c.Query("page"), defaultPage)
	perPage := positiveIntOrDefault(c.Query("per_page"), defaultPerPage)

	if !h.searcher.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "PEXELS_API_KEY is not configured"})
		return
	}

	result, err := h.searcher.Search(c.Request.Context(), query, page, perPage)
	if err != nil {
		upstream.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// positiveIntOrDefault parses a pagination parameter; any non-positive or
// non-numeric value falls back to the default.
func positiveIntOrDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
