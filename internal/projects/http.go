package projects

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store Store
}

// Register attaches the projects routes to the given router group.
func Register(rg *gin.RouterGroup, store Store) {
	h := &Handler{store: store}

	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		log.Printf("[error] operation=list_projects error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "storage failure"})
		return
	}
	c.JSON(http.StatusOK, items)
}

type createReq struct {
	Name string `json:"name"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid JSON body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ErrInvalidName.Error()})
		return
	}

	p, err := h.store.Create(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, ErrInvalidName) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		log.Printf("[error] operation=create_project error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "storage failure"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

type updateReq struct {
	Name *string `json:"name"`
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid JSON body"})
		return
	}

	upd := Update{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ErrInvalidName.Error()})
			return
		}
		upd.Name = &name
	}

	if upd.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ErrNoFields.Error()})
		return
	}

	p, err := h.store.Update(c.Request.Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": ErrNotFound.Error()})
		case errors.Is(err, ErrNoFields), errors.Is(err, ErrInvalidName):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		default:
			log.Printf("[error] operation=update_project id=%d error=%v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "storage failure"})
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": ErrNotFound.Error()})
			return
		}
		log.Printf("[error] operation=delete_project id=%d error=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "storage failure"})
		return
	}

	c.Status(http.StatusNoContent)
}

// parseID reads the :id path parameter as a positive integer, responding 400
// on anything else.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}
