package ai

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/projectdesk/projectdesk-backend/internal/upstream"
)

type Handler struct {
	openai TextGenerator
	gemini TextGenerator
}

// Register attaches the AI proxy routes to the given router group.
func Register(rg *gin.RouterGroup, openai, gemini TextGenerator) {
	h := &Handler{openai: openai, gemini: gemini}

	rg.POST("/complete", h.complete)
	rg.POST("/gemini", h.geminiText)
}

type promptReq struct {
	Prompt string `json:"prompt"`
}

func (h *Handler) complete(c *gin.Context) {
	h.generate(c, h.openai, "OPENAI_API_KEY")
}

func (h *Handler) geminiText(c *gin.Context) {
	h.generate(c, h.gemini, "GEMINI_API_KEY")
}

func (h *Handler) generate(c *gin.Context, gen TextGenerator, credential string) {
	var req promptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid JSON body"})
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "prompt is required"})
		return
	}

	if !gen.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": credential + " is not configured"})
		return
	}

	text, err := gen.Generate(c.Request.Context(), prompt)
	if err != nil {
		upstream.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}
