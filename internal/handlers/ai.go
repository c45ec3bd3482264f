package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stackit-dev/stackit/backend/internal/ai"
)

type AIHandler struct {
	responder
	assistant *ai.Assistant
}

type textRequest struct {
	Text string `json:"text"`
}

func (h *AIHandler) Markdown(c *gin.Context) {
	var input textRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindFailed(c, err)
		return
	}

	markdown, err := h.assistant.Markdown(c.Request.Context(), input.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": markdown})
}

// Tags suggests tags for the given text. Unparseable model output yields an empty list.
func (h *AIHandler) Tags(c *gin.Context) {
	var input textRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindFailed(c, err)
		return
	}

	tags, err := h.assistant.Tags(c.Request.Context(), input.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": tags})
}
