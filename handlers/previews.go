package handlers

import (
	"io"
	"net/http"

	"ordesk/services/staging"
	"ordesk/utils"

	"github.com/gin-gonic/gin"
)

// PreviewHandler serves staged image previews back to the dashboard.
type PreviewHandler struct {
	Staging staging.Store
}

func NewPreviewHandler(store staging.Store) *PreviewHandler {
	return &PreviewHandler{Staging: store}
}

// GetPreview streams one staged preview.
func (h *PreviewHandler) GetPreview(c *gin.Context) {
	content, err := h.Staging.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "preview not found", err.Error())
		return
	}
	defer content.Close()

	c.Header("Cache-Control", "private, max-age=60")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, content); err != nil {
		utils.GetLogger().Sugar().Warnf("failed to stream preview: %v", err)
	}
}
