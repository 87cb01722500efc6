package handlers

import (
	"net/http"

	"ordesk/services/wizard"

	"github.com/gin-gonic/gin"
)

// DirectoryHandler proxies the core backend's client, partner and
// prestataire directories for the dashboard.
type DirectoryHandler struct {
	Svc wizard.Service
}

func NewDirectoryHandler(svc wizard.Service) *DirectoryHandler {
	return &DirectoryHandler{Svc: svc}
}

// SearchClients proxies the client search endpoint.
func (h *DirectoryHandler) SearchClients(c *gin.Context) {
	clients, err := h.Svc.SearchClients(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// SearchPartners lists partners filtered across name, email and phone.
func (h *DirectoryHandler) SearchPartners(c *gin.Context) {
	partners, err := h.Svc.SearchPartners(c.Request.Context(), c.Query("filter"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, partners)
}

// ListPrestataires lists prestataires materialized for the multi-select.
func (h *DirectoryHandler) ListPrestataires(c *gin.Context) {
	options, err := h.Svc.ListPrestataires(c.Request.Context())
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}
