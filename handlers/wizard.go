package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"ordesk/models"
	"ordesk/services/coreapi"
	"ordesk/services/wizard"
	"ordesk/utils"

	"github.com/gin-gonic/gin"
)

// WizardHandler exposes the order-creation wizard endpoints.
type WizardHandler struct {
	Svc wizard.Service
}

func NewWizardHandler(svc wizard.Service) *WizardHandler {
	return &WizardHandler{Svc: svc}
}

// respondWizardError maps service errors onto HTTP statuses.
func respondWizardError(c *gin.Context, err error) {
	var vErr *wizard.ValidationError
	var upErr *wizard.UpstreamError
	var apiErr *coreapi.APIError

	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "wizard session not found or expired", "")
	case errors.Is(err, wizard.ErrSubmitting):
		utils.JSONError(c, http.StatusConflict, "submission in progress", err.Error())
	case errors.Is(err, wizard.ErrImageLimit):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.As(err, &vErr):
		utils.JSONError(c, http.StatusBadRequest, vErr.Message, vErr.Field)
	case errors.As(err, &upErr):
		utils.JSONError(c, http.StatusBadGateway, "core backend request failed", upErr.Error())
	case errors.As(err, &apiErr):
		utils.JSONError(c, http.StatusBadGateway, apiErr.Error(), "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}

// StartSession creates a new wizard session for the authenticated operator.
func (h *WizardHandler) StartSession(c *gin.Context) {
	operatorID := c.GetString("operatorID")
	session, err := h.Svc.Start(c.Request.Context(), operatorID)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession returns the current wizard state.
func (h *WizardHandler) GetSession(c *gin.Context) {
	session, err := h.Svc.Get(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// CancelSession discards the draft and frees its staged previews.
func (h *WizardHandler) CancelSession(c *gin.Context) {
	if err := h.Svc.Cancel(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "wizard session cancelled"})
}

// NextStep advances the wizard without storing anything.
func (h *WizardHandler) NextStep(c *gin.Context) {
	session, err := h.Svc.NextStep(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// PrevStep moves the wizard back without storing anything.
func (h *WizardHandler) PrevStep(c *gin.Context) {
	session, err := h.Svc.PrevStep(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectClient stores the chosen client and advances.
func (h *WizardHandler) SelectClient(c *gin.Context) {
	var client models.ClientRef
	if err := c.ShouldBindJSON(&client); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid client payload", err.Error())
		return
	}
	session, err := h.Svc.SelectClient(c.Request.Context(), c.Param("sessionID"), client)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SetServiceDetails validates and stores the intervention fields.
func (h *WizardHandler) SetServiceDetails(c *gin.Context) {
	var details models.ServiceDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid service details payload", err.Error())
		return
	}
	session, err := h.Svc.SetServiceDetails(c.Request.Context(), c.Param("sessionID"), details)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// AttachImages accepts either a multipart batch of fresh files (form field
// "images") or a JSON body of pre-existing backend URLs.
func (h *WizardHandler) AttachImages(c *gin.Context) {
	sessionID := c.Param("sessionID")

	if c.ContentType() == "application/json" {
		var body struct {
			URLs []string `json:"urls"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid images payload", err.Error())
			return
		}
		session, err := h.Svc.AttachInitialImages(c.Request.Context(), sessionID, body.URLs)
		if err != nil {
			respondWizardError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}
	fileHeaders := form.File["images"]
	if len(fileHeaders) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "no files provided", "")
		return
	}

	uploads := make([]wizard.ImageUpload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "failed to read uploaded file", err.Error())
			return
		}
		defer f.Close()
		uploads = append(uploads, wizard.ImageUpload{Name: fh.Filename, Content: f})
	}

	session, err := h.Svc.AttachImages(c.Request.Context(), sessionID, uploads)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// RemoveImage drops one image from the draft.
func (h *WizardHandler) RemoveImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid image index", c.Param("index"))
		return
	}
	session, err := h.Svc.RemoveImage(c.Request.Context(), c.Param("sessionID"), index)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectPartner stores the chosen partner and advances.
func (h *WizardHandler) SelectPartner(c *gin.Context) {
	var partner models.PartnerRef
	if err := c.ShouldBindJSON(&partner); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid partner payload", err.Error())
		return
	}
	session, err := h.Svc.SelectPartner(c.Request.Context(), c.Param("sessionID"), partner)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectPrestataires stores the invitation selection and advances.
func (h *WizardHandler) SelectPrestataires(c *gin.Context) {
	var body struct {
		Selection []models.PrestataireOption `json:"selection"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid selection payload", err.Error())
		return
	}
	session, err := h.Svc.SelectPrestataires(c.Request.Context(), c.Param("sessionID"), body.Selection)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Confirm runs the submission sequence and returns the created order with
// any warnings from the best-effort steps.
func (h *WizardHandler) Confirm(c *gin.Context) {
	result, err := h.Svc.Confirm(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
