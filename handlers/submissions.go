package handlers

import (
	"net/http"
	"strconv"

	submissionsRepo "ordesk/database/repository/submissions"
	"ordesk/utils"

	"github.com/gin-gonic/gin"
)

// SubmissionHandler exposes the submission audit log.
type SubmissionHandler struct {
	Repo submissionsRepo.SubmissionRepository
}

func NewSubmissionHandler(repo submissionsRepo.SubmissionRepository) *SubmissionHandler {
	return &SubmissionHandler{Repo: repo}
}

// ListRecent returns the most recent wizard submissions, newest first.
func (h *SubmissionHandler) ListRecent(c *gin.Context) {
	limit := int64(20)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 || parsed > 200 {
			utils.JSONError(c, http.StatusBadRequest, "invalid limit", raw)
			return
		}
		limit = parsed
	}

	records, err := h.Repo.Recent(c.Request.Context(), limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list submissions", err.Error())
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetByOrderID returns the submission record for one order.
func (h *SubmissionHandler) GetByOrderID(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderID"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid order id", c.Param("orderID"))
		return
	}
	record, err := h.Repo.GetByOrderID(c.Request.Context(), orderID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "submission not found", "")
		return
	}
	c.JSON(http.StatusOK, record)
}
