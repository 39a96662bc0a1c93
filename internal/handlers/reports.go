package handlers

import (
	"net/http"
	"strconv"

	"civic-sense/internal/models"

	"github.com/gin-gonic/gin"
)

// ListReports returns reports newest first. student_id wins over domain
// when both are given.
func (h *Handlers) ListReports(c *gin.Context) {
	filter := models.ReportFilter{
		StudentID: c.Query("student_id"),
		Domain:    c.Query("domain"),
	}
	reports, err := h.store.ListReports(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

type createReportRequest struct {
	StudentID   string            `json:"student_id" binding:"required"`
	Type        models.ReportType `json:"type" binding:"required"`
	Location    string            `json:"location" binding:"required"`
	Description *string           `json:"description"`
	Image       *string           `json:"image"`
}

func (h *Handlers) CreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}
	if !req.Type.Valid() {
		h.fail(c, ErrInvalidType)
		return
	}

	r := &models.Report{
		StudentID:   req.StudentID,
		Type:        req.Type,
		Location:    req.Location,
		Description: req.Description,
		ImageURL:    req.Image,
		Status:      models.StatusPending,
		Date:        h.now().Format(models.DateLayout),
	}
	if err := h.store.CreateReport(c.Request.Context(), r); err != nil {
		h.fail(c, err)
		return
	}

	h.metrics.ReportsCreated.WithLabelValues(string(r.Type)).Inc()
	c.JSON(http.StatusCreated, gin.H{"message": "Report submitted successfully"})
}

type updateReportRequest struct {
	Status models.ReportStatus `json:"status"`
}

// UpdateReport changes the status. Moving to Resolved stamps today's date;
// other statuses leave resolved_date as it was.
func (h *Handlers) UpdateReport(c *gin.Context) {
	id, ok := reportID(c)
	if !ok {
		h.fail(c, ErrNotFound)
		return
	}

	var req updateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		h.fail(c, ErrInvalidRequest)
		return
	}
	if !req.Status.Valid() {
		h.fail(c, ErrInvalidStatus)
		return
	}

	var resolved *string
	if req.Status == models.StatusResolved {
		d := h.now().Format(models.ResolvedDateLayout)
		resolved = &d
	}
	if err := h.store.UpdateReportStatus(c.Request.Context(), id, req.Status, resolved); err != nil {
		h.fail(c, err)
		return
	}

	h.metrics.StatusUpdates.WithLabelValues(string(req.Status)).Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *Handlers) DeleteReport(c *gin.Context) {
	id, ok := reportID(c)
	if !ok {
		h.fail(c, ErrNotFound)
		return
	}
	if err := h.store.DeleteReport(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}

func reportID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
