package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/skycareers/internal/auth"
	"github.com/justsurfingit/skycareers/internal/dtos"
	"github.com/justsurfingit/skycareers/internal/services"
	"github.com/justsurfingit/skycareers/internal/store"
)

type JobHandler struct {
	JobService *services.JobService
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(j *services.JobService) *JobHandler {
	return &JobHandler{JobService: j}
}

// ListJobs is the GET /jobs endpoint
func (h *JobHandler) ListJobs(c *gin.Context) {
	var q dtos.JobListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid query: " + err.Error()})
		return
	}
	jobs, err := h.JobService.ListJobs(c.Request.Context(), store.JobFilter{
		Region:       q.Region,
		ContractType: q.ContractType,
		Limit:        q.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": jobs})
}

// GetJob is the GET /jobs/:id endpoint
func (h *JobHandler) GetJob(c *gin.Context) {
	detail, err := h.JobService.GetJob(c.Request.Context(), auth.CurrentCaller(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": detail})
}

// CreateJob is the POST /jobs endpoint
func (h *JobHandler) CreateJob(c *gin.Context) {
	caller := auth.CurrentCaller(c)
	if caller == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON format: " + err.Error()})
		return
	}
	job, err := h.JobService.CreateJob(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": job})
}
