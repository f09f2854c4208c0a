package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/skycareers/internal/auth"
	"github.com/justsurfingit/skycareers/internal/dtos"
	"github.com/justsurfingit/skycareers/internal/services"
)

type ApplicationHandler struct {
	Applications *services.ApplicationService
}

func NewApplicationHandler(apps *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Applications: apps}
}

// Submit is the POST /jobs/:id/applications endpoint (multipart form).
func (h *ApplicationHandler) Submit(c *gin.Context) {
	caller := auth.CurrentCaller(c)
	if caller == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	var form dtos.ApplicationForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data: " + err.Error()})
		return
	}

	in := services.SubmitInput{
		JobID:          c.Param("id"),
		CoverLetter:    form.CoverLetter,
		Phone:          form.Phone,
		AdditionalInfo: form.AdditionalInfo,
		LinkedinURL:    form.LinkedinURL,
		NoticePeriod:   form.NoticePeriod,
		CurrentSalary:  form.CurrentSalary,
		ExpectedSalary: form.ExpectedSalary,
	}
	if form.Resume != nil {
		f, err := form.Resume.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Could not read resume upload"})
			return
		}
		defer f.Close()
		in.Resume = &services.ResumeFile{
			Name:        form.Resume.Filename,
			Size:        form.Resume.Size,
			ContentType: form.Resume.Header.Get("Content-Type"),
			Content:     f,
		}
	}

	id, err := h.Applications.Submit(c.Request.Context(), caller, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "application_id": id})
}

// Withdraw is the DELETE /applications/:id endpoint
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	if err := h.Applications.Withdraw(c.Request.Context(), auth.CurrentCaller(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListMine is the GET /applications endpoint
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.Applications.ListMine(c.Request.Context(), auth.CurrentCaller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": apps})
}
