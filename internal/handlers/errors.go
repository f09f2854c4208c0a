package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/skycareers/internal/services"
)

func respondError(c *gin.Context, err error) {
	status, msg := statusAndMessage(err)
	if status >= http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// statusAndMessage maps a service error to the HTTP status and the text shown to the user.
func statusAndMessage(err error) (int, string) {
	reason := services.ReasonOf(err)
	switch services.KindOf(err) {
	case services.KindUnauthorized:
		return http.StatusUnauthorized, "You must be logged in"
	case services.KindForbidden:
		return http.StatusForbidden, "You can only withdraw your own applications"
	case services.KindValidation:
		return http.StatusBadRequest, validationMessage(reason)
	case services.KindConflict:
		if reason == services.ReasonJobNotOpen {
			return http.StatusConflict, "This job is no longer accepting applications"
		}
		return http.StatusConflict, "You have already applied to this job"
	case services.KindNotFound:
		if reason == "job" {
			return http.StatusNotFound, "Job not found"
		}
		return http.StatusNotFound, "Application not found"
	case services.KindStorage:
		switch reason {
		case "upload resume":
			return http.StatusInternalServerError, "Failed to upload resume. Please try again."
		case "insert application":
			return http.StatusInternalServerError, "Failed to submit application. Please try again."
		case "delete application":
			return http.StatusInternalServerError, "Failed to withdraw application"
		}
	}
	return http.StatusInternalServerError, "An unexpected error occurred. Please try again."
}

func validationMessage(reason string) string {
	switch reason {
	case services.ReasonCoverLetterTooShort:
		return "Cover letter must be at least 100 characters"
	case services.ReasonResumeTooLarge:
		return "Resume file is too large"
	case services.ReasonResumeType:
		return "Resume must be a PDF, DOC or DOCX file"
	case services.ReasonInvalidSalary:
		return "Salary must be a whole number"
	}
	if strings.HasPrefix(reason, "missing field") {
		return "Please fill in all required fields"
	}
	return reason
}
