package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/skycareers/internal/auth"
	"github.com/justsurfingit/skycareers/internal/storage"
)

type FileHandler struct {
	Storage *storage.LocalStorage
}

func NewFileHandler(s *storage.LocalStorage) *FileHandler {
	return &FileHandler{Storage: s}
}

// ServeResume streams a stored resume. Keys start with the applicant id, so
// only that applicant can read it.
func (h *FileHandler) ServeResume(c *gin.Context) {
	caller := auth.CurrentCaller(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "You must be logged in"})
		return
	}
	key, err := h.Storage.CleanKey(strings.TrimPrefix(c.Param("key"), "/"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid file path"})
		return
	}
	owner, _, _ := strings.Cut(key, "/")
	if owner != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "You can only view your own resumes"})
		return
	}

	f, err := h.Storage.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "File not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid file path"})
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "File not found"})
		return
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}
