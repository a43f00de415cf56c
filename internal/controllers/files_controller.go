package controllers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"checklist/internal/apperrors"
	"checklist/internal/blobstore"
	"checklist/internal/checklist"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FilesController struct {
	Blobs  *blobstore.Store
	Logger *zap.Logger
}

// Download streams a stored upload by its generated name.
func (fc *FilesController) Download(c *gin.Context) {
	name := c.Param("fileName")

	f, info, err := fc.Blobs.Open(name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			respondError(c, fc.Logger, apperrors.NotFound("File not found."))
			return
		}
		respondError(c, fc.Logger, apperrors.Store("open download", err))
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, info.Size(), contentType, f, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, name),
	})
}

type QuestionsController struct {
	Logger *zap.Logger
}

// GetQuestions returns the ordered steps of one process.
func (qc *QuestionsController) GetQuestions(c *gin.Context) {
	process, err := checklist.ParseProcess(c.Param("process"))
	if err != nil {
		respondError(c, qc.Logger, apperrors.Validation("Invalid process. Use 'onboarding' or 'offboarding'."))
		return
	}

	c.JSON(http.StatusOK, checklist.Steps(process))
}
