package controllers

import (
	"errors"
	"net/http"
	"strings"

	"checklist/internal/apperrors"
	"checklist/internal/archive"
	"checklist/internal/intake"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ResponsesController struct {
	Intake         *intake.Service
	Archive        *archive.Store
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// CreateResponses stores one completed checklist.
// Multipart fields: process, responses (JSON list), file (optional).
func (rc *ResponsesController) CreateResponses(c *gin.Context) {
	if rc.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, rc.MaxUploadBytes)
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if _, err := c.MultipartForm(); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondError(c, rc.Logger, apperrors.Validation("File too large: the limit is %d MB.", tooLarge.Limit>>20))
				return
			}
			respondError(c, rc.Logger, apperrors.Validation("Invalid multipart body."))
			return
		}
	}

	answers, ok := c.GetPostForm("responses")
	if !ok {
		// spelling used by older clients
		answers = c.PostForm("answers")
	}

	req := intake.Request{
		Process: c.PostForm("process"),
		Answers: answers,
	}

	fh, err := c.FormFile("file")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			respondError(c, rc.Logger, apperrors.Store("open upload", err))
			return
		}
		defer f.Close()
		req.File = &intake.Upload{Name: fh.Filename, Content: f}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// no file attached
	default:
		respondError(c, rc.Logger, apperrors.Validation("Invalid file upload."))
		return
	}

	ack, err := rc.Intake.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, rc.Logger, err)
		return
	}

	c.JSON(http.StatusOK, ack)
}

// ListResponses returns every stored record.
func (rc *ResponsesController) ListResponses(c *gin.Context) {
	records, err := rc.Archive.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, rc.Logger, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": apperrors.PublicMessage(err)})
}
