package intake

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"checklist/internal/apperrors"
	"checklist/internal/archive"
	"checklist/internal/blobstore"
	"checklist/internal/checklist"

	"go.uber.org/zap"
)

// Request is one raw submission as it arrives over HTTP.
type Request struct {
	Process string
	Answers string // JSON list of {question, response}
	File    *Upload
}

// Upload is the optional file part of a submission.
type Upload struct {
	Name    string
	Content io.Reader
}

// Ack acknowledges a stored submission.
type Ack struct {
	Message  string  `json:"message"`
	Count    int     `json:"count"`
	FilePath *string `json:"filePath"`
	FileName *string `json:"fileName"`
}

// Service validates submissions and writes them to the archive.
type Service struct {
	store  *archive.Store
	blobs  *blobstore.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store *archive.Store, blobs *blobstore.Store, logger *zap.Logger) *Service {
	return &Service{store: store, blobs: blobs, logger: logger, now: time.Now}
}

// ParseAnswers decodes the answers field. It must be a JSON list.
func ParseAnswers(raw string) ([]checklist.Answer, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.Validation("Missing process or responses.")
	}
	var answers []checklist.Answer
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, apperrors.Validation("Invalid responses format: expected a JSON list of {question, response}.")
	}
	if answers == nil {
		// a literal null decodes without error
		return nil, apperrors.Validation("Responses must be a list.")
	}
	return answers, nil
}

// Submit validates req, stores the file if any, and inserts one record
// per answer. Validation happens before the file touches disk; a failed
// insert removes the file again. A file is only accepted together with at
// least one answer, so every stored file is referenced by a record.
func (s *Service) Submit(ctx context.Context, req Request) (*Ack, error) {
	process := strings.TrimSpace(req.Process)
	answers, err := ParseAnswers(req.Answers)
	if err != nil {
		return nil, err
	}
	if process == "" {
		return nil, apperrors.Validation("Missing process or responses.")
	}
	if req.File != nil && len(answers) == 0 {
		// no row would point at the file
		return nil, apperrors.Validation("A file needs at least one response.")
	}

	var (
		filePath *string
		fileName *string
		blob     *blobstore.Blob
	)
	if req.File != nil {
		blob, err = s.blobs.Save(req.File.Name, req.File.Content)
		if err != nil {
			return nil, apperrors.Store("save upload", err)
		}
		filePath, fileName = &blob.Path, &blob.Name
		s.logger.Info("file uploaded", zap.String("name", blob.Name), zap.Int64("size", blob.Size))
	}

	records, err := s.store.InsertBatch(ctx, process, answers, filePath, s.now().UTC())
	if err != nil {
		if blob != nil {
			if rmErr := s.blobs.Remove(blob.Name); rmErr != nil {
				s.logger.Warn("failed to remove orphaned upload", zap.String("name", blob.Name), zap.Error(rmErr))
			}
		}
		return nil, err
	}

	s.logger.Info("responses saved",
		zap.String("process", process),
		zap.Int("count", len(records)),
		zap.Bool("with_file", blob != nil))

	return &Ack{
		Message:  "Responses saved successfully.",
		Count:    len(records),
		FilePath: filePath,
		FileName: fileName,
	}, nil
}
