package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"checklist/internal/archive"
	"checklist/internal/blobstore"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskProcessor holds dependencies for our task handlers
type TaskProcessor struct {
	store  *archive.Store
	blobs  *blobstore.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewTaskProcessor creates a new TaskProcessor
func NewTaskProcessor(db *gorm.DB, blobs *blobstore.Store, logger *zap.Logger) *TaskProcessor {
	return &TaskProcessor{
		store:  archive.NewStore(db),
		blobs:  blobs,
		logger: logger,
		now:    time.Now,
	}
}

// HandleSweepBlobsTask removes uploads that no record points at once they
// are older than the grace period. Young blobs are left alone: their
// submission may still be inserting.
func (p *TaskProcessor) HandleSweepBlobsTask(ctx context.Context, t *asynq.Task) error {
	var payload SweepBlobsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}
	if payload.GraceMinutes < 0 {
		return fmt.Errorf("negative grace period: %w", asynq.SkipRetry)
	}

	referenced, err := p.store.ReferencedPaths(ctx)
	if err != nil {
		return err
	}
	blobs, err := p.blobs.List()
	if err != nil {
		return err
	}

	// records may carry a relative or absolute spelling of the upload dir
	names := make(map[string]struct{}, len(referenced))
	for path := range referenced {
		names[filepath.Base(path)] = struct{}{}
	}

	cutoff := p.now().Add(-time.Duration(payload.GraceMinutes) * time.Minute)
	removed := 0
	for _, b := range blobs {
		if _, ok := names[b.Name]; ok {
			continue
		}
		if b.ModTime.After(cutoff) {
			continue
		}
		if err := p.blobs.Remove(b.Name); err != nil {
			p.logger.Warn("failed to remove orphaned upload", zap.String("name", b.Name), zap.Error(err))
			continue
		}
		removed++
		p.logger.Info("removed orphaned upload", zap.String("name", b.Name))
	}

	p.logger.Info("blob sweep finished", zap.Int("scanned", len(blobs)), zap.Int("removed", removed))
	return nil
}
