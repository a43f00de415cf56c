package archive

import (
	"context"
	"time"

	"checklist/internal/apperrors"
	"checklist/internal/checklist"
	"checklist/internal/models"

	"gorm.io/gorm"
)

// Store is the append-only table of answered questions.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// InsertBatch writes one record per answer, all sharing filePath and
// timestamp, in a single transaction: either every row lands or none.
func (s *Store) InsertBatch(ctx context.Context, process string, answers []checklist.Answer, filePath *string, timestamp time.Time) ([]models.ResponseRecord, error) {
	records := make([]models.ResponseRecord, 0, len(answers))
	for _, a := range answers {
		records = append(records, models.ResponseRecord{
			Process:   process,
			Question:  a.Question,
			Response:  a.Response,
			FilePath:  filePath,
			Timestamp: timestamp,
		})
	}
	if len(records) == 0 {
		return records, nil
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
	if err != nil {
		return nil, apperrors.Store("insert responses", err)
	}
	return records, nil
}

// ListAll returns every record in insertion order.
func (s *Store) ListAll(ctx context.Context) ([]models.ResponseRecord, error) {
	records, err := gorm.G[models.ResponseRecord](s.DB).Order("id").Find(ctx)
	if err != nil {
		return nil, apperrors.Store("list responses", err)
	}
	if records == nil {
		records = []models.ResponseRecord{}
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := gorm.G[models.ResponseRecord](s.DB).Count(ctx, "id")
	if err != nil {
		return 0, apperrors.Store("count responses", err)
	}
	return n, nil
}

// ReferencedPaths is the set of file paths at least one record points at.
func (s *Store) ReferencedPaths(ctx context.Context) (map[string]struct{}, error) {
	var paths []string
	err := s.DB.WithContext(ctx).
		Model(&models.ResponseRecord{}).
		Where("file_path IS NOT NULL").
		Distinct().
		Pluck("file_path", &paths).Error
	if err != nil {
		return nil, apperrors.Store("list referenced files", err)
	}

	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set, nil
}
