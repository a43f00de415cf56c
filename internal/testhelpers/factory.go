package testhelpers

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"checklist/internal/db"
	"checklist/internal/models"

	g "github.com/onsi/gomega"
	"gorm.io/gorm"
)

// NewTestDB opens a migrated sqlite database in dir.
func NewTestDB(dir string) *gorm.DB {
	conn, err := db.InitDB(filepath.Join(dir, "responses_test.db"))
	g.Expect(err).NotTo(g.HaveOccurred())
	return conn
}

func CleanupDB(db *gorm.DB) {
	if db.Dialector.Name() == "postgres" {
		cleanupPostgres(db)
		return
	}

	var tables []string
	err := db.Raw("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'").Scan(&tables).Error
	g.Expect(err).NotTo(g.HaveOccurred())

	for _, table := range tables {
		err := db.Exec(fmt.Sprintf("DELETE FROM \"%s\"", table)).Error
		g.Expect(err).NotTo(g.HaveOccurred(), "Failed to clear table: "+table)
	}
	// reset AUTOINCREMENT counters; the table only exists once one was used
	var sequences int64
	db.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'").Scan(&sequences)
	if sequences > 0 {
		g.Expect(db.Exec("DELETE FROM sqlite_sequence").Error).NotTo(g.HaveOccurred())
	}
}

func cleanupPostgres(db *gorm.DB) {
	var tables []string

	err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error
	g.Expect(err).NotTo(g.HaveOccurred())

	for _, table := range tables {
		if table == "schema_migrations" {
			continue
		}

		query := fmt.Sprintf("TRUNCATE TABLE \"%s\" RESTART IDENTITY CASCADE", table)
		err := db.Exec(query).Error
		g.Expect(err).NotTo(g.HaveOccurred(), "Failed to truncate table: "+table)
	}
}

// CreateRecord inserts a record, filling a timestamp when missing.
func CreateRecord(dbConn *gorm.DB, record *models.ResponseRecord) *models.ResponseRecord {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if record.Process == "" {
		record.Process = "onboarding"
	}

	result := gorm.WithResult()
	g.Expect(gorm.G[models.ResponseRecord](dbConn, result).Create(context.Background(), record)).To(g.Succeed())
	g.Expect(result.RowsAffected).To(g.Equal(int64(1)))
	return record
}
