package database

import (
	"context"
	"fmt"

	"github.com/kdimtricp/vlabel/internal/models"
)

type ExportRepository struct {
	db *DB
}

func NewExportRepository(db *DB) *ExportRepository {
	return &ExportRepository{db: db}
}

func (r *ExportRepository) Create(ctx context.Context, export *models.Export) error {
	query := `
		INSERT INTO exports (id, video_id, archive_name, interval_count, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.conn.ExecContext(ctx, query,
		export.ID,
		export.VideoID,
		export.ArchiveName,
		export.IntervalCount,
		export.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return nil
}

// List returns exports newest first. An empty videoID lists every export.
func (r *ExportRepository) List(ctx context.Context, videoID string) ([]models.Export, error) {
	query := `
		SELECT id, video_id, archive_name, interval_count, created_at
		FROM exports`
	args := []interface{}{}
	if videoID != "" {
		query += ` WHERE video_id = ?`
		args = append(args, videoID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	exports := []models.Export{}
	for rows.Next() {
		var e models.Export
		if err := rows.Scan(&e.ID, &e.VideoID, &e.ArchiveName, &e.IntervalCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}
