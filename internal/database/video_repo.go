package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kdimtricp/vlabel/internal/models"
)

var ErrNotFound = errors.New("not found")

type VideoRepository struct {
	db *DB
}

func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) InsertVideo(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (id, filename, stored_name, content_type, size, duration, upload_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.conn.ExecContext(ctx, query,
		video.ID,
		video.Filename,
		video.StoredName,
		video.ContentType,
		video.Size,
		video.Duration,
		video.UploadTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	return nil
}

func (r *VideoRepository) UpdateDuration(ctx context.Context, id string, duration float64) error {
	res, err := r.db.conn.ExecContext(ctx, `UPDATE videos SET duration = ? WHERE id = ?`, duration, id)
	if err != nil {
		return fmt.Errorf("failed to update duration: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("video %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *VideoRepository) GetVideoByID(ctx context.Context, id string) (*models.Video, error) {
	query := `
		SELECT id, filename, stored_name, content_type, size, duration, upload_time
		FROM videos
		WHERE id = ?`

	var video models.Video
	err := r.db.conn.QueryRowContext(ctx, query, id).Scan(
		&video.ID,
		&video.Filename,
		&video.StoredName,
		&video.ContentType,
		&video.Size,
		&video.Duration,
		&video.UploadTime,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("video %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &video, nil
}

func (r *VideoRepository) ListVideos(ctx context.Context) ([]models.Video, error) {
	query := `
		SELECT id, filename, stored_name, content_type, size, duration, upload_time
		FROM videos
		ORDER BY upload_time DESC`

	rows, err := r.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		var video models.Video
		if err := rows.Scan(
			&video.ID,
			&video.Filename,
			&video.StoredName,
			&video.ContentType,
			&video.Size,
			&video.Duration,
			&video.UploadTime,
		); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}
