package models

import (
	"time"

	"github.com/google/uuid"
)

// Export is one archive handed out for a session.
type Export struct {
	ID            string    `json:"id"`
	VideoID       string    `json:"videoId,omitempty"`
	ArchiveName   string    `json:"archiveName"`
	IntervalCount int       `json:"intervalCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewExport(videoID, archiveName string, intervalCount int) *Export {
	return &Export{
		ID:            uuid.New().String(),
		VideoID:       videoID,
		ArchiveName:   archiveName,
		IntervalCount: intervalCount,
		CreatedAt:     time.Now(),
	}
}
