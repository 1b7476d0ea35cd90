package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	StoredName  string    `json:"-"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Duration    float64   `json:"duration"`
	UploadTime  time.Time `json:"uploadTime"`
}

func NewVideo(filename, storedName, contentType string, size int64) *Video {
	return &Video{
		ID:          uuid.New().String(),
		Filename:    filename,
		StoredName:  storedName,
		ContentType: contentType,
		Size:        size,
		UploadTime:  time.Now(),
	}
}
