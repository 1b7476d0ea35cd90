package storage

import (
	"io"
	"io/fs"
)

type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

// Storage keeps uploaded video files. Names returned by SaveFile are opaque
// keys for the other methods.
type Storage interface {
	SaveFile(r io.Reader, info FileInfo) (string, error)
	OpenFile(name string) (File, error)
	Path(name string) (string, error)
	DeleteFile(name string) error
}

type File interface {
	io.ReadSeekCloser
	Stat() (fs.FileInfo, error)
}
