// Package labeling hosts annotation sessions for the HTTP layer: it stores
// uploaded videos, probes their duration, and packages exports.
package labeling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kdimtricp/vlabel/internal/annotation"
	"github.com/kdimtricp/vlabel/internal/database"
	"github.com/kdimtricp/vlabel/internal/export"
	"github.com/kdimtricp/vlabel/internal/media"
	"github.com/kdimtricp/vlabel/internal/models"
	"github.com/kdimtricp/vlabel/internal/storage"
)

const probeTimeout = 30 * time.Second

var ErrWorkspaceNotFound = errors.New("session not found")

type Service struct {
	storage    storage.Storage
	videoRepo  *database.VideoRepository
	exportRepo *database.ExportRepository
	prober     media.DurationProber
	options    annotation.Options

	ctx    context.Context
	cancel context.CancelFunc

	workspaces   map[string]*Workspace
	workspacesMu sync.RWMutex
	probes       sync.WaitGroup
}

// NewService wires the session host. prober may be nil, in which case the
// duration comes only from the player's metadata report.
func NewService(
	storageService storage.Storage,
	videoRepo *database.VideoRepository,
	exportRepo *database.ExportRepository,
	prober media.DurationProber,
	options annotation.Options,
) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		storage:    storageService,
		videoRepo:  videoRepo,
		exportRepo: exportRepo,
		prober:     prober,
		options:    options,
		ctx:        ctx,
		cancel:     cancel,
		workspaces: make(map[string]*Workspace),
	}
}

func (s *Service) CreateWorkspace() *Workspace {
	ws := newWorkspace(s.ctx, uuid.New().String(), s.options)

	s.workspacesMu.Lock()
	s.workspaces[ws.ID] = ws
	s.workspacesMu.Unlock()

	log.Printf("[SESSION] Created session %s", ws.ID)
	return ws
}

func (s *Service) GetWorkspace(id string) (*Workspace, error) {
	s.workspacesMu.RLock()
	defer s.workspacesMu.RUnlock()

	ws, ok := s.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
	}
	return ws, nil
}

func (s *Service) CloseWorkspace(id string) error {
	s.workspacesMu.Lock()
	ws, ok := s.workspaces[id]
	delete(s.workspaces, id)
	s.workspacesMu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
	}
	ws.Close()
	log.Printf("[SESSION] Closed session %s", id)
	return nil
}

// LoadVideo stores the upload, catalogs it and starts a fresh labeling pass
// over it in ws. Non-video uploads are rejected before anything is written.
func (s *Service) LoadVideo(ctx context.Context, ws *Workspace, r io.Reader, info storage.FileInfo) (annotation.Snapshot, error) {
	if !strings.HasPrefix(info.ContentType, "video/") {
		return ws.Snapshot(), fmt.Errorf("%w: %s", annotation.ErrNotVideo, info.ContentType)
	}

	storedName, err := s.storage.SaveFile(r, info)
	if err != nil {
		return ws.Snapshot(), fmt.Errorf("saving upload: %w", err)
	}

	video := models.NewVideo(info.Filename, storedName, info.ContentType, info.Size)
	if err := s.videoRepo.InsertVideo(ctx, video); err != nil {
		if delErr := s.storage.DeleteFile(storedName); delErr != nil {
			log.Printf("[SESSION] Failed to remove %s after catalog error: %v", storedName, delErr)
		}
		return ws.Snapshot(), err
	}

	snap, err := ws.Do(func(sess *annotation.Session) error {
		return sess.LoadVideo(annotation.VideoInfo{
			ID:          video.ID,
			Filename:    video.Filename,
			ContentType: video.ContentType,
		})
	})
	if err != nil {
		return snap, err
	}
	log.Printf("[SESSION] Session %s loaded video %s (%s, %d bytes)", ws.ID, video.ID, video.Filename, video.Size)

	if s.prober != nil {
		s.probes.Add(1)
		go s.probeDuration(ws, video)
	}
	return snap, nil
}

// probeDuration fills in the duration unless the player reported one first
// or the session has moved on to another video.
func (s *Service) probeDuration(ws *Workspace, video *models.Video) {
	defer s.probes.Done()

	ctx, cancel := context.WithTimeout(s.ctx, probeTimeout)
	defer cancel()

	path, err := s.storage.Path(video.StoredName)
	if err != nil {
		log.Printf("[PROBE] Video %s: %v", video.ID, err)
		return
	}
	duration, err := s.prober.Duration(ctx, path)
	if err != nil {
		log.Printf("[PROBE] Video %s: %v", video.ID, err)
		return
	}

	applied := false
	_, err = ws.Do(func(sess *annotation.Session) error {
		if v, ok := sess.Video(); !ok || v.ID != video.ID || sess.Duration() > 0 {
			return nil
		}
		applied = true
		return sess.SetDuration(duration)
	})
	if err != nil {
		log.Printf("[PROBE] Video %s: %v", video.ID, err)
		return
	}
	if !applied {
		return
	}
	if err := s.videoRepo.UpdateDuration(ctx, video.ID, duration); err != nil {
		log.Printf("[PROBE] Video %s: %v", video.ID, err)
	}
	log.Printf("[PROBE] Video %s: duration %.2fs", video.ID, duration)
}

// ReportDuration applies the duration read by the player once the video
// metadata is available.
func (s *Service) ReportDuration(ctx context.Context, ws *Workspace, seconds float64) (annotation.Snapshot, error) {
	var videoID string
	snap, err := ws.Do(func(sess *annotation.Session) error {
		v, ok := sess.Video()
		if !ok {
			return annotation.ErrNoVideo
		}
		videoID = v.ID
		return sess.SetDuration(seconds)
	})
	if err != nil {
		return snap, err
	}
	if err := s.videoRepo.UpdateDuration(ctx, videoID, seconds); err != nil {
		log.Printf("[SESSION] Session %s: %v", ws.ID, err)
	}
	return snap, nil
}

// OpenVideo opens the file currently loaded in ws.
func (s *Service) OpenVideo(ctx context.Context, ws *Workspace) (storage.File, *models.Video, error) {
	var info annotation.VideoInfo
	var ok bool
	ws.View(func(sess *annotation.Session) { info, ok = sess.Video() })
	if !ok {
		return nil, nil, annotation.ErrNoVideo
	}

	video, err := s.videoRepo.GetVideoByID(ctx, info.ID)
	if err != nil {
		return nil, nil, err
	}
	file, err := s.storage.OpenFile(video.StoredName)
	if err != nil {
		return nil, nil, err
	}
	return file, video, nil
}

// Export packages the session's intervals and records the export.
func (s *Service) Export(ctx context.Context, ws *Workspace) (*export.Bundle, error) {
	var intervals []annotation.Interval
	var base, videoID string
	ws.View(func(sess *annotation.Session) {
		intervals = sess.Intervals()
		if v, ok := sess.Video(); ok {
			base = v.BaseName()
			videoID = v.ID
		}
	})

	bundle, err := export.Archive(intervals, base)
	if err != nil {
		return nil, err
	}

	if err := s.exportRepo.Create(ctx, models.NewExport(videoID, bundle.ArchiveName, len(intervals))); err != nil {
		log.Printf("[SESSION] Session %s: %v", ws.ID, err)
	}
	log.Printf("[SESSION] Session %s exported %d interval(s) as %s", ws.ID, len(intervals), bundle.ArchiveName)
	return bundle, nil
}

// Import replaces the session's intervals with those of a previously
// exported archive.
func (s *Service) Import(ws *Workspace, r io.ReaderAt, size int64) (annotation.Snapshot, error) {
	records, err := export.ReadArchive(r, size)
	if err != nil {
		return ws.Snapshot(), err
	}
	intervals, err := export.Intervals(records)
	if err != nil {
		return ws.Snapshot(), err
	}
	return ws.Do(func(sess *annotation.Session) error {
		if _, ok := sess.Video(); !ok {
			return annotation.ErrNoVideo
		}
		return sess.RestoreIntervals(intervals)
	})
}

func (s *Service) ListVideos(ctx context.Context) ([]models.Video, error) {
	return s.videoRepo.ListVideos(ctx)
}

func (s *Service) ListExports(ctx context.Context, videoID string) ([]models.Export, error) {
	return s.exportRepo.List(ctx, videoID)
}

// Close stops every scrub task and pending probe.
func (s *Service) Close() {
	s.cancel()

	s.workspacesMu.Lock()
	for id, ws := range s.workspaces {
		ws.Close()
		delete(s.workspaces, id)
	}
	s.workspacesMu.Unlock()

	s.probes.Wait()
}
