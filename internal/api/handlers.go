package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kdimtricp/vlabel/internal/annotation"
	"github.com/kdimtricp/vlabel/internal/database"
	"github.com/kdimtricp/vlabel/internal/labeling"
	"github.com/kdimtricp/vlabel/internal/storage"
)

// Extensions the platform MIME table usually lacks.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
}

// Multipart parts beyond this spill to temporary files. MaxUploadSize caps
// the body itself.
const maxMemory = 32 << 20

var errBadRequest = errors.New("bad request")

type App struct {
	Labeling      *labeling.Service
	MaxUploadSize int64
}

type errorResponse struct {
	Error    string               `json:"error"`
	Snapshot *annotation.Snapshot `json:"snapshot,omitempty"`
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// decodeJSON reads an optional JSON body. An empty body leaves v zeroed.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (app *App) renderError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusFor maps domain errors to HTTP statuses. Anything unrecognized is an
// infrastructure failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, labeling.ErrWorkspaceNotFound),
		errors.Is(err, database.ErrNotFound),
		errors.Is(err, storage.ErrInvalidPath):
		return http.StatusNotFound
	case errors.Is(err, annotation.ErrNotVideo),
		errors.Is(err, annotation.ErrNoVideo),
		errors.Is(err, annotation.ErrNoStartMark),
		errors.Is(err, annotation.ErrNotNumeric),
		errors.Is(err, annotation.ErrOutOfRange),
		errors.Is(err, annotation.ErrInverted),
		errors.Is(err, annotation.ErrUnknownBehavior),
		errors.Is(err, annotation.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (app *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		app.renderError(w, status, "internal error")
		return
	}
	app.renderError(w, status, err.Error())
}

// respond writes the post-action snapshot. A rejected action still carries
// the unchanged snapshot so the page can redraw alongside the message.
func (app *App) respond(w http.ResponseWriter, r *http.Request, snap annotation.Snapshot, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, snap)
		return
	}
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		app.fail(w, r, err)
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Snapshot: &snap})
}

func (app *App) workspace(w http.ResponseWriter, r *http.Request) (*labeling.Workspace, bool) {
	ws, err := app.Labeling.GetWorkspace(chi.URLParam(r, "id"))
	if err != nil {
		app.fail(w, r, err)
		return nil, false
	}
	return ws, true
}

func (app *App) ListVideosHandler(w http.ResponseWriter, r *http.Request) {
	videos, err := app.Labeling.ListVideos(r.Context())
	if err != nil {
		app.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

func (app *App) ListExportsHandler(w http.ResponseWriter, r *http.Request) {
	exports, err := app.Labeling.ListExports(r.Context(), r.URL.Query().Get("video_id"))
	if err != nil {
		app.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exports)
}

func (app *App) UploadVideoHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		app.renderError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		app.renderError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	snap, err := app.Labeling.LoadVideo(r.Context(), ws, file, storage.FileInfo{
		Filename:    header.Filename,
		ContentType: uploadContentType(header.Header.Get("Content-Type"), header.Filename),
		Size:        header.Size,
	})
	app.respond(w, r, snap, err)
}

// uploadContentType falls back to the file extension when the browser sent
// no specific type.
func uploadContentType(declared, filename string) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
		return mediaType
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
	}
	return "application/octet-stream"
}

func (app *App) StreamVideoHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}

	file, video, err := app.Labeling.OpenVideo(r.Context(), ws)
	if err != nil {
		app.fail(w, r, err)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		app.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", video.ContentType)
	// ServeContent answers Range requests with 206 Partial Content.
	http.ServeContent(w, r, video.Filename, stat.ModTime(), file)
}

func (app *App) ExportHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}

	bundle, err := app.Labeling.Export(r.Context(), ws)
	if err != nil {
		app.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": bundle.ArchiveName}))
	w.WriteHeader(http.StatusOK)
	w.Write(bundle.Data)
}

func (app *App) ImportHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := app.workspace(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		app.renderError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	file, header, err := r.FormFile("archive")
	if err != nil {
		app.renderError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	snap, err := app.Labeling.Import(ws, file, header.Size)
	if err != nil && statusFor(err) == http.StatusInternalServerError {
		// Everything Import reads is the uploaded archive itself.
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Snapshot: &snap})
		return
	}
	app.respond(w, r, snap, err)
}
