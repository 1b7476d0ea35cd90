package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kdimtricp/vlabel/internal/annotation"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)
	r.Get("/videos", app.ListVideosHandler)
	r.Get("/exports", app.ListExportsHandler)

	r.Post("/sessions", app.CreateSessionHandler)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", app.GetSessionHandler)
		r.Delete("/", app.CloseSessionHandler)
		r.Get("/events", app.EventsHandler)

		r.Post("/video", app.UploadVideoHandler)
		r.Get("/video", app.StreamVideoHandler)
		r.Post("/metadata", app.MetadataHandler)
		r.Post("/decode-error", app.mutate(withBody(decodeErrorMutation)))

		r.Post("/time", app.mutate(withBody(syncTimeMutation)))
		r.Post("/seek", app.mutate(withBody(seekMutation)))
		r.Post("/step", app.mutate(withBody(stepMutation)))
		r.Post("/keys", app.mutate(withBody(keyMutation)))

		r.Put("/frame-rate", app.mutate(withBody(frameRateMutation)))
		r.Post("/frame-rate/blur", app.mutate(plain(unit((*annotation.Session).BlurFrameRate))))
		r.Put("/frame-interval", app.mutate(withBody(frameIntervalMutation)))
		r.Post("/frame-interval/blur", app.mutate(plain(unit((*annotation.Session).BlurFrameInterval))))

		r.Put("/draft", app.mutate(withBody(draftMutation)))
		r.Post("/draft/start", app.mutate(plain(unit((*annotation.Session).MarkStart))))
		r.Post("/draft/end", app.mutate(plain((*annotation.Session).MarkEnd)))

		r.Post("/intervals", app.mutate(withBody(commitMutation)))
		r.Patch("/intervals/{index}", app.mutate(withIndex(updateIntervalMutation)))
		r.Delete("/intervals/{index}", app.mutate(withIndex(removeIntervalMutation)))
		r.Post("/page/next", app.mutate(plain(unit((*annotation.Session).NextPage))))
		r.Post("/page/prev", app.mutate(plain(unit((*annotation.Session).PrevPage))))

		r.Post("/zoom/in", app.mutate(plain(unit((*annotation.Session).ZoomIn))))
		r.Post("/zoom/out", app.mutate(plain(unit((*annotation.Session).ZoomOut))))
		r.Post("/zoom/reset", app.mutate(plain(unit((*annotation.Session).ResetZoom))))
		r.Post("/zoom/wheel", app.mutate(withBody(wheelMutation)))
		r.Post("/drag/begin", app.mutate(withBody(beginDragMutation)))
		r.Post("/drag/move", app.mutate(withBody(dragMutation)))
		r.Post("/drag/end", app.mutate(plain(unit((*annotation.Session).EndDrag))))

		r.Get("/export", app.ExportHandler)
		r.Post("/import", app.ImportHandler)
	})

	return r
}
