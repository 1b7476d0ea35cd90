package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kdimtricp/vlabel/internal/api"
	"github.com/kdimtricp/vlabel/internal/config"
	"github.com/kdimtricp/vlabel/internal/database"
	"github.com/kdimtricp/vlabel/internal/labeling"
	"github.com/kdimtricp/vlabel/internal/media"
	"github.com/kdimtricp/vlabel/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	localStorage, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

	db, err := database.NewDB(database.Config{SQLitePath: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	var prober media.DurationProber
	if ffprobe, err := media.NewFFProbe(cfg.FFprobePath); err != nil {
		log.Printf("Warning: duration probing disabled: %v", err)
	} else {
		prober = ffprobe
	}

	service := labeling.NewService(
		localStorage,
		database.NewVideoRepository(db),
		database.NewExportRepository(db),
		prober,
		cfg.SessionOptions(),
	)

	app := &api.App{
		Labeling:      service,
		MaxUploadSize: cfg.MaxUploadSize,
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Upload directory: %s", cfg.UploadDir)
	log.Printf("Database path: %s", cfg.DBPath)
	log.Printf("Max upload size: %d bytes", cfg.MaxUploadSize)
	log.Printf("Session defaults: %.2f fps, %dms frame interval, auto mark end on release: %t",
		cfg.FrameRate, cfg.FrameIntervalMS, cfg.AutoMarkEndOnRelease)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down...")
		// Open event streams only end once their sessions are closed.
		service.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
