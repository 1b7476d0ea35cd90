package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kdimtricp/vlabel/internal/annotation"
)

type Config struct {
	Port          string `yaml:"port"`
	UploadDir     string `yaml:"upload_dir"`
	DBPath        string `yaml:"db_path"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
	FFprobePath   string `yaml:"ffprobe_path"`

	FrameRate            float64 `yaml:"frame_rate"`
	FrameIntervalMS      int     `yaml:"frame_interval_ms"`
	AutoMarkEndOnRelease bool    `yaml:"auto_mark_end_on_release"`
}

func Default() *Config {
	return &Config{
		Port:                 "8080",
		UploadDir:            "./uploads",
		DBPath:               "./vlabel.db",
		MaxUploadSize:        2 << 30,
		FrameRate:            annotation.DefaultFrameRate,
		FrameIntervalMS:      int(annotation.DefaultFrameInterval / time.Millisecond),
		AutoMarkEndOnRelease: true,
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file in the working directory and the process environment,
// later sources overriding earlier ones.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[CONFIG] Ignoring .env: %v", err)
		}
	} else {
		log.Println("[CONFIG] Loaded environment variables from .env file")
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		c.UploadDir = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("FFPROBE_PATH"); v != "" {
		c.FFprobePath = v
	}
	if v := os.Getenv("MAX_UPLOAD_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_SIZE: %w", err)
		}
		c.MaxUploadSize = n
	}
	if v := os.Getenv("DEFAULT_FRAME_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid DEFAULT_FRAME_RATE: %w", err)
		}
		c.FrameRate = f
	}
	if v := os.Getenv("FRAME_INTERVAL_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FRAME_INTERVAL_MS: %w", err)
		}
		c.FrameIntervalMS = n
	}
	if v := os.Getenv("AUTO_MARK_END_ON_RELEASE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AUTO_MARK_END_ON_RELEASE: %w", err)
		}
		c.AutoMarkEndOnRelease = b
	}
	return nil
}

func (c *Config) Validate() error {
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadSize)
	}
	if c.FrameRate < annotation.MinFrameRate {
		return fmt.Errorf("frame rate must be >= %v, got %v", annotation.MinFrameRate, c.FrameRate)
	}
	if time.Duration(c.FrameIntervalMS)*time.Millisecond < annotation.MinFrameInterval {
		return fmt.Errorf("frame interval must be >= %v, got %dms", annotation.MinFrameInterval, c.FrameIntervalMS)
	}
	return nil
}

// SessionOptions are the starting values of every new labeling session.
func (c *Config) SessionOptions() annotation.Options {
	return annotation.Options{
		FrameRate:            c.FrameRate,
		FrameInterval:        time.Duration(c.FrameIntervalMS) * time.Millisecond,
		AutoMarkEndOnRelease: c.AutoMarkEndOnRelease,
	}
}
