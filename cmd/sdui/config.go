package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const envPrefix = "SDUI_"

// config holds defaults read from SDUI_* variables. Flags override them.
type config struct {
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"10"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`

	SchemaDir    string `env:"SCHEMA_DIR" envDefault:"schemas"`
	TemplatesDir string `env:"TEMPLATES_DIR"`
	Addr         string `env:"ADDR" envDefault:":8080"`
	SearchURL    string `env:"SEARCH_URL"`
	SearchBase   string `env:"SEARCH_BASE"`
	ReadOnly     bool   `env:"READ_ONLY"`
}

// loadConfig reads the SDUI_* environment. A nil environ reads the process
// environment.
func loadConfig(environ map[string]string) (config, error) {
	var cfg config
	opts := env.Options{Prefix: envPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the CLI logger. Output goes to stderr and, when LogFile is
// set, to a size-rotated file.
func newLogger(cfg config, stderr io.Writer) (*logrus.Logger, func() error, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("config: log level: %w", err)
	}
	logger.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, nil, fmt.Errorf("config: unknown log format %q", cfg.LogFormat)
	}

	closer := func() error { return nil }
	output := stderr
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("config: log dir: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
		}
		output = io.MultiWriter(stderr, file)
		closer = file.Close
	}
	logger.SetOutput(output)
	return logger, closer, nil
}
