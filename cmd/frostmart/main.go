package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"frostmart/internal/api"
	"frostmart/internal/config"
	"frostmart/internal/session"
	"frostmart/internal/tui"
	"frostmart/internal/uploader"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config.yaml")
	flag.Parse()

	// .env is optional; real env vars still win inside config.Load.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := setupLogger(cfg.LogLevel)

	sessions, err := session.NewStore(cfg.TokenPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session store")
	}

	client := api.NewClient(cfg.APIBaseURL, sessions, cfg.RequestTimeout)

	var uploads *uploader.Uploader
	if cfg.UploadURL != "" {
		uploads, err = uploader.New(cfg.UploadURL, cfg.UploadPreset)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure image uploads")
		}
	}

	app := tui.New(cfg, client, sessions, uploads, logger)
	if err := app.Run(); err != nil {
		log.Fatal().Err(err).Msg("UI error")
	}
}

func setupLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	// The terminal belongs to the UI; logs go to stderr for redirection.
	logger := zerolog.New(os.Stderr).Level(parsed).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
