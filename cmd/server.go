package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	app "attendance-capture/internal"
	"attendance-capture/internal/assetcache"
	"attendance-capture/internal/config"
	"attendance-capture/internal/email"
	"attendance-capture/internal/fieldstore"
	"attendance-capture/internal/install"
	"attendance-capture/internal/nonce"
	"attendance-capture/internal/notify"
	"attendance-capture/internal/pipeline"
	"attendance-capture/internal/relay"
	"attendance-capture/internal/storage"
	"attendance-capture/internal/upload"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the attendance capture server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		fmt.Println("Starting attendance capture server...")
		ServerMain(ctx, provider)
	},
}

// Initialize logger
func initLogger(cfg *config.Config) *slog.Logger {
	// Determine level from config and set it on the handler options.
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		println("Invalid log level in config, defaulting to INFO")
	}
	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	slog.Debug("Logger initialized", "level", level.String())
	return logger
}

// loadAssetCache prepares the versioned asset cache from the manifest.
// A missing manifest just disables the cache.
func loadAssetCache(ctx context.Context, cfg *config.Config, storageProvider storage.Provider) *assetcache.Cache {
	manifest, err := assetcache.LoadManifest(cfg.Cache.ManifestFile)
	if err != nil {
		slog.Warn("Asset cache disabled", "error", err, "file", cfg.Cache.ManifestFile)
		return nil
	}

	cache := assetcache.New(storageProvider, manifest, &cfg.Cache)
	if err := cache.Install(ctx); err != nil {
		slog.Warn("Asset cache install failed, serving stale generations if any", "error", err)
		return cache
	}
	if err := cache.Activate(ctx); err != nil {
		slog.Warn("Asset cache activate failed", "error", err)
	}
	return cache
}

func ServerMain(ctx context.Context, storageProvider storage.Provider) {

	if config.Cfg == nil {
		panic("Config not initialized.")
	}

	// Use the provider passed from cobra command (already initialized)
	if storageProvider == nil {
		slog.Error("Storage provider is nil")
		os.Exit(1)
	}

	nonce.InitNonceStore(config.Cfg, storageProvider)

	fields, err := fieldstore.NewStore(config.Cfg, storageProvider)
	if err != nil {
		slog.Error("Failed to initialize field store", "error", err)
		os.Exit(1)
	}

	board := notify.NewBoard(time.Duration(config.Cfg.NoticeWindow) * time.Second)

	p := pipeline.New(
		fields,
		upload.NewClient(&config.Cfg.Upload),
		relay.NewClient(&config.Cfg.Relay),
		board,
	).WithRecords(storageProvider)

	if config.Cfg.Email.Host != "" {
		p = p.WithReceipts(email.NewClient(config.Cfg.Email))
	}

	svc := &app.Services{
		Fields:    fields,
		Pipeline:  p,
		Board:     board,
		Installer: install.NewInstaller(),
		Cache:     loadAssetCache(ctx, config.Cfg, storageProvider),
	}

	server := app.HTTPServer(svc)

	server.Run()
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
