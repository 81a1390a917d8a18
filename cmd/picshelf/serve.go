package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/picshelf/picshelf"
	"github.com/picshelf/picshelf/config"
	"github.com/picshelf/picshelf/database"
	picshelfhttp "github.com/picshelf/picshelf/http"
	"github.com/picshelf/picshelf/objectstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the picshelf HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 5000, "HTTP server port")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	repo, closeDB, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()

	slog.Info("connected to database", "type", cfg.Database.Type)

	store, files, closeStore, err := buildObjectStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	issuer, err := picshelf.NewTokenIssuer(picshelf.TokenConfig{
		Secret:    cfg.Auth.JWTSecret,
		Algorithm: cfg.Auth.JWTAlgorithm,
		TTL:       time.Duration(cfg.Auth.TokenTTL) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create token issuer: %w", err)
	}

	gallery := picshelf.NewGalleryService(repo, store, picshelf.ServiceConfig{
		CleanupTimeout: time.Duration(cfg.Service.CleanupTimeout) * time.Second,
	})
	auth := picshelf.NewAuthService(repo, issuer)

	handlerConfig := picshelfhttp.HandlerConfig{
		MaxUploadSize: cfg.Server.MaxUploadSize,
		CORS:          cfg.CORS,
		Files:         files,
	}

	handler := picshelfhttp.NewHandler(&handlerConfig, gallery, auth)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr, "storage", cfg.Storage.Type)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// buildObjectStore creates the configured storage backend. The returned
// http.Handler is non-nil only for filesystem storage, where the server has to
// serve the stored objects itself.
func buildObjectStore(ctx context.Context, cfg *config.Config) (picshelf.ObjectStore, http.Handler, func(), error) {
	switch cfg.Storage.Type {
	case "s3":
		store, err := objectstore.NewS3Store(ctx, cfg.Storage.S3)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create s3 store: %w", err)
		}
		return store, nil, func() {}, nil

	case "filesystem":
		path := cfg.Storage.Filesystem.Path
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, nil, nil, fmt.Errorf("create storage directory: %w", err)
		}

		root, err := os.OpenRoot(path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open storage root: %w", err)
		}

		baseURL := cfg.Storage.Filesystem.PublicBaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d/files", cfg.Server.Port)
		}

		store := objectstore.NewFileStore(root, baseURL)
		files := http.FileServerFS(root.FS())
		closeStore := func() { _ = root.Close() }

		return store, files, closeStore, nil

	default:
		return nil, nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}
