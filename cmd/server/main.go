package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/media-share/backend/internal/assets"
	"github.com/anonto42/media-share/backend/internal/metrics"
	"github.com/anonto42/media-share/backend/internal/repositories"
	"github.com/anonto42/media-share/backend/internal/router"
	"github.com/anonto42/media-share/backend/pkg/config"
	"github.com/anonto42/media-share/backend/pkg/logger"
	"github.com/anonto42/media-share/backend/pkg/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(os.Stdout, cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	shutdownTracing, err := telemetry.InitTracing(ctx, telemetry.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
	})
	if err != nil {
		return err
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(c); err != nil {
			log.Error("tracer shutdown", "error", err)
		}
	}()

	// Initialize stores
	var (
		posts    repositories.PostRepository
		comments repositories.CommentRepository
	)
	switch cfg.StorageType {
	case config.StorageTypePostgres:
		db, err := config.InitDB(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.CloseDB()

		if err := repositories.Migrate(db.Postgres); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		posts = repositories.NewPostgresPostRepository(db.Postgres)
		comments = repositories.NewPostgresCommentRepository(db.Postgres)
	default:
		memPosts := repositories.NewMemoryPostRepository()
		posts = memPosts
		comments = repositories.NewMemoryCommentRepository(memPosts)
		log.Warn("using in-memory storage, data is lost on restart")
	}

	deps := router.Dependencies{
		Posts:               posts,
		Comments:            comments,
		Metrics:             metrics.New(),
		Logger:              log,
		AllowedOrigins:      cfg.AllowedOrigins,
		MaxUploadSize:       cfg.MaxUploadSize,
		CommentTransactions: cfg.CommentTransactions,
	}

	// Initialize asset sink
	switch cfg.AssetSink {
	case config.AssetSinkS3:
		sink, err := assets.NewS3Sink(assets.S3Config{
			Endpoint:   cfg.S3.Endpoint,
			AccessKey:  cfg.S3.AccessKey,
			SecretKey:  cfg.S3.SecretKey,
			Bucket:     cfg.S3.Bucket,
			UseSSL:     cfg.S3.UseSSL,
			Region:     cfg.S3.Region,
			MaxRetries: cfg.S3.MaxRetries,
			PublicURL:  cfg.S3.PublicURL,
		})
		if err != nil {
			return err
		}
		if err := sink.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("s3 ensure bucket: %w", err)
		}
		deps.Sink = sink
	default:
		sink, err := assets.NewLocalSink(cfg.Local.Dir, cfg.Local.URLPrefix)
		if err != nil {
			return err
		}
		deps.Sink = sink
		deps.StaticDir = sink.Dir()
		deps.StaticPrefix = sink.URLPrefix()
	}

	e := router.New(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(e, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr, "storage", cfg.StorageType, "sink", cfg.AssetSink)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
