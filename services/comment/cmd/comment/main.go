package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/urfave/cli/v2"

	pkgconfig "github.com/Skotchmaster/blog/pkg/config"
	pkgdb "github.com/Skotchmaster/blog/pkg/db"
	"github.com/Skotchmaster/blog/pkg/events"
	"github.com/Skotchmaster/blog/pkg/ids"
	"github.com/Skotchmaster/blog/pkg/logging"
	loggingmw "github.com/Skotchmaster/blog/pkg/middleware/logging"

	"github.com/Skotchmaster/blog/services/comment/internal/httpserver"
	"github.com/Skotchmaster/blog/services/comment/internal/repo"
	"github.com/Skotchmaster/blog/services/comment/internal/service"
)

const serviceName = "comment"

var envFileFlag = &cli.StringFlag{
	Name:  "env-file",
	Usage: "dotenv file loaded before reading the environment",
	Value: "services/comment/.env",
}

func main() {
	app := &cli.App{
		Name:  "comment",
		Usage: "blog comment service",
		Flags: []cli.Flag{envFileFlag},
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the HTTP server", Action: serve},
			{Name: "migrate", Usage: "apply pending schema migrations", Action: migrate},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) (*pkgconfig.Config, *slog.Logger, *repo.SQLRepo, error) {
	cfg, err := pkgconfig.Load(c.String(envFileFlag.Name), serviceName)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := logging.NewWithFile(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, nil, err
	}
	logger = logger.With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()
	db, err := pkgdb.OpenSQLX(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("db open: %w", err)
	}

	node, err := ids.NewNode(cfg.SnowflakeNode)
	if err != nil {
		return nil, nil, nil, err
	}

	rp := &repo.SQLRepo{DB: db, IDs: node}
	if err := rp.Migrate(c.Context, logger); err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, rp, nil
}

func migrate(c *cli.Context) error {
	_, logger, rp, err := setup(c)
	if err != nil {
		return err
	}
	defer rp.DB.Close()
	logger.Info("migrations_applied")
	return nil
}

func serve(c *cli.Context) error {
	cfg, logger, rp, err := setup(c)
	if err != nil {
		return err
	}
	defer rp.DB.Close()

	publisher, closePublisher := events.New(cfg.KafkaBrokers, logger)
	defer closePublisher()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		CommentHandler: &httpserver.CommentHTTP{Svc: &service.CommentService{Repo: rp, Events: publisher}},
	})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info("comment service stopped")
	return nil
}
