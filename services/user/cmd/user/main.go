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
	"gorm.io/gorm"

	pkgconfig "github.com/Skotchmaster/blog/pkg/config"
	pkgdb "github.com/Skotchmaster/blog/pkg/db"
	"github.com/Skotchmaster/blog/pkg/events"
	"github.com/Skotchmaster/blog/pkg/ids"
	"github.com/Skotchmaster/blog/pkg/ledger"
	"github.com/Skotchmaster/blog/pkg/logging"
	authmw "github.com/Skotchmaster/blog/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/blog/pkg/middleware/logging"
	"github.com/Skotchmaster/blog/pkg/tokens"

	"github.com/Skotchmaster/blog/services/user/internal/httpserver"
	"github.com/Skotchmaster/blog/services/user/internal/repo"
	"github.com/Skotchmaster/blog/services/user/internal/service"
)

const serviceName = "user"

var envFileFlag = &cli.StringFlag{
	Name:  "env-file",
	Usage: "dotenv file loaded before reading the environment",
	Value: "services/user/.env",
}

func main() {
	app := &cli.App{
		Name:  "user",
		Usage: "blog user and authentication service",
		Flags: []cli.Flag{envFileFlag},
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the HTTP server", Action: serve},
			{Name: "migrate", Usage: "create or update the users and tokens tables", Action: migrate},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type deps struct {
	cfg    *pkgconfig.Config
	logger *slog.Logger
	db     *gorm.DB
	repo   *repo.GormRepo
	ledger *ledger.GormLedger
}

func setup(c *cli.Context) (*deps, error) {
	cfg, err := pkgconfig.Load(c.String(envFileFlag.Name), serviceName)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewWithFile(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	logger = logger.With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	node, err := ids.NewNode(cfg.SnowflakeNode)
	if err != nil {
		return nil, err
	}

	return &deps{
		cfg:    cfg,
		logger: logger,
		db:     db,
		repo:   &repo.GormRepo{DB: db, IDs: node},
		ledger: ledger.New(db, node),
	}, nil
}

func (d *deps) migrate(ctx context.Context) error {
	if err := d.repo.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	if err := d.ledger.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate tokens: %w", err)
	}
	return nil
}

func migrate(c *cli.Context) error {
	d, err := setup(c)
	if err != nil {
		return err
	}
	if err := d.migrate(c.Context); err != nil {
		return err
	}
	d.logger.Info("migrations_applied")
	return nil
}

func serve(c *cli.Context) error {
	d, err := setup(c)
	if err != nil {
		return err
	}
	if err := d.migrate(c.Context); err != nil {
		return err
	}

	tokenCfg, err := d.cfg.Tokens()
	if err != nil {
		return err
	}
	codec, err := tokens.NewCodec(tokenCfg)
	if err != nil {
		return err
	}

	publisher, closePublisher := events.New(d.cfg.KafkaBrokers, d.logger)
	defer closePublisher()

	authSvc := &service.AuthService{
		Users:  d.repo,
		Ledger: d.ledger,
		Codec:  codec,
		Events: publisher,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(d.logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: authSvc},
		UserHandler: &httpserver.UserHTTP{Svc: &service.UserService{Repo: d.repo}},
		Bearer:      authmw.RequireBearer(authmw.Config{Codec: codec, Ledger: d.ledger}),
	})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := &service.ExpirySweeper{Ledger: d.ledger, Interval: d.cfg.LedgerSweepInterval, Logger: d.logger}
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:              d.cfg.ServerAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		d.logger.Info("listening", "addr", srv.Addr)
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

	if sqlDB, err := d.db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	d.logger.Info("user service stopped")
	return nil
}
