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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v2"

	"github.com/Skotchmaster/blog/gateway/internal/config"
	"github.com/Skotchmaster/blog/gateway/internal/httpserver"
	"github.com/Skotchmaster/blog/pkg/authclient"
	pkgdb "github.com/Skotchmaster/blog/pkg/db"
	"github.com/Skotchmaster/blog/pkg/ledger"
	"github.com/Skotchmaster/blog/pkg/logging"
	authmw "github.com/Skotchmaster/blog/pkg/middleware/auth"
	"github.com/Skotchmaster/blog/pkg/tokens"
)

func main() {
	app := &cli.App{
		Name:  "gateway",
		Usage: "blog API gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "dotenv file", Value: "gateway/.env"},
			&cli.StringFlag{Name: "config", Usage: "YAML route table", EnvVars: []string{"GATEWAY_CONFIG"}},
		},
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the gateway", Action: serve},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	if f := c.String("env-file"); f != "" {
		if err := godotenv.Load(f); err != nil {
			log.Printf("warning: could not load %s: %v", f, err)
		}
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	logger, err := logging.NewWithFile(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	logger = logger.With("service", "gateway")
	slog.SetDefault(logger)

	codec, err := tokens.NewCodec(cfg.Tokens())
	if err != nil {
		return err
	}

	bearer := authmw.Config{Codec: codec}
	var ready func() error
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
		db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		// read-only: the gateway never writes to the ledger
		bearer.Ledger = ledger.New(db, nil)
		ready = func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		}
	} else if cfg.LedgerURL != "" {
		bearer.Ledger = authclient.NewClient(cfg.LedgerURL)
		logger.Info("ledger_remote", "url", cfg.LedgerURL)
	} else {
		logger.Warn("ledger_disabled", "reason", "neither DATABASE_URL nor LEDGER_URL is set, revocation is not checked")
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	if err := httpserver.Register(e, &httpserver.Deps{
		Routes:        cfg.Routes,
		Bearer:        authmw.RequireBearer(bearer),
		AuthRateLimit: cfg.AuthRateLimit,
		AuthRateBurst: cfg.AuthRateBurst,
		Logger:        logger,
		Ready:         ready,
	}); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr, "routes", len(cfg.Routes))
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("start: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
