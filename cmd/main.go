package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/proctorhub/room-service/config"
	"github.com/proctorhub/room-service/internal/fanout"
	"github.com/proctorhub/room-service/internal/logger"
	"github.com/proctorhub/room-service/internal/postgres"
	"github.com/proctorhub/room-service/internal/registry"
	"github.com/proctorhub/room-service/internal/service"
	httpx "github.com/proctorhub/room-service/internal/transport/http"
	"github.com/proctorhub/room-service/internal/transport/sse"
	"github.com/proctorhub/room-service/internal/transport/ws"
)

func main() {
	// --- config ---
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting room-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	pingEvery := cfg.PingEveryOr(15 * time.Second)
	sendTimeout := cfg.SendTimeoutOr(5 * time.Second)

	// --- registries & fan-out ---
	rooms := registry.NewRooms()
	logs := registry.NewLogs()
	table := fanout.NewTable()
	engine := fanout.NewEngine(table)

	// --- services ---
	roomSvc := service.NewRoomService(rooms, engine)
	memberSvc := service.NewMemberService(rooms, engine)
	logSvc := service.NewLogService(logs, engine)

	// --- optional archive (postgres) ---
	var archiveSvc *service.ArchiveService
	if cfg.Postgres.DSN != "" {
		ctx := context.Background()
		db, err := postgres.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer db.Close()

		archiveSvc = service.NewArchiveService(
			postgres.NewSubmissionRepository(db.Pool),
			postgres.NewPaperRepository(db.Pool),
		)
	} else {
		slog.Info("no postgres dsn, archive endpoints disabled")
	}

	// --- transports ---
	wsServer := ws.NewServer(table, rooms, pingEvery, sendTimeout)
	sseServer := sse.NewServer(table, rooms, pingEvery, sendTimeout)

	handler := httpx.NewHandler(roomSvc, memberSvc, logSvc, archiveSvc)
	router := httpx.NewRouter(handler, wsServer, sseServer)
	// No WriteTimeout: the event stream and websocket endpoints hold
	// their connections open indefinitely.
	httpSrv := &http.Server{
		Addr:        cfg.HTTP.Addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
