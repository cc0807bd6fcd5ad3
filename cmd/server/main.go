package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"legalserve/internal/booking"
	"legalserve/internal/common/logging"
	"legalserve/internal/config"
	"legalserve/internal/directory"
	"legalserve/internal/relay"
	"legalserve/internal/rest"
	"legalserve/internal/store"
	"legalserve/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	flag.Parse()

	cfg, err := config.LoadServer(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewLogger("legalserve", cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// State lives for the process lifetime: the in-memory store is
	// authoritative, the archive is a best-effort mirror.
	st := store.New()

	var archive store.Archive
	if cfg.Redis.Enabled() {
		redisArchive := store.NewRedisArchive(cfg.Redis)
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisArchive.Ping(pingCtx); err != nil {
			logger.Warn("redis archive unreachable, continuing without it",
				zap.String("addr", cfg.Redis.Addr),
				zap.Error(err),
			)
		} else {
			archive = redisArchive
			defer func() { _ = redisArchive.Close() }()
		}
		pingCancel()
	}

	dir := directory.New()
	rly := relay.New(dir, logger.Named("relay"))
	svc := booking.NewService(st, rly, archive, logger.Named("booking"))

	gate := ws.NewGate(logger.Named("ws"), svc, dir, cfg.WS)
	gate.Start(ctx)

	handler := rest.NewHandler(svc, logger.Named("rest"))
	router := rest.NewRouter(handler, gate, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve failed", zap.Error(err))
		}
	}()

	<-sigCh
	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}

	logger.Info("exited")
}
