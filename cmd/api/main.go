package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ticketgraph/internal/config"
	"ticketgraph/internal/database"
	"ticketgraph/internal/repository/neo4jstore"
	"ticketgraph/internal/router"
	"ticketgraph/pkg/logger"
)

func main() {
	// config + logger
	cfg := config.Load()
	l := logger.New(cfg.Env)

	// store
	driver, err := database.Open(context.Background(), cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("neo4j connect failed")
	}
	defer driver.Close(context.Background())
	store := neo4jstore.New(driver, cfg.Neo4jDatabase)

	// http
	r, err := router.New(l, store, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("router setup failed")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Info().Msg("shutdown complete")
}
