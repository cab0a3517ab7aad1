package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	clientDir := flag.String("client", "./client", "static client directory")
	configPath := flag.String("config", "config.yaml", "config file path")
	publicURL := flag.String("public-url", "", "public URL encoded in the join QR code")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	var log *zap.Logger
	var err error
	if *debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	game := NewGame(cfg, log)
	hub := NewHub(game, log)

	go game.Run()
	go hub.Run()

	server := NewServer(hub, log, *clientDir, *publicURL)
	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: mux,
	}

	go func() {
		log.Info("listening", zap.String("addr", *addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	game.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
}
