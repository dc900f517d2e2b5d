package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rezonsoft/pamiatki/internal/config"
)

// shutdownTimeout - время на корректную остановку сервера и пула.
const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	app, err := NewApp(rootCtx, cfg)
	if err != nil {
		log.Fatalf("pamiatki: startup failed: %v", err)
	}

	// Запуск сервера в отдельной горутине
	go func() {
		if err := app.Start(rootCtx); err != nil {
			log.Printf("pamiatki: server stopped: %v", err)
		}
	}()

	// Graceful shutdown по SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	rootCancel()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		log.Fatalf("pamiatki: shutdown failed: %v", err)
	}
}
