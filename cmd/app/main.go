package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bagdasarian/task-lists/internal/config"
	"github.com/bagdasarian/task-lists/internal/db"
	"github.com/bagdasarian/task-lists/internal/handler"
	"github.com/bagdasarian/task-lists/internal/handler/server"
	"github.com/bagdasarian/task-lists/internal/policy"
	"github.com/bagdasarian/task-lists/internal/repository/postgres"
	"github.com/bagdasarian/task-lists/internal/tool"
)

func main() {
	cfg := config.Load()

	database := db.MustLoad(cfg)
	log.Println("Successfully connected to database!")
	defer database.Close()

	boardRepo := postgres.NewBoardRepository(database)
	listRepo := postgres.NewListRepository(database)
	itemRepo := postgres.NewItemRepository(database)

	gate := policy.NewGate()
	registry := tool.NewDefaultRegistry(boardRepo, listRepo, itemRepo, gate)
	log.Printf("Registered %d tools", len(registry.Tools()))

	h := handler.NewHandler(registry)
	srv := server.NewServer(h, cfg.Server.Addr)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
}
