package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bagdasarian/task-lists/internal/config"
	"github.com/bagdasarian/task-lists/internal/db"
	"github.com/bagdasarian/task-lists/internal/domain"
	"github.com/bagdasarian/task-lists/internal/mcpbridge"
	"github.com/bagdasarian/task-lists/internal/policy"
	"github.com/bagdasarian/task-lists/internal/repository/postgres"
	"github.com/bagdasarian/task-lists/internal/tool"
)

// Stdio-вариант сервера: инструменты те же, но сессия привязана
// к одному пользователю, заданному через окружение (MCP_USER_ID,
// MCP_USERNAME, MCP_TEAM_ID).
func main() {
	log.SetPrefix("[MCP] ")
	log.SetFlags(log.LstdFlags)

	cfg := config.Load()

	database := db.MustLoad(cfg)
	defer database.Close()

	boardRepo := postgres.NewBoardRepository(database)
	listRepo := postgres.NewListRepository(database)
	itemRepo := postgres.NewItemRepository(database)

	gate := policy.NewGate()
	registry := tool.NewDefaultRegistry(boardRepo, listRepo, itemRepo, gate)

	tc := contextFromEnv()
	server := mcpbridge.NewServer(registry, func() tool.Context { return tc })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Serving %d tools over stdio", len(registry.Tools()))
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func contextFromEnv() tool.Context {
	tc := tool.Context{}

	if userID, err := strconv.Atoi(os.Getenv("MCP_USER_ID")); err == nil {
		actor := &domain.Actor{
			ID:       userID,
			Username: os.Getenv("MCP_USERNAME"),
		}
		if teamID, err := strconv.Atoi(os.Getenv("MCP_TEAM_ID")); err == nil {
			actor.CurrentTeamID = &teamID
		}
		tc.Actor = actor
	}

	return tc
}
