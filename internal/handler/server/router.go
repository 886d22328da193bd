package server

import (
	"net/http"

	"github.com/bagdasarian/task-lists/internal/handler"
)

func SetupRoutes(mux *http.ServeMux, h *handler.Handler) {
	mux.HandleFunc("GET /tools", h.ListTools)
	mux.HandleFunc("POST /tools/{name}", h.ExecuteTool)
}
