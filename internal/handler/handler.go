package handler

import "github.com/bagdasarian/task-lists/internal/tool"

type Handler struct {
	registry *tool.Registry
}

func NewHandler(registry *tool.Registry) *Handler {
	return &Handler{registry: registry}
}
