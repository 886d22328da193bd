package handler

import "github.com/bagdasarian/task-lists/internal/tool"

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ToolDescriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema tool.Schema `json:"input_schema"`
}

type ListToolsResponse struct {
	Tools []ToolDescriptor `json:"tools"`
	Count int              `json:"count"`
}
