package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bagdasarian/task-lists/internal/tool"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "task-lists"
	serverVersion = "0.1.0"
)

// NewServer оборачивает реестр инструментов в MCP-сервер: каждый
// инструмент публикуется под своим именем со своей схемой аргументов.
// getContext выдает контекст вызова (пользователь/команда) сессии.
func NewServer(registry *tool.Registry, getContext func() tool.Context) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	for _, t := range registry.Tools() {
		server.AddTool(&mcp.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: toJSONSchema(t.Schema()),
		}, toolHandler(registry, t.Name(), getContext))
	}

	return server
}

// toolHandler транслирует MCP-вызов в диспетчер реестра. Тегированные
// ошибки конверта становятся tool error (IsError), а не протокольным
// сбоем: клиент видит kind и сообщение.
func toolHandler(registry *tool.Registry, name string, getContext func() tool.Context) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if raw := req.Params.Arguments; len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("failed to decode arguments: %w", err)
			}
		}

		result := registry.Execute(ctx, name, args, getContext())
		if !result.OK {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{
					&mcp.TextContent{Text: fmt.Sprintf("%s: %s", result.ErrorKind, result.ErrorMessage)},
				},
			}, nil
		}

		payload, err := json.Marshal(result.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: string(payload)},
			},
			StructuredContent: result.Payload,
		}, nil
	}
}

// toJSONSchema переводит схему инструмента в формат SDK
func toJSONSchema(s tool.Schema) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:     s.Type,
		Required: s.Required,
	}
	if len(s.Properties) > 0 {
		schema.Properties = make(map[string]*jsonschema.Schema, len(s.Properties))
		for name, p := range s.Properties {
			schema.Properties[name] = propertySchema(p)
		}
	}
	return schema
}

func propertySchema(p tool.Property) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:        p.Type,
		Description: p.Description,
		Required:    p.Required,
	}
	if p.Items != nil {
		schema.Items = propertySchema(*p.Items)
	}
	if len(p.Properties) > 0 {
		schema.Properties = make(map[string]*jsonschema.Schema, len(p.Properties))
		for name, nested := range p.Properties {
			schema.Properties[name] = propertySchema(nested)
		}
	}
	return schema
}
