package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/formcheck"
	"github.com/aretw0/formcheck/internal/logging"
	"github.com/aretw0/formcheck/pkg/codec"
	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/aretw0/formcheck/pkg/validate"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SchemasURI lists the stored schema names.
const SchemasURI = "formcheck://schemas"

// ValidationResponse mirrors the JSON form of a validation result.
type ValidationResponse struct {
	Success bool                     `json:"success" jsonschema_description:"True when the value satisfies the schema"`
	Errors  []schema.ValidationError `json:"errors,omitempty" jsonschema_description:"Every failure found, in traversal order"`
}

func newResponse(res schema.Result) ValidationResponse {
	return ValidationResponse{Success: res.Valid(), Errors: res.Errors}
}

// Validator defines what the MCP server needs from formcheck.
type Validator interface {
	Validate(ctx context.Context, s schema.Schema, value any) schema.Result
	ValidateAtPath(ctx context.Context, s schema.Schema, value any, path []string) (schema.Result, error)
	ValidateNamed(ctx context.Context, name string, value any, path ...string) (schema.Result, error)
	ListSchemas(ctx context.Context) ([]string, error)
}

var _ Validator = (*formcheck.Validator)(nil)

// Server exposes a Validator as an MCP server.
type Server struct {
	validator Validator
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(v Validator, opts ...Option) *Server {
	s := &Server{
		validator: v,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("formcheck-mcp", strings.TrimSpace(formcheck.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: validate
	validateTool := mcp.NewTool("validate",
		mcp.WithDescription("Validate a JSON value against a JSON schema document and report every failure."),
		mcp.WithString("schema", mcp.Required(), mcp.Description("Schema document as JSON text")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Value to check as JSON text")),
		mcp.WithOutputSchema[ValidationResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: validate_at_path
	atPathTool := mcp.NewTool("validate_at_path",
		mcp.WithDescription("Validate only the field found at a path inside the schema and value."),
		mcp.WithString("schema", mcp.Required(), mcp.Description("Schema document as JSON text")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Value to check as JSON text")),
		mcp.WithString("path", mcp.Required(), mcp.Description(`JSON array of field names, e.g. ["address","zip"]`)),
		mcp.WithOutputSchema[ValidationResponse](),
	)
	s.mcpServer.AddTool(atPathTool, mcp.NewStructuredToolHandler(s.handleValidateAtPath))

	// TOOL: validate_named
	namedTool := mcp.NewTool("validate_named",
		mcp.WithDescription("Validate a JSON value against a stored schema."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Stored schema name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Value to check as JSON text")),
		mcp.WithString("path", mcp.Description("JSON array of field names (optional)")),
		mcp.WithOutputSchema[ValidationResponse](),
	)
	s.mcpServer.AddTool(namedTool, mcp.NewStructuredToolHandler(s.handleValidateNamed))

	// TOOL: list_schemas
	s.mcpServer.AddTool(mcp.NewTool("list_schemas",
		mcp.WithDescription("List the names of the stored schemas."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := s.schemaNames(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidationResponse, error) {
	sch, value, failure := decodeArgs(args, true)
	if failure != nil {
		return *failure, nil
	}
	return newResponse(s.validator.Validate(ctx, sch, value)), nil
}

func (s *Server) handleValidateAtPath(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidationResponse, error) {
	sch, value, failure := decodeArgs(args, true)
	if failure != nil {
		return *failure, nil
	}
	path, failure := decodePathArg(args)
	if failure != nil {
		return *failure, nil
	}
	res, err := s.validator.ValidateAtPath(ctx, sch, value, path)
	if err != nil {
		s.logger.Debug("MCP ValidateAtPath: path rejected", "path", path, "error", err)
	}
	return newResponse(res), nil
}

func (s *Server) handleValidateNamed(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidationResponse, error) {
	name, _ := args["name"].(string)
	_, value, failure := decodeArgs(args, false)
	if failure != nil {
		return *failure, nil
	}
	path, failure := decodePathArg(args)
	if failure != nil {
		return *failure, nil
	}

	res, err := s.validator.ValidateNamed(ctx, name, value, path...)
	switch {
	case err == nil, errors.Is(err, validate.ErrInvalidPath):
		return newResponse(res), nil
	case errors.Is(err, ports.ErrSchemaNotFound):
		return ValidationResponse{}, fmt.Errorf("schema %q not found", name)
	default:
		s.logger.Error("MCP ValidateNamed failed", "schema", name, "error", err)
		return ValidationResponse{}, fmt.Errorf("validate %q: %w", name, err)
	}
}

// decodeArgs reads the JSON text arguments. Malformed input is reported
// as a parse_error response rather than a tool failure.
func decodeArgs(args map[string]interface{}, withSchema bool) (schema.Schema, any, *ValidationResponse) {
	var sch schema.Schema
	if withSchema {
		raw, _ := args["schema"].(string)
		var err error
		sch, err = codec.DecodeSchema([]byte(raw))
		if err != nil {
			return nil, nil, parseFailure("Invalid schema JSON: " + err.Error())
		}
	}
	raw, _ := args["value"].(string)
	value, err := codec.DecodeValue([]byte(raw))
	if err != nil {
		return nil, nil, parseFailure("Invalid value JSON: " + err.Error())
	}
	return sch, value, nil
}

func decodePathArg(args map[string]interface{}) ([]string, *ValidationResponse) {
	raw, _ := args["path"].(string)
	if raw == "" {
		return nil, nil
	}
	path, err := codec.DecodePath([]byte(raw))
	if err != nil {
		return nil, parseFailure("Invalid path JSON: " + err.Error())
	}
	return path, nil
}

func parseFailure(msg string) *ValidationResponse {
	resp := newResponse(codec.ParseFailure(msg))
	return &resp
}

func (s *Server) schemaNames(ctx context.Context) ([]byte, error) {
	names, err := s.validator.ListSchemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

func (s *Server) registerResources() {
	// EXPOSE: formcheck://schemas
	s.mcpServer.AddResource(mcp.NewResource(SchemasURI, "Stored Schemas",
		mcp.WithMIMEType("application/json"),
	), s.handleSchemasResource)
}

func (s *Server) handleSchemasResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := s.schemaNames(ctx)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SchemasURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
