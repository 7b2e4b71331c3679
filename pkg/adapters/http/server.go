package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/formcheck"
	"github.com/aretw0/formcheck/internal/logging"
	"github.com/aretw0/formcheck/pkg/codec"
	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/aretw0/formcheck/pkg/validate"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Validator defines the operations the HTTP API exposes.
// *formcheck.Validator implements it.
type Validator interface {
	Validate(ctx context.Context, s schema.Schema, value any) schema.Result
	ValidateAtPath(ctx context.Context, s schema.Schema, value any, path []string) (schema.Result, error)
	ValidateNamed(ctx context.Context, name string, value any, path ...string) (schema.Result, error)
	SaveSchema(ctx context.Context, name string, s schema.Schema) error
	LoadSchema(ctx context.Context, name string) (schema.Schema, error)
	DeleteSchema(ctx context.Context, name string) error
	ListSchemas(ctx context.Context) ([]string, error)
}

var _ Validator = (*formcheck.Validator)(nil)

// Server serves the validation API.
type Server struct {
	Validator Validator
	logger    *slog.Logger
	metrics   http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the validator.
func NewHandler(v Validator, opts ...Option) http.Handler {
	server := &Server{Validator: v, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Post("/validate", server.Validate)
	r.Post("/validate-at-path", server.ValidateAtPath)
	r.Get("/schemas", server.ListSchemas)
	r.Route("/schemas/{name}", func(r chi.Router) {
		r.Get("/", server.GetSchema)
		r.Put("/", server.PutSchema)
		r.Delete("/", server.DeleteSchema)
		r.Post("/validate", server.ValidateNamed)
	})
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return enableCORS(withRequestID(r))
}

type requestIDKey struct{}

// withRequestID keeps the client's X-Request-ID or generates one, and
// echoes it in the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the ID assigned to the request, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) log(r *http.Request) *slog.Logger {
	return s.logger.With("request_id", RequestID(r.Context()))
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type validateRequest struct {
	Schema json.RawMessage `json:"schema"`
	Value  json.RawMessage `json:"value"`
	Path   json.RawMessage `json:"path"`
}

// decodeRequest splits the envelope and decodes each member the way the
// codec does, so malformed members get the usual parse_error messages.
func decodeRequest(r *http.Request, withSchema, withPath bool) (schema.Schema, any, []string, *schema.Result) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		res := codec.ParseFailure("Invalid request body: " + err.Error())
		return nil, nil, nil, &res
	}
	var req validateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		res := codec.ParseFailure("Invalid request body: " + err.Error())
		return nil, nil, nil, &res
	}

	var s schema.Schema
	if withSchema {
		s, err = codec.DecodeSchema(req.Schema)
		if err != nil {
			res := codec.ParseFailure("Invalid schema JSON: " + err.Error())
			return nil, nil, nil, &res
		}
	}
	value, err := codec.DecodeValue(req.Value)
	if err != nil {
		res := codec.ParseFailure("Invalid value JSON: " + err.Error())
		return nil, nil, nil, &res
	}
	var path []string
	if withPath && len(req.Path) > 0 {
		path, err = codec.DecodePath(req.Path)
		if err != nil {
			res := codec.ParseFailure("Invalid path JSON: " + err.Error())
			return nil, nil, nil, &res
		}
	}
	return s, value, path, nil
}

// Validate handles the POST /validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	sch, value, _, failure := decodeRequest(r, true, false)
	if failure != nil {
		s.log(r).Warn("Validate: invalid request", "error", failure.Errors[0].Message)
		writeResult(w, http.StatusBadRequest, *failure, s.logger)
		return
	}
	writeResult(w, http.StatusOK, s.Validator.Validate(r.Context(), sch, value), s.logger)
}

// ValidateAtPath handles the POST /validate-at-path request.
func (s *Server) ValidateAtPath(w http.ResponseWriter, r *http.Request) {
	sch, value, path, failure := decodeRequest(r, true, true)
	if failure != nil {
		s.log(r).Warn("ValidateAtPath: invalid request", "error", failure.Errors[0].Message)
		writeResult(w, http.StatusBadRequest, *failure, s.logger)
		return
	}
	res, err := s.Validator.ValidateAtPath(r.Context(), sch, value, path)
	writeResult(w, statusFor(err), res, s.logger)
}

// ValidateNamed handles the POST /schemas/{name}/validate request.
func (s *Server) ValidateNamed(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	_, value, path, failure := decodeRequest(r, false, true)
	if failure != nil {
		writeResult(w, http.StatusBadRequest, *failure, s.logger)
		return
	}

	res, err := s.Validator.ValidateNamed(r.Context(), name, value, path...)
	switch {
	case errors.Is(err, ports.ErrSchemaNotFound):
		http.Error(w, "schema not found: "+name, http.StatusNotFound)
	case errors.Is(err, ports.ErrInvalidName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case err != nil && !errors.Is(err, validate.ErrInvalidPath):
		http.Error(w, "failed to load schema", http.StatusInternalServerError)
		s.log(r).Error("ValidateNamed failed", "schema", name, "error", err)
	default:
		writeResult(w, statusFor(err), res, s.logger)
	}
}

// ListSchemas handles the GET /schemas request.
func (s *Server) ListSchemas(w http.ResponseWriter, r *http.Request) {
	names, err := s.Validator.ListSchemas(r.Context())
	if err != nil {
		http.Error(w, "failed to list schemas", http.StatusInternalServerError)
		s.log(r).Error("ListSchemas failed", "error", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"schemas": names}, s.logger)
}

// GetSchema handles the GET /schemas/{name} request.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sch, err := s.Validator.LoadSchema(r.Context(), name)
	if err != nil {
		s.storeError(w, r, "GetSchema", name, err)
		return
	}
	writeJSON(w, http.StatusOK, sch, s.logger)
}

// PutSchema handles the PUT /schemas/{name} request.
func (s *Server) PutSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sch, err := codec.DecodeSchema(body)
	if err != nil {
		writeResult(w, http.StatusBadRequest, codec.ParseFailure("Invalid schema JSON: "+err.Error()), s.logger)
		return
	}
	if err := s.Validator.SaveSchema(r.Context(), name, sch); err != nil {
		s.storeError(w, r, "PutSchema", name, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSchema handles the DELETE /schemas/{name} request.
func (s *Server) DeleteSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Validator.DeleteSchema(r.Context(), name); err != nil {
		s.storeError(w, r, "DeleteSchema", name, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, op, name string, err error) {
	switch {
	case errors.Is(err, ports.ErrSchemaNotFound):
		http.Error(w, "schema not found: "+name, http.StatusNotFound)
	case errors.Is(err, ports.ErrInvalidName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "schema store failure", http.StatusInternalServerError)
		s.log(r).Error(op+" failed", "schema", name, "error", err)
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if spec, err := GetSpec(); err == nil && spec.Info != nil {
		apiVersion = spec.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "formcheck-http",
		"version":     strings.TrimSpace(formcheck.Version),
		"api_version": apiVersion,
	}, s.logger)
}

// statusFor maps a validation call error to its status: 422 for invalid
// paths, 200 otherwise.
func statusFor(err error) int {
	if errors.Is(err, validate.ErrInvalidPath) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func writeResult(w http.ResponseWriter, status int, res schema.Result, logger *slog.Logger) {
	writeJSON(w, status, res, logger)
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
