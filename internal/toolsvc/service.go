// Package toolsvc runs symexpr tool calls for the network front ends,
// adding response caching, metrics and logging around a ToolHandler.
package toolsvc

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/njchilds90/symexpr"
	"github.com/njchilds90/symexpr/internal/cache"
	"github.com/njchilds90/symexpr/internal/logging"
	"github.com/njchilds90/symexpr/internal/metrics"
)

type Service struct {
	kind    string
	handler symexpr.ToolHandler
	store   cache.Store
	metrics *metrics.Recorder
	logger  *slog.Logger
}

type Option func(*Service)

// WithCache enables response caching.
func WithCache(store cache.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithMetrics records every call on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = rec
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a Service over the built-in capability named kind.
func New(kind string, opts ...Option) (*Service, error) {
	handler, err := symexpr.NewToolHandler(kind)
	if err != nil {
		return nil, err
	}
	return NewWithHandler(kind, handler, opts...), nil
}

// NewWithHandler wraps an existing handler. kind namespaces cache keys.
func NewWithHandler(kind string, handler symexpr.ToolHandler, opts ...Option) *Service {
	s := &Service{
		kind:    kind,
		handler: handler,
		store:   cache.Nop{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Kind() string { return s.kind }

// Call executes req. Cache failures are logged and otherwise ignored.
func (s *Service) Call(ctx context.Context, req symexpr.ToolRequest) symexpr.ToolResponse {
	start := time.Now()

	key, err := cache.Key(s.kind, req.Tool, req.Params)
	if err != nil {
		s.logger.Warn("cache key failed", "tool", req.Tool, "error", err)
		key = ""
	}
	if key != "" {
		if resp, ok := s.lookup(ctx, key); ok {
			if s.metrics != nil {
				s.metrics.CacheHit()
			}
			s.observe(req.Tool, resp, start, true)
			return resp
		}
	}

	resp := s.handler.HandleToolCall(req)
	if key != "" && resp.Error == "" {
		s.save(ctx, key, resp)
	}
	s.observe(req.Tool, resp, start, false)
	return resp
}

func (s *Service) lookup(ctx context.Context, key string) (symexpr.ToolResponse, bool) {
	var resp symexpr.ToolResponse
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", "error", err)
		return resp, false
	}
	if !ok {
		return resp, false
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		s.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return resp, false
	}
	return resp, true
}

func (s *Service) save(ctx context.Context, key string, resp symexpr.ToolResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("cache encode failed", "error", err)
		return
	}
	if err := s.store.Set(ctx, key, data); err != nil {
		s.logger.Warn("cache write failed", "error", err)
	}
}

func (s *Service) observe(tool string, resp symexpr.ToolResponse, start time.Time, cached bool) {
	elapsed := time.Since(start)
	outcome := metrics.OutcomeOK
	if resp.Error != "" {
		outcome = metrics.OutcomeError
	}
	if s.metrics != nil {
		s.metrics.ObserveCall(tool, outcome, elapsed)
	}
	if resp.Error != "" {
		s.logger.Info("tool call failed", "tool", tool, "kind", s.kind, "error", resp.Error, "duration", elapsed)
		return
	}
	s.logger.Debug("tool call", "tool", tool, "kind", s.kind, "cached", cached, "duration", elapsed)
}
