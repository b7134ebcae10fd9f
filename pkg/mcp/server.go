package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/stats"
	"github.com/macropower/leads/pkg/version"
)

// CustomerSource reads customers from the backend.
type CustomerSource interface {
	ListPage(ctx context.Context, page, limit int, f customer.Filters) (*customer.Page, error)
	GetCustomer(ctx context.Context, id int) (*customer.Customer, error)
}

// StatsLoader loads the dashboard statistics.
type StatsLoader interface {
	Load(ctx context.Context) *stats.Result
}

// Server implements the MCP server for leads.
type Server struct {
	source       CustomerSource
	stats        StatsLoader
	server       *mcp.Server
	tracer       trace.Tracer
	address      string
	defaultLimit int
}

// ServerOpt configures a [Server].
type ServerOpt func(s *Server)

// WithDefaultLimit sets the page size used when list_customers is called
// without a limit.
func WithDefaultLimit(limit int) ServerOpt {
	return func(s *Server) {
		if limit > 0 {
			s.defaultLimit = min(limit, maxLimit)
		}
	}
}

// NewServer creates a new MCP server instance. The stats loader may be nil,
// in which case dashboard_stats is not registered.
func NewServer(address string, source CustomerSource, loader StatsLoader, opts ...ServerOpt) (*Server, error) {
	if source == nil {
		return nil, errors.New("customer source is required")
	}

	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		address:      address,
		server:       mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		source:       source,
		stats:        loader,
		tracer:       otel.Tracer("mcp"),
		defaultLimit: 10,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_customers",
		Description: "List one page of customers, newest first. Use search, letter, or level to narrow the results.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"page": {
					Type:        "integer",
					Description: "The 1-based page number. Defaults to 1.",
				},
				"limit": {
					Type:        "integer",
					Description: fmt.Sprintf("The number of customers per page, at most %d.", maxLimit),
				},
				"search": {
					Type:        "string",
					Description: "Free text matched against name, email, and phone number.",
				},
				"letter": {
					Type:        "string",
					Description: "Only customers in this letter tier (A to J).",
					Enum:        toAny(customer.Letters),
				},
				"level": {
					Type:        "string",
					Description: "Only customers at this level (I to VI).",
					Enum:        toAny(customer.Levels),
				},
			},
		},
	}, WithTracing(s.tracer, s.handleListCustomers))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_customer",
		Description: "Get the full record of a single customer. You MUST use an id from a list_customers output.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"id": newCustomerIDSchema(),
			},
			Required: []string{"id"},
		},
	}, WithTracing(s.tracer, s.handleGetCustomer))

	if s.stats == nil {
		return
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dashboard_stats",
		Description: "Get aggregate statistics: total customers, new customers today, daily counts for the current week, and the distribution across letter and level tiers.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, WithTracing(s.tracer, s.handleDashboardStats))
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server. An empty address serves over stdio,
// otherwise the streamable HTTP transport is used.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve Stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.ErrorContext(ctx, "shut down MCP server", slog.Any("err", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)
	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
