// Package server exposes a bundle engine over gRPC.
package server

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	resberror "github.com/msto63/resb/foundation/core/error"
	"github.com/msto63/resb/pkg/bundle"
	"github.com/msto63/resb/pkg/core/cache"
	coreGrpc "github.com/msto63/resb/pkg/core/grpc"
	"github.com/msto63/resb/pkg/core/health"
	"github.com/msto63/resb/pkg/core/logging"
	"github.com/msto63/resb/pkg/core/version"
	"github.com/msto63/resb/pkg/resource"
)

// Server serves ResourceService for one bundle engine
type Server struct {
	engine    *bundle.Engine
	grpc      *coreGrpc.Server
	health    *health.Registry
	grpcHlth  *grpchealth.Server
	lookups   *cache.Cache[string, *structpb.Struct]
	logger    *logging.Logger
	config    Config
	startTime time.Time
}

// Config holds server configuration
type Config struct {
	GRPC     coreGrpc.ServerConfig
	// CacheTTL of zero disables the Get response cache
	CacheTTL time.Duration
	// Checks are added to the health registry
	Checks   []health.Checker
	Logger   *logging.Logger
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		GRPC:     coreGrpc.DefaultServerConfig(),
		CacheTTL: time.Minute,
	}
}

// New creates a server for engine and registers ResourceService and the
// standard gRPC health service
func New(engine *bundle.Engine, cfg Config) (*Server, error) {
	if engine == nil {
		return nil, resberror.New("engine is required").
			WithCode(resberror.CodeServiceInitialization).
			WithOperation("server.New")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("resb-server")
	}

	s := &Server{
		engine:    engine,
		grpc:      coreGrpc.NewServer(cfg.GRPC),
		health:    health.NewRegistry("resb", version.Version),
		grpcHlth:  grpchealth.NewServer(),
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}
	if cfg.CacheTTL > 0 {
		cacheCfg := cache.DefaultConfig()
		cacheCfg.TTL = cfg.CacheTTL
		s.lookups = cache.New[string, *structpb.Struct](cacheCfg)
	}

	s.health.Register(health.AlwaysHealthy("service"))
	for _, c := range cfg.Checks {
		s.health.Register(c)
	}

	RegisterResourceServer(s.grpc.GRPCServer(), s)
	healthpb.RegisterHealthServer(s.grpc.GRPCServer(), s.grpcHlth)

	return s, nil
}

// Get implements ResourceServer.Get
func (s *Server) Get(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeRequest(in)
	if err != nil {
		return nil, err
	}
	if s.lookups == nil {
		return s.lookup(req)
	}
	return s.lookups.GetOrSet(lookupKey(req), func() (*structpb.Struct, error) {
		return s.lookup(req)
	})
}

func (s *Server) lookup(req request) (*structpb.Struct, error) {
	n, err := s.open(req)
	if err != nil {
		return nil, err
	}
	n, err = n.GetPath(req.Path...)
	if err != nil {
		return nil, err
	}
	return encodeNode(n)
}

// Keys implements ResourceServer.Keys
func (s *Server) Keys(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeRequest(in)
	if err != nil {
		return nil, err
	}
	n, err := s.open(req)
	if err != nil {
		return nil, err
	}
	n, err = n.GetPath(req.Path...)
	if err != nil {
		return nil, err
	}

	keys := n.KeySet()
	values := make([]*structpb.Value, len(keys))
	for i, k := range keys {
		values[i] = structpb.NewStringValue(k)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldLocale: structpb.NewStringValue(n.LocaleID()),
		fieldKeys:   structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}, nil
}

// Backend implements ResourceServer.Backend
func (s *Server) Backend(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeRequest(in)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldBaseName: structpb.NewStringValue(req.BaseName),
		fieldBackend:  structpb.NewStringValue(s.engine.Backend(req.BaseName).String()),
	}}, nil
}

func (s *Server) open(req request) (*resource.Node, error) {
	switch {
	case req.Locale == "":
		return s.engine.OpenDefault(req.BaseName)
	case req.Direct:
		return s.engine.OpenDirect(req.BaseName, req.Locale)
	default:
		return s.engine.Open(req.BaseName, req.Locale)
	}
}

func lookupKey(req request) string {
	return strings.Join(append([]string{req.BaseName, req.Locale, strconv.FormatBool(req.Direct)}, req.Path...), "\x00")
}

// Reset drops cached bundles and lookups so changed files are read again
func (s *Server) Reset() {
	s.engine.Reset()
	if s.lookups != nil {
		s.lookups.Clear()
	}
	s.logger.Info("Bundle caches reset")
}

// RefreshHealth runs the health checks and publishes the result to the gRPC
// health service
func (s *Server) RefreshHealth(ctx context.Context) *health.Report {
	report := s.health.Check(ctx)

	st := healthpb.HealthCheckResponse_NOT_SERVING
	if report.Status.Serving() {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.grpcHlth.SetServingStatus("", st)
	s.grpcHlth.SetServingStatus(ServiceName, st)

	if report.Status != health.StatusHealthy {
		for _, c := range report.Checks {
			if c.Status != health.StatusHealthy {
				s.logger.Warn("Health check failing", "check", c.Name, "status", string(c.Status), "message", c.Message)
			}
		}
	}
	return report
}

// MonitorHealth refreshes health every interval until ctx is done
func (s *Server) MonitorHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RefreshHealth(ctx)
		}
	}
}

// Start listens on the configured address and serves until stopped
func (s *Server) Start() error {
	s.RefreshHealth(context.Background())
	s.logger.Info("Starting resb server", "host", s.config.GRPC.Host, "port", s.config.GRPC.Port)
	return s.grpc.Start()
}

// Serve serves on an existing listener
func (s *Server) Serve(listener net.Listener) error {
	s.RefreshHealth(context.Background())
	s.logger.Info("Serving resb", "address", listener.Addr().String())
	return s.grpc.Serve(listener)
}

// Stop stops the server, forcing it down when ctx expires first
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Stopping resb server", "uptime", time.Since(s.startTime).String())
	s.grpcHlth.Shutdown()
	s.grpc.StopWithTimeout(ctx)
	if s.lookups != nil {
		s.lookups.Close()
	}
}

// Address returns the address the server listens on
func (s *Server) Address() string {
	return s.grpc.Address()
}

// GRPCServer returns the underlying gRPC server
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpc.GRPCServer()
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}
