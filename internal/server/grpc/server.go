// Package grpc serves the standard grpc.health.v1.Health service so
// orchestrators can probe the process on a port separate from the REST API.
// The reported status follows the record store: SERVING while it answers
// pings, NOT_SERVING otherwise and for good once shutdown begins.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall ("") status.
const ServiceName = "recipebox.RecipeBox"

const (
	defaultProbeInterval = 10 * time.Second
	probeTimeout         = 2 * time.Second
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthServer struct {
	address       string
	probe         Pinger
	probeInterval time.Duration
	health        *health.Server
	logger        logging.Logger
}

// NewHealthServer returns a server for address. probe may be nil, in which
// case the status stays SERVING until shutdown.
func NewHealthServer(address string, probe Pinger, logger logging.Logger) *HealthServer {
	return &HealthServer{
		address:       address,
		probe:         probe,
		probeInterval: defaultProbeInterval,
		health:        health.NewServer(),
		logger:        logger.With("module", "grpc_health"),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *HealthServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is done, then marks every
// service NOT_SERVING and stops gracefully.
func (s *HealthServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.unaryInterceptor),
		grpc.ChainStreamInterceptor(s.streamInterceptor),
	)
	healthpb.RegisterHealthServer(srv, s.health)

	s.refresh(ctx)

	go func() {
		ticker := time.NewTicker(s.probeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Stopping gRPC health server...")
				s.health.Shutdown()
				srv.GracefulStop()
				return
			case <-ticker.C:
				s.refresh(ctx)
			}
		}
	}()

	s.logger.Info(ctx, "Starting gRPC health server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}

// refresh pings the probe and publishes the result.
func (s *HealthServer) refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.probe != nil {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := s.probe.Ping(pctx)
		cancel()
		if err != nil {
			s.logger.Warn(ctx, "health probe failed", "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
