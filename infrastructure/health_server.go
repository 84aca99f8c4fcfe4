package infrastructure

import (
	"fmt"
	"net"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer exposes the standard gRPC health service for orchestrator health checks
type HealthServer struct {
	server *grpc.Server
	health *health.Server
}

// NewHealthServer creates a health server reporting NOT_SERVING until marked ready
func NewHealthServer() *HealthServer {
	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, h)

	return &HealthServer{server: s, health: h}
}

// Start listens on addr and serves in the background
func (h *HealthServer) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	go func() {
		if err := h.server.Serve(lis); err != nil {
			log.WithError(err).Error("Health server stopped")
		}
	}()

	log.WithField("addr", addr).Info("gRPC health server started")
	return nil
}

// SetServing marks the service ready or not ready
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
}

// Stop marks the service down and stops the server
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
