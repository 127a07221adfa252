package health

import (
	"context"
	"net"

	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"google.golang.org/grpc"

	healthgrpc "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps grpc health server
type Server struct {
	server      *healthgrpc.Server
	grpc        *grpc.Server
	serviceName string
	logger      logger.Interface
}

// NewServer creates a gRPC server exposing only the health service. Every service
// starts as NOT_SERVING until MarkServing is called.
func NewServer(serviceName string, log logger.Interface) *Server {
	h := &Server{
		server:      healthgrpc.NewServer(),
		grpc:        grpc.NewServer(),
		serviceName: serviceName,
		logger:      log,
	}
	h.server.SetServingStatus(serviceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(h.grpc, h.server)

	return h
}

// MarkServing sets the service and the overall server status to SERVING.
func (h *Server) MarkServing() {
	h.server.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.server.SetServingStatus(h.serviceName, healthpb.HealthCheckResponse_SERVING)
	h.logger.Info("gRPC health serving", logger.Field{
		Key:   "service",
		Value: h.serviceName,
	})
}

// MarkNotServing sets the service status to NOT_SERVING while keeping the server up.
func (h *Server) MarkNotServing() {
	h.server.SetServingStatus(h.serviceName, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Serve blocks accepting connections on lis until Stop is called.
func (h *Server) Serve(lis net.Listener) error {
	return h.grpc.Serve(lis)
}

// Stop sets all serving status to NOT_SERVING and drains in-flight calls.
func (h *Server) Stop() {
	h.server.Shutdown()
	h.grpc.GracefulStop()
}

// Status returns the current status of service.
func (h *Server) Status(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	res, err := h.server.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return res.GetStatus(), nil
}
