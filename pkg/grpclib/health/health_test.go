package health

import (
	"context"
	"net"
	"testing"

	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

const service = "flashsale.v1.Reservation"

func TestServer_StatusTransitions(t *testing.T) {
	h := NewServer(service, logger.NewNop())
	ctx := context.Background()

	status, err := h.Status(ctx, service)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)

	h.MarkServing()
	status, err = h.Status(ctx, service)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	status, err = h.Status(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	h.MarkNotServing()
	status, err = h.Status(ctx, service)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)

	_, err = h.Status(ctx, "unknown.Service")
	assert.Error(t, err)
}

func TestServer_ServesHealthOverGRPC(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	h := NewServer(service, logger.NewNop())
	h.MarkServing()

	go func() {
		_ = h.Serve(lis)
	}()
	defer h.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	res, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, res.GetStatus())
}
