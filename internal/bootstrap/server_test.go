package bootstrap

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/travelquery/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{Address: "127.0.0.1:0"},
		GRPC: config.GRPCConfig{Address: "127.0.0.1:0"},
	}
}

func TestNewServers_ProviderHealth(t *testing.T) {
	tests := []struct {
		name       string
		configured bool
		want       healthpb.HealthCheckResponse_ServingStatus
	}{
		{"configured", true, healthpb.HealthCheckResponse_SERVING},
		{"not configured", false, healthpb.HealthCheckResponse_NOT_SERVING},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServers(testConfig(), http.NotFoundHandler(), tt.configured)

			resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ProviderService})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.GetStatus())

			resp, err = s.health.Check(context.Background(), &healthpb.HealthCheckRequest{})
			require.NoError(t, err)
			assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
		})
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- Run(ctx, testConfig(), http.NotFoundHandler(), true, nil) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	cfg := testConfig()
	cfg.GRPC.Address = "256.0.0.1:99999"

	err := Run(context.Background(), cfg, http.NotFoundHandler(), true, nil)

	assert.Error(t, err)
}
