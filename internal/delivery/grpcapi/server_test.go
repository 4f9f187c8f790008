package grpcapi

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T) (*Server, healthpb.HealthClient) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return srv, healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("check %q: %v", service, err)
	}
	return resp.GetStatus()
}

func TestHealthReportsComponents(t *testing.T) {
	srv, client := startServer(t)

	for _, component := range []string{"", ComponentMarketplace, ComponentChainSync} {
		if got := check(t, client, component); got != healthpb.HealthCheckResponse_SERVING {
			t.Errorf("%q = %v, want SERVING", component, got)
		}
	}

	srv.SetServing(ComponentChainSync, false)
	if got := check(t, client, ComponentChainSync); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("chain-sync = %v, want NOT_SERVING", got)
	}
	if got := check(t, client, ""); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("overall = %v, want SERVING", got)
	}
}

func TestHealthUnknownService(t *testing.T) {
	_, client := startServer(t)
	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("code = %v, want NotFound", status.Code(err))
	}
}

func TestToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want codes.Code
	}{
		{domain.ErrInvalidAmount, codes.InvalidArgument},
		{fmt.Errorf("wrap: %w", domain.ErrProjectNotFound), codes.NotFound},
		{domain.ErrDuplicateInvestment, codes.AlreadyExists},
		{domain.ErrInvalidTransition, codes.FailedPrecondition},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{fmt.Errorf("boom"), codes.Internal},
		{status.Error(codes.Unauthenticated, "x"), codes.Unauthenticated},
	}
	for _, tc := range cases {
		if got := status.Code(ToStatus(tc.err)); got != tc.want {
			t.Errorf("ToStatus(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
	if ToStatus(nil) != nil {
		t.Error("nil error must stay nil")
	}
}
