package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

func newHealthClient(t *testing.T, lis *bufconn.Listener) healthpb.HealthClient {
	t.Helper()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func TestServer_ServesHTTPAndHealth(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := New(handler, Options{GRPCAddr: "bufnet", ShutdownTimeout: time.Second})

	httpLis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	grpcLis := bufconn.Listen(bufSize)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.serve(ctx, httpLis, grpcLis)
	}()

	client := newHealthClient(t, grpcLis)

	callCtx, callCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer callCancel()

	resp, err := client.Check(callCtx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING before SetServing, got %v", resp.GetStatus())
	}

	srv.SetServing()
	resp, err = client.Check(callCtx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", resp.GetStatus())
	}

	httpResp, err := http.Get("http://" + httpLis.Addr().String() + "/")
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	body, _ := io.ReadAll(httpResp.Body)
	httpResp.Body.Close()
	if string(body) != "ok" {
		t.Fatalf("unexpected body: %q", body)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_WithoutGRPC(t *testing.T) {
	srv := New(http.NotFoundHandler(), Options{})
	if srv.grpcServer != nil || srv.health != nil {
		t.Fatal("expected no gRPC server without GRPCAddr")
	}
	srv.SetServing()

	httpLis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := srv.serve(ctx, httpLis, nil); err != nil && !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("serve returned error: %v", err)
	}
}

func TestServer_RunListenError(t *testing.T) {
	srv := New(http.NotFoundHandler(), Options{HTTPAddr: "invalid-addr"})
	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}
