package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const readHeaderTimeout = 10 * time.Second

// Options は Server の構成です。
type Options struct {
	HTTPAddr string
	// GRPCAddr が空の場合、gRPC ヘルスチェックは起動しません。
	GRPCAddr        string
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
}

// Server は HTTP サーバーと gRPC ヘルスチェックのライフサイクルを管理します。
type Server struct {
	opts       Options
	httpServer *http.Server
	grpcServer *grpc.Server
	health     *health.Server
}

// New は handler を配信する Server を構築します。
func New(handler http.Handler, opts Options, grpcOpts ...grpc.ServerOption) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Server{
		opts: opts,
		httpServer: &http.Server{
			Addr:              opts.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}

	if opts.GRPCAddr != "" {
		s.grpcServer = grpc.NewServer(grpcOpts...)
		s.health = health.NewServer()
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		healthpb.RegisterHealthServer(s.grpcServer, s.health)
	}

	return s
}

// SetServing はヘルスチェックの状態を SERVING にします。依存先の疎通確認後に呼び出します。
func (s *Server) SetServing() {
	if s.health != nil {
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると安全に停止します。
func (s *Server) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", s.opts.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.HTTPAddr, err)
	}

	var grpcLis net.Listener
	if s.grpcServer != nil {
		grpcLis, err = net.Listen("tcp", s.opts.GRPCAddr)
		if err != nil {
			httpLis.Close()
			return fmt.Errorf("listen on %s: %w", s.opts.GRPCAddr, err)
		}
	}

	return s.serve(ctx, httpLis, grpcLis)
}

func (s *Server) serve(ctx context.Context, httpLis, grpcLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.opts.Logger.Info("http server listening", zap.String("addr", httpLis.Addr().String()))
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	if grpcLis != nil {
		g.Go(func() error {
			s.opts.Logger.Info("grpc health server listening", zap.String("addr", grpcLis.Addr().String()))
			if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("serve gRPC: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.opts.Logger.Info("shutting down")

	if s.health != nil {
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}
