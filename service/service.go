// Package service exposes the harness's health and metrics endpoints for
// the lifetime of the process. Matrix runs can take a while; the endpoints
// let CI infrastructure probe liveness and scrape invocation metrics while
// the toolchain grinds away.
package service

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/log"

	"github.com/compat-infra/rth/metrics"
)

const (
	HealthzHost = "0.0.0.0"
	HealthzPort = "8080"

	MetricsHost = "0.0.0.0"
	MetricsPort = "7300"
)

type server interface {
	Start(ctx context.Context, addr string) error
	Shutdown() error
}

type Service struct {
	Healthz *HealthzServer
	Metrics *MetricsServer
}

func New() *Service {
	return &Service{
		Healthz: &HealthzServer{},
		Metrics: &MetricsServer{},
	}
}

func (s *Service) Start(ctx context.Context) {
	log.Info("service starting")
	s.serve(ctx, "healthz", s.Healthz, HealthzHost, HealthzPort)
	s.serve(ctx, "metrics", s.Metrics, MetricsHost, MetricsPort)
	log.Info("service started")
}

func (s *Service) serve(ctx context.Context, name string, srv server, host, port string) {
	go func() {
		addr := net.JoinHostPort(host, port)
		log.Info("starting server", "name", name, "addr", addr)
		if err := srv.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("error starting server", "name", name, "err", err)
			metrics.RecordErrorDetails("error starting "+name+" server", err)
		}
	}()
}

func (s *Service) Shutdown() {
	log.Info("service shutting down")

	_ = s.Healthz.Shutdown()
	log.Info("healthz stopped")

	_ = s.Metrics.Shutdown()
	log.Info("metrics stopped")

	log.Info("service stopped")
}
