// Package client builds outbound gRPC connections with the catalog's resilience interceptors.
package client

import (
	"fmt"

	"github.com/abgdnv/catalog/pkg/client/grpc/interceptors"
	"github.com/abgdnv/catalog/pkg/config"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// NewGRPCConn creates a client connection to cfg.Addr. Calls are retried on transient
// codes, guarded by a circuit breaker and bounded per attempt by cfg.Timeout.
// Extra options are applied after the defaults.
func NewGRPCConn(cfg config.GrpcClientConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	defaults := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(
			interceptors.NewRetryInterceptor(cfg.Retry),
			interceptors.NewCircuitBreaker("catalog-grpc-client", cfg.CircuitBreaker),
			interceptors.UnaryClientTimeoutInterceptor(cfg.Timeout),
		),
	}
	conn, err := grpc.NewClient(cfg.Addr, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", cfg.Addr, err)
	}
	return conn, nil
}
