package config

import (
	"fmt"
	"strings"
	"time"
)

// GrpcClientConfig configures the connection catalogctl and tests use to reach the catalog gRPC API.
// Timeout bounds each attempt; zero disables the per-attempt limit.
type GrpcClientConfig struct {
	Addr           string               `koanf:"addr"`
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuitbreaker"`
}

// String returns a string representation of the gRPC client configuration.
func (c *GrpcClientConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- gRPC Client ---\n")
	b.WriteString(fmt.Sprintf("  addr: %s\n", c.Addr))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	b.WriteString(c.Retry.String())
	b.WriteString(c.CircuitBreaker.String())
	return b.String()
}

func (c *GrpcClientConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("gRPC address is not configured")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("gRPC timeout must not be negative")
	}
	if err := c.Retry.Validate(); err != nil {
		return err
	}
	return c.CircuitBreaker.Validate()
}
