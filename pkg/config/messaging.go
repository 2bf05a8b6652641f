package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Supported values of messaging.driver. An empty driver disables event publishing.
const (
	MessagingNone = "none"
	MessagingNATS = "nats"
	MessagingAMQP = "amqp"
)

// NATSConfig points the JetStream event publisher at a NATS server.
type NATSConfig struct {
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

func (c *NATSConfig) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  nats.url: %s\n", MaskURL(c.Url)))
	b.WriteString(fmt.Sprintf("  nats.timeout: %s\n", c.Timeout))
	return b.String()
}

// Validate accepts the URL schemes understood by nats.Connect.
func (c *NATSConfig) Validate() error {
	if c.Url == "" {
		return fmt.Errorf("NATS URL is not configured")
	}
	u, err := url.Parse(c.Url)
	if err != nil {
		return fmt.Errorf("invalid NATS URL: %w", err)
	}
	switch u.Scheme {
	case "nats", "tls", "ws", "wss":
	default:
		return fmt.Errorf("unsupported NATS URL scheme %q", u.Scheme)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("NATS dial timeout is not configured")
	}
	return nil
}

type AMQPConfig struct {
	URL      string `koanf:"url"`
	Exchange string `koanf:"exchange"`
}

// MessagingConfig selects the broker that receives product change events.
type MessagingConfig struct {
	Driver         string               `koanf:"driver"`
	NATS           NATSConfig           `koanf:"nats"`
	AMQP           AMQPConfig           `koanf:"amqp"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuitbreaker"`
}

// Enabled reports whether a broker is configured.
func (c *MessagingConfig) Enabled() bool {
	return c.Driver != "" && c.Driver != MessagingNone
}

// String returns a string representation of the messaging configuration.
func (c *MessagingConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Messaging ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	switch c.Driver {
	case MessagingNATS:
		b.WriteString(c.NATS.String())
	case MessagingAMQP:
		b.WriteString(fmt.Sprintf("  amqp.url: %s\n", MaskURL(c.AMQP.URL)))
		b.WriteString(fmt.Sprintf("  amqp.exchange: %s\n", c.AMQP.Exchange))
	}
	if c.Enabled() {
		b.WriteString(c.CircuitBreaker.String())
	}
	return b.String()
}

func (c *MessagingConfig) Validate() error {
	switch c.Driver {
	case "", MessagingNone:
		return nil
	case MessagingNATS:
		if err := c.NATS.Validate(); err != nil {
			return err
		}
	case MessagingAMQP:
		if c.AMQP.URL == "" {
			return fmt.Errorf("AMQP URL is not configured")
		}
		if c.AMQP.Exchange == "" {
			return fmt.Errorf("AMQP exchange is not configured")
		}
	default:
		return fmt.Errorf("unknown messaging driver %q, expected one of none, nats, amqp", c.Driver)
	}
	return c.CircuitBreaker.Validate()
}
