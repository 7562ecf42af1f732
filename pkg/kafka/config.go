package kafka

import (
	"crypto/tls"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Config holds Kafka connection parameters shared by producers and consumers.
type Config struct {
	ClientID      string
	ConsumerGroup string

	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	TLS         bool
	SASLEnabled bool
}

// saslMechanism returns the configured SASL mechanism, or nil when SASL is off.
func (c Config) saslMechanism() (sasl.Mechanism, error) {
	if !c.SASLEnabled {
		return nil, nil
	}

	switch c.SASLMechanism {
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, c.SASLUsername, c.SASLPassword)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, c.SASLUsername, c.SASLPassword)
	case "PLAIN", "":
		return &plain.Mechanism{Username: c.SASLUsername, Password: c.SASLPassword}, nil
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism %q", c.SASLMechanism)
	}
}

func (c Config) tlsConfig() *tls.Config {
	if !c.TLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// transport builds the writer transport for the configured security settings.
func (c Config) transport() (*kafkago.Transport, error) {
	mechanism, err := c.saslMechanism()
	if err != nil {
		return nil, err
	}
	return &kafkago.Transport{
		ClientID:    c.ClientID,
		TLS:         c.tlsConfig(),
		SASL:        mechanism,
		DialTimeout: 10 * time.Second,
	}, nil
}

// dialer builds the reader dialer for the configured security settings.
func (c Config) dialer() (*kafkago.Dialer, error) {
	mechanism, err := c.saslMechanism()
	if err != nil {
		return nil, err
	}
	return &kafkago.Dialer{
		ClientID:      c.ClientID,
		Timeout:       10 * time.Second,
		DualStack:     true,
		TLS:           c.tlsConfig(),
		SASLMechanism: mechanism,
	}, nil
}
