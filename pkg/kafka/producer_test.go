package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer(t *testing.T) {
	t.Run("keeps brokers and starts without writers", func(t *testing.T) {
		p, err := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}})

		require.NoError(t, err)
		assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, p.brokers)
		assert.Empty(t, p.writers)
		assert.Nil(t, p.transport.SASL)
		assert.Nil(t, p.transport.TLS)
	})

	t.Run("requires a broker", func(t *testing.T) {
		_, err := NewProducer(Config{})
		assert.Error(t, err)
	})

	t.Run("rejects unknown SASL mechanism", func(t *testing.T) {
		_, err := NewProducer(Config{Brokers: []string{"kafka:9092"}, SASLEnabled: true, SASLMechanism: "GSSAPI"})
		assert.Error(t, err)
	})

	t.Run("configures TLS and SCRAM", func(t *testing.T) {
		p, err := NewProducer(Config{
			Brokers:       []string{"kafka:9092"},
			TLS:           true,
			SASLEnabled:   true,
			SASLMechanism: "SCRAM-SHA-512",
			SASLUsername:  "user",
			SASLPassword:  "pass",
		})

		require.NoError(t, err)
		assert.NotNil(t, p.transport.TLS)
		require.NotNil(t, p.transport.SASL)
		assert.Equal(t, "SCRAM-SHA-512", p.transport.SASL.Name())
	})
}

func TestGetOrCreateWriter(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	w1 := p.getOrCreateWriter("creditrisk.events")
	w2 := p.getOrCreateWriter("creditrisk.events")
	w3 := p.getOrCreateWriter("creditrisk.labeling.requests")

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, w3)
	assert.Equal(t, "creditrisk.events", w1.Topic)
	assert.Len(t, p.writers, 2)

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestPublishWithoutMessages(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), "creditrisk.events"))
	assert.Empty(t, p.writers)
}

func TestToMessage(t *testing.T) {
	msg := toMessage(kafkago.Message{
		Key:   []byte("run-1"),
		Value: []byte(`{"clusters":3}`),
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte("creditrisk.labeling.completed")},
		},
	})

	assert.Equal(t, "run-1", string(msg.Key))
	assert.Equal(t, `{"clusters":3}`, string(msg.Value))
	assert.Equal(t, "creditrisk.labeling.completed", msg.Headers["event_type"])
}

func TestNewConsumer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := func(context.Context, Message) error { return nil }

	c, err := NewConsumer(Config{Brokers: []string{"localhost:9092"}, ConsumerGroup: "riskd"}, "creditrisk.labeling.requests", handler, logger)
	require.NoError(t, err)
	assert.Equal(t, "riskd", c.reader.Config().GroupID)
	require.NoError(t, c.Close())

	_, err = NewConsumer(Config{}, "t", handler, logger)
	assert.Error(t, err)
}
