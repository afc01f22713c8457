package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/vhi-dashboard/internal/config"
	"github.com/couchcryptid/vhi-dashboard/internal/domain"
)

// batchSize caps the number of messages per WriteMessages call.
const batchSize = 1000

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces one message per observation of a dataset.
// It implements ingest.Sink.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured observation topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (p *Publisher) Name() string { return "kafka" }

// Publish writes every observation keyed by region, year and week, so a
// compacted topic keeps the latest value for each.
func (p *Publisher) Publish(ctx context.Context, ds *domain.Dataset) error {
	obs := ds.Observations()
	builtAt := ds.BuiltAt()

	for start := 0; start < len(obs); start += batchSize {
		end := min(start+batchSize, len(obs))
		msgs := make([]kafkago.Message, 0, end-start)
		for _, o := range obs[start:end] {
			msg, err := serializeToMessage(o, builtAt)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("write observations %d-%d: %w", start, end, err)
		}
	}

	p.logger.Debug("observations produced", "count", len(obs))
	return nil
}

// Close flushes and closes the producer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a WeeklyObservation into a Kafka message.
func serializeToMessage(o domain.WeeklyObservation, builtAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation %s: %w", o.Key(), err)
	}
	return kafkago.Message{
		Key:   []byte(o.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region_id", Value: []byte(strconv.Itoa(o.RegionID))},
			{Key: "built_at", Value: []byte(builtAt.Format(time.RFC3339))},
		},
	}, nil
}
