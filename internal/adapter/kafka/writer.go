package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/brewmap/internal/config"
	"github.com/couchcryptid/brewmap/internal/domain"
)

// publishChunk bounds the number of messages handed to a single WriteMessages call.
const publishChunk = 500

// Writer produces normalized brewery records to a Kafka topic.
// It implements session.RecordSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured record topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes every record, keyed by record id so that
// reloads of the same brewery land on the same partition.
func (w *Writer) Publish(ctx context.Context, records []domain.Brewery) error {
	for start := 0; start < len(records); start += publishChunk {
		end := min(start+publishChunk, len(records))
		msgs := make([]kafkago.Message, 0, end-start)
		for i := start; i < end; i++ {
			msg, err := serializeToMessage(records[i])
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("write records %d-%d: %w", start, end-1, err)
		}
		w.logger.Debug("records published", "topic", w.writer.Topic, "count", len(msgs))
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Brewery into a Kafka message.
func serializeToMessage(b domain.Brewery) (kafkago.Message, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize brewery %q: %w", b.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(b.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(domain.CategoryKey(b.Category))},
			{Key: "country", Value: []byte(b.Country)},
		},
	}, nil
}
