package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/resume-builder/internal/config"
	"github.com/khoahotran/resume-builder/pkg/logger"
)

const EventResumeUploaded = "resume.uploaded"

type ResumeUploadedPayload struct {
	EventType string    `json:"event_type"`
	UploadID  uuid.UUID `json:"upload_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	UploadEventsWriter messageWriter
	log                logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  cfg.Kafka.UploadTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Kafka producer initialized", zap.Strings("brokers", brokers), zap.String("topic", cfg.Kafka.UploadTopic))
	return &KafkaProducerClient{UploadEventsWriter: writer, log: log}, nil
}

// PublishResumeUploaded keys the message by owner so one user's uploads are
// analyzed in order.
func (c *KafkaProducerClient) PublishResumeUploaded(ctx context.Context, uploadID, ownerID uuid.UUID) error {
	body, err := json.Marshal(ResumeUploadedPayload{
		EventType: EventResumeUploaded,
		UploadID:  uploadID,
		OwnerID:   ownerID,
	})
	if err != nil {
		return fmt.Errorf("cannot encode event: %w", err)
	}

	err = c.UploadEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ownerID.String()),
		Value: body,
	})
	if err != nil {
		return fmt.Errorf("cannot write %s event: %w", EventResumeUploaded, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.UploadEventsWriter != nil {
		if err := c.UploadEventsWriter.Close(); err != nil {
			c.log.Error("Failed to close Kafka producer", err)
			return
		}
	}
	c.log.Info("Closed Kafka producer")
}
