package event

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/resume-builder/internal/config"
	"github.com/khoahotran/resume-builder/pkg/apperror"
	"github.com/khoahotran/resume-builder/pkg/logger"
)

type UploadHandler func(ctx context.Context, payload ResumeUploadedPayload) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	initialRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff     = 30 * time.Second
)

type UploadConsumer struct {
	reader         messageReader
	handle         UploadHandler
	log            logger.Logger
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

func NewUploadConsumer(cfg config.Config, handle UploadHandler, log logger.Logger) *UploadConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.UploadTopic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return &UploadConsumer{
		reader:         reader,
		handle:         handle,
		log:            log,
		initialBackoff: initialRetryBackoff,
		maxBackoff:     maxRetryBackoff,
	}
}

// Run consumes until ctx is cancelled. Malformed messages and events for
// uploads that no longer exist are committed and skipped. Other handler
// failures are retried in place with backoff: committing a later offset on
// the partition would otherwise skip the failed event for good.
func (c *UploadConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Error("Failed to read message from Kafka", err)
			continue
		}

		l := c.log.With(zap.String("topic", msg.Topic), zap.Int64("offset", msg.Offset))

		var payload ResumeUploadedPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil || payload.EventType != EventResumeUploaded {
			l.Warn("Skipping unrecognised message", zap.ByteString("value", msg.Value))
			c.commit(ctx, msg, l)
			continue
		}

		l = l.With(zap.String("upload_id", payload.UploadID.String()))
		if !c.process(ctx, payload, l) {
			// cancelled mid-retry; the uncommitted event is redelivered on restart
			return nil
		}
		c.commit(ctx, msg, l)
	}
}

// process runs the handler until it succeeds or fails permanently. It
// returns false only when ctx is cancelled first.
func (c *UploadConsumer) process(ctx context.Context, payload ResumeUploadedPayload, l logger.Logger) bool {
	delay := c.initialBackoff
	for attempt := 1; ; attempt++ {
		err := c.handle(ctx, payload)
		if err == nil {
			return true
		}
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrPermission) {
			l.Warn("Dropping event for unknown upload", zap.Error(err))
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		l.Error("Failed to process event, retrying", err, zap.Int("attempt", attempt), zap.Duration("backoff", delay))
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
		delay *= 2
		if delay > c.maxBackoff {
			delay = c.maxBackoff
		}
	}
}

func (c *UploadConsumer) commit(ctx context.Context, msg kafka.Message, l logger.Logger) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		l.Error("Failed to commit message", err)
	}
}

func (c *UploadConsumer) Close() error {
	return c.reader.Close()
}
