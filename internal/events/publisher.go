// Package events carries upload notifications to the thumbnail pipeline over
// Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// AnimationUploaded is the wire payload published after a successful upload.
type AnimationUploaded struct {
	AnimationID string `json:"animation_id"`
	BlobID      string `json:"blob_id"`
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(broker, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Publisher) PublishUploaded(ctx context.Context, animationID, blobID string) error {
	payload, err := json.Marshal(AnimationUploaded{AnimationID: animationID, BlobID: blobID})
	if err != nil {
		return fmt.Errorf("failed to marshal upload event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(animationID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish upload event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
