// Package thumbnails consumes upload events and attaches a rendered
// thumbnail blob to image animations. Non-image payloads are skipped; the
// pipeline is strictly best-effort and never blocks uploads.
package thumbnails

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"arwear-backend/internal/blobstore"
	"arwear-backend/internal/events"
)

type BlobStore interface {
	Fetch(ctx context.Context, blobID string) (*blobstore.Object, error)
	Store(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
}

type Catalog interface {
	SetAnimationThumbnail(ctx context.Context, id uuid.UUID, blobID string) error
}

type Worker struct {
	reader  *kafka.Reader
	blobs   BlobStore
	cat     Catalog
	maxSize int
}

func NewWorker(broker, topic, groupID string, blobs BlobStore, cat Catalog, maxSize int) *Worker {
	return &Worker{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{broker},
			Topic:   topic,
			GroupID: groupID,
		}),
		blobs:   blobs,
		cat:     cat,
		maxSize: maxSize,
	}
}

// Run consumes events until ctx is cancelled. Individual failures are logged
// and dropped; an unreadable blob or a non-image payload must not wedge the
// consumer group.
func (w *Worker) Run(ctx context.Context) {
	defer w.reader.Close()

	for {
		msg, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			log.Printf("thumbnails: error reading message: %v", err)
			continue
		}

		var ev events.AnimationUploaded
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			log.Printf("thumbnails: skipping malformed event: %v", err)
			continue
		}

		if err := w.handle(ctx, ev); err != nil {
			log.Printf("thumbnails: animation %s: %v", ev.AnimationID, err)
		}
	}
}

func (w *Worker) handle(ctx context.Context, ev events.AnimationUploaded) error {
	animationID, err := uuid.Parse(ev.AnimationID)
	if err != nil {
		return fmt.Errorf("bad animation id: %w", err)
	}

	obj, err := w.blobs.Fetch(ctx, ev.BlobID)
	if err != nil {
		return fmt.Errorf("failed to fetch blob: %w", err)
	}
	defer obj.Content.Close()

	img, err := imaging.Decode(obj.Content)
	if err != nil {
		// Not an image; nothing to render.
		return nil
	}

	thumb := imaging.Fit(img, w.maxSize, w.maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	thumbID, err := w.blobs.Store(ctx, &buf, ev.AnimationID+"_thumb.png", "image/png")
	if err != nil {
		return fmt.Errorf("failed to store thumbnail: %w", err)
	}

	if err := w.cat.SetAnimationThumbnail(ctx, animationID, thumbID); err != nil {
		return fmt.Errorf("failed to attach thumbnail: %w", err)
	}
	return nil
}
