package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/isometry/gemini-proxy/internal/helpers"
	"github.com/isometry/gemini-proxy/internal/models"
	"github.com/isometry/gemini-proxy/internal/upstream"
)

// Archiver stores a completed exchange.
type Archiver interface {
	Archive(ctx context.Context, id string, exchange []byte) error
}

// ObjectPutter writes an object to a bucket. It is satisfied by the AWS controller.
type ObjectPutter interface {
	PutS3Object(ctx context.Context, bucket, key string, body []byte) error
}

// Exchange is the archived record of one forwarded request. It never carries the API key.
type Exchange struct {
	RequestID string         `json:"requestId"`
	Time      time.Time      `json:"time"`
	Status    int            `json:"status"`
	Request   models.Payload `json:"request"`
	Response  models.Payload `json:"response"`
}

// S3Archiver writes exchanges to "<prefix><RFC3339Nano>.<id>.json" in a bucket.
type S3Archiver struct {
	putter ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Archiver returns an S3Archiver.
func NewS3Archiver(putter ObjectPutter, bucket, prefix string) *S3Archiver {
	return &S3Archiver{putter: putter, bucket: bucket, prefix: prefix, now: time.Now}
}

// Archive implements Archiver.
func (a *S3Archiver) Archive(ctx context.Context, id string, exchange []byte) error {
	key := fmt.Sprintf("%s%s.%s.json", a.prefix, a.now().UTC().Format(time.RFC3339Nano), id)
	return a.putter.PutS3Object(ctx, a.bucket, key, exchange)
}

// archive stores the exchange if an archiver is configured. Failures are logged only.
func (h *Handler) archive(ctx context.Context, logger *slog.Logger, payload models.Payload, result *upstream.Result) {
	if h.archiver == nil {
		return
	}
	id := helpers.RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	record, err := json.Marshal(Exchange{
		RequestID: id,
		Time:      time.Now().UTC(),
		Status:    result.StatusCode,
		Request:   payload,
		Response:  result.Body,
	})
	if err != nil {
		logger.Warn("failed to encode exchange", slog.Any("error", err))
		return
	}
	if err = h.archiver.Archive(ctx, id, record); err != nil {
		logger.Warn("failed to archive exchange", slog.Any("error", err))
	}
}
