package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/integration"
)

// NoopPayloadArchive drops payloads. It is used when object storage is disabled.
type NoopPayloadArchive struct {
	logger *zap.Logger
}

// NewNoopPayloadArchive creates a new NoopPayloadArchive
func NewNoopPayloadArchive(logger *zap.Logger) *NoopPayloadArchive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopPayloadArchive{logger: logger}
}

// Archive only logs the payload size
func (a *NoopPayloadArchive) Archive(ctx context.Context, storeID, channableID int64, body []byte) error {
	a.logger.Debug("Payload archiving disabled, dropping body",
		zap.Int64("store_id", storeID),
		zap.Int64("channable_order_id", channableID),
		zap.Int("bytes", len(body)))
	return nil
}

// DownloadURL returns an empty URL; nothing is ever archived
func (a *NoopPayloadArchive) DownloadURL(ctx context.Context, storeID, channableID int64) (string, time.Time, error) {
	return "", time.Time{}, nil
}

var (
	_ integration.PayloadArchive = (*NoopPayloadArchive)(nil)
	_ integration.PayloadLocator = (*NoopPayloadArchive)(nil)
)
