// internal/publish/log.go
package publish

import (
	"context"
	"log/slog"

	"github.com/tamzrod/modem-poller/internal/poller"
	"github.com/tamzrod/modem-poller/internal/status"
)

// LogSink writes every outcome to the logger instead of a broker.
// Payloads are always rendered as JSON so the log stays readable.
type LogSink struct {
	logger *slog.Logger
	codec  *Codec
}

// NewLogSink creates a sink that logs deltas under the given context and label.
func NewLogSink(logger *slog.Logger, deltaContext, label string) (*LogSink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	codec, err := NewCodec(FormatJSON, deltaContext, label)
	if err != nil {
		return nil, err
	}
	return &LogSink{logger: logger, codec: codec}, nil
}

func (s *LogSink) PublishMeta(ctx context.Context, meta []poller.Meta) error {
	payload, err := s.codec.Marshal(s.codec.MetaDelta(meta))
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "meta", "payload", string(payload))
	return nil
}

func (s *LogSink) Publish(ctx context.Context, b poller.Batch) error {
	payload, err := s.codec.Marshal(s.codec.Delta(b))
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "delta",
		"batch", b.ID,
		"measurements", len(b.Measurements),
		"payload", string(payload),
	)
	return nil
}

func (s *LogSink) PublishStatus(ctx context.Context, text string) error {
	s.logger.InfoContext(ctx, "status", "text", text)
	return nil
}

func (s *LogSink) PublishError(ctx context.Context, text string) error {
	s.logger.ErrorContext(ctx, "poll error", "text", text)
	return nil
}

func (s *LogSink) PublishHealth(ctx context.Context, doc status.Document) error {
	s.logger.InfoContext(ctx, "health",
		"health", doc.Health,
		"last_error_code", doc.LastErrorCode,
		"seconds_in_error", doc.SecondsInError,
	)
	return nil
}

func (s *LogSink) Close() error { return nil }
