// internal/publish/types.go
package publish

import (
	"context"

	"github.com/tamzrod/modem-poller/internal/poller"
	"github.com/tamzrod/modem-poller/internal/status"
)

// Publisher delivers cycle outcomes downstream.
// Publish is called once per successful cycle and PublishError once per
// failed one; nothing from a failed cycle is ever passed to Publish.
type Publisher interface {
	PublishMeta(ctx context.Context, meta []poller.Meta) error
	Publish(ctx context.Context, b poller.Batch) error
	PublishStatus(ctx context.Context, text string) error
	PublishError(ctx context.Context, text string) error
	Close() error
}

// HealthSink receives the encoded health snapshot.
type HealthSink interface {
	PublishHealth(ctx context.Context, doc status.Document) error
}

// Sink is what a concrete transport provides.
type Sink interface {
	Publisher
	HealthSink
}
