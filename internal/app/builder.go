// internal/app/builder.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cfg "github.com/tamzrod/modem-poller/internal/config"
	"github.com/tamzrod/modem-poller/internal/publish"
	pmqtt "github.com/tamzrod/modem-poller/internal/publish/mqtt"
)

// BuildSink creates the configured publish sink.
// For mqtt this connects to the broker before returning.
func BuildSink(ctx context.Context, c cfg.Config, logger *slog.Logger) (publish.Sink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pc := c.Publish

	switch pc.Sink {
	case cfg.SinkLog:
		return publish.NewLogSink(logger.With("component", "publish"), pc.Context, pc.SourceLabel)

	case cfg.SinkMQTT:
		codec, err := publish.NewCodec(pc.Format, pc.Context, pc.SourceLabel)
		if err != nil {
			return nil, err
		}
		return pmqtt.Connect(ctx, pmqtt.Config{
			Broker:         pc.MQTT.Broker,
			ClientID:       pc.MQTT.ClientID,
			Username:       pc.MQTT.Username,
			Password:       pc.MQTT.Password,
			TopicPrefix:    pc.MQTT.TopicPrefix,
			QoS:            byte(pc.MQTT.QoS),
			ConnectTimeout: 10 * time.Second,
			Codec:          codec,
			Logger:         logger.With("component", "mqtt"),
		})

	default:
		return nil, fmt.Errorf("app: unknown publish sink %q", pc.Sink)
	}
}
