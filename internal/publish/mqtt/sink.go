// internal/publish/mqtt/sink.go
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/tamzrod/modem-poller/internal/poller"
	"github.com/tamzrod/modem-poller/internal/publish"
	"github.com/tamzrod/modem-poller/internal/status"
)

// Topic suffixes under the configured prefix.
const (
	TopicDelta  = "delta"
	TopicMeta   = "meta"
	TopicStatus = "status"
	TopicError  = "error"
	TopicHealth = "health"
)

// quiesceMs is how long Disconnect waits for in-flight work.
const quiesceMs = 250

// offlineText is the retained last-will on the status topic.
// It is also published on a clean Close.
const offlineText = "offline"

// defaultPublishTimeout bounds a single publish while the broker is unreachable.
const defaultPublishTimeout = 5 * time.Second

type Config struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte

	ConnectTimeout time.Duration
	PublishTimeout time.Duration
	Codec          *publish.Codec
	Logger         *slog.Logger
}

// Sink publishes deltas and status to an MQTT broker.
type Sink struct {
	client  MQTT.Client
	prefix  string
	qos     byte
	timeout time.Duration
	codec   *publish.Codec
	logger  *slog.Logger
}

// Connect dials the broker and returns a ready sink.
func Connect(ctx context.Context, cfg Config) (*Sink, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt: broker required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	logger := cfg.Logger

	opts := MQTT.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetAutoReconnect(true).
		SetWill(topic(cfg.TopicPrefix, TopicStatus), offlineText, cfg.QoS, true).
		SetOnConnectHandler(func(MQTT.Client) {
			logger.Info("connected to MQTT broker", "broker", cfg.Broker)
		}).
		SetConnectionLostHandler(func(_ MQTT.Client, err error) {
			logger.Warn("MQTT connection lost", "broker", cfg.Broker, "err", err)
		})

	client := MQTT.NewClient(opts)

	cctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := wait(cctx, client.Connect()); err != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", cfg.Broker, err)
	}

	return New(client, cfg)
}

// New wraps an existing client.
func New(client MQTT.Client, cfg Config) (*Sink, error) {
	if client == nil {
		return nil, errors.New("mqtt: client required")
	}
	if cfg.Codec == nil {
		return nil, errors.New("mqtt: codec required")
	}
	if cfg.QoS > 2 {
		return nil, fmt.Errorf("mqtt: qos %d out of range", cfg.QoS)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}
	return &Sink{
		client:  client,
		prefix:  cfg.TopicPrefix,
		qos:     cfg.QoS,
		timeout: cfg.PublishTimeout,
		codec:   cfg.Codec,
		logger:  cfg.Logger,
	}, nil
}

func (s *Sink) PublishMeta(ctx context.Context, meta []poller.Meta) error {
	payload, err := s.codec.Marshal(s.codec.MetaDelta(meta))
	if err != nil {
		return fmt.Errorf("mqtt: encode meta: %w", err)
	}
	return s.send(ctx, TopicMeta, true, payload)
}

func (s *Sink) Publish(ctx context.Context, b poller.Batch) error {
	payload, err := s.codec.Marshal(s.codec.Delta(b))
	if err != nil {
		return fmt.Errorf("mqtt: encode delta %s: %w", b.ID, err)
	}
	return s.send(ctx, TopicDelta, false, payload)
}

func (s *Sink) PublishStatus(ctx context.Context, text string) error {
	return s.send(ctx, TopicStatus, true, []byte(text))
}

func (s *Sink) PublishError(ctx context.Context, text string) error {
	return s.send(ctx, TopicError, false, []byte(text))
}

func (s *Sink) PublishHealth(ctx context.Context, doc status.Document) error {
	payload, err := s.codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("mqtt: encode health: %w", err)
	}
	return s.send(ctx, TopicHealth, true, payload)
}

// Close marks the device offline on the status topic and disconnects.
// The last-will only covers an ungraceful disconnect.
func (s *Sink) Close() error {
	err := s.send(context.Background(), TopicStatus, true, []byte(offlineText))
	s.client.Disconnect(quiesceMs)
	return err
}

func (s *Sink) send(ctx context.Context, suffix string, retained bool, payload []byte) error {
	t := topic(s.prefix, suffix)

	// paho keeps QoS>0 tokens open across reconnects; never wait on them unbounded.
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := wait(ctx, s.client.Publish(t, s.qos, retained, payload)); err != nil {
		return fmt.Errorf("mqtt: publish %s: %w", t, err)
	}
	s.logger.Debug("published", "topic", t, "bytes", len(payload), "retained", retained)
	return nil
}

// wait blocks until the token completes or ctx is done.
func wait(ctx context.Context, tok MQTT.Token) error {
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func topic(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	return prefix + "/" + suffix
}
