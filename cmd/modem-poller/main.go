// cmd/modem-poller/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tamzrod/modem-poller/internal/app"
	"github.com/tamzrod/modem-poller/internal/config"
	"github.com/tamzrod/modem-poller/internal/publish"
)

type options struct {
	configPath string
	envFiles   []string
	once       bool
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "modem-poller [config.yaml]",
		Short:        "Poll a Teltonika RUT router over Modbus TCP and republish its telemetry",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.configPath = args[0]
			}
			return run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv file(s) loaded before environment overrides")
	cmd.Flags().BoolVar(&opts.once, "once", false, "run a single cycle, print the delta and exit")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	return cmd
}

// --------------------
// Load + validate config
// --------------------

func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if err := config.ApplyEnv(cfg, opts.envFiles...); err != nil {
		return nil, fmt.Errorf("config env failed: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	config.Normalize(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func newLogger(c config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if c.Format == "json" {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}
	return slog.New(h), nil
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.once {
		return runOnce(ctx, cfg, logger, stdout)
	}

	// --------------------
	// Build pipeline
	// --------------------

	sink, err := app.BuildSink(ctx, *cfg, logger)
	if err != nil {
		return fmt.Errorf("publish sink failed: %w", err)
	}

	a, err := app.New(*cfg, sink, logger)
	if err != nil {
		_ = sink.Close()
		return fmt.Errorf("pipeline build failed: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("shutdown", "err", err)
		}
	}()

	logger.Info("modem-poller started", "sink", cfg.Publish.Sink, "format", cfg.Publish.Format)
	err = a.Run(ctx)
	logger.Info("modem-poller stopped")
	return err
}

// runOnce polls a single cycle and writes the delta as JSON to stdout.
func runOnce(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	sink, err := publish.NewLogSink(logger, cfg.Publish.Context, cfg.Publish.SourceLabel)
	if err != nil {
		return err
	}

	a, err := app.New(*cfg, sink, logger)
	if err != nil {
		return fmt.Errorf("pipeline build failed: %w", err)
	}
	defer a.Close()

	res := a.Once(ctx)
	if res.Err != nil {
		return fmt.Errorf("poll failed: %w", res.Err)
	}

	codec, err := publish.NewCodec(publish.FormatJSON, cfg.Publish.Context, cfg.Publish.SourceLabel)
	if err != nil {
		return err
	}
	payload, err := codec.Marshal(codec.Delta(res.Batch))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(payload))
	return err
}
