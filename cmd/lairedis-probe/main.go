// Package main implements lairedis-probe, a diagnostic client for an OTN
// linecard agent. It brings up the full bridge stack (NATS connection, keyed
// command channel, persistent identifier allocation), creates the linecard
// session and reads back its status, optionally staying attached to stream
// notifications.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/bridge"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/channel"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/config"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/metric"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/natsclient"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/notif"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/oid"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "lairedis-probe"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Probe failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if cliCfg.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		return nil
	}
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cliCfg.Validate {
		logger.Info("Configuration is valid", "path", cliCfg.ConfigPath)
		return nil
	}

	ctx := context.Background()

	client, err := connectNATS(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close(ctx) }()

	ids, err := setupIdentifiers(ctx, client, cfg)
	if err != nil {
		return err
	}

	ch := channel.New(client,
		channel.WithSubjects(channel.Subjects{
			Command:      cfg.Channel.CommandSubject,
			Response:     cfg.Channel.ResponseSubject,
			Notification: cfg.Channel.NotificationSubject,
		}),
		channel.WithWaitTimeout(cfg.Channel.WaitTimeout.Std()),
		channel.WithInboxSize(cfg.Channel.ResponseBuffer),
		channel.WithLogger(slogPrintf{logger.With("component", "channel")}),
	)

	bridgeOpts := []bridge.Option{bridge.WithLogger(logger)}
	if cfg.Metrics.Enabled {
		registry := metric.NewMetricsRegistry()
		server := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry, cfg.Security)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() { _ = server.Stop() }()
		bridgeOpts = append(bridgeOpts, bridge.WithMetrics(registry.Core()))
		logger.Info("Metrics endpoint up", "address", server.Address(), "path", cfg.Metrics.Path)
	}

	b := bridge.New(ch, ids, bridgeOpts...)

	meta := &loggingMeta{logger: logger.With("component", "meta")}
	b.SetMeta(func() otai.Meta { return meta })

	if err := b.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize bridge: %w", err)
	}
	defer func() { _ = b.Uninitialize(ctx) }()

	opCtx, cancel := context.WithTimeout(ctx, cliCfg.OpTimeout)
	defer cancel()

	linecardID, err := probeLinecard(opCtx, b, cliCfg.HardwareInfo, logger)
	if err != nil {
		return err
	}

	if !cliCfg.Watch {
		return nil
	}

	logger.Info("Watching notifications, Ctrl-C to stop", "linecard", linecardID.String())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Shutting down", "signal", sig.String())
	return nil
}

// connectNATS builds and connects the transport client
func connectNATS(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*natsclient.Client, error) {
	client, err := natsclient.NewClient(cfg.NATS.URL,
		natsclient.WithName(cfg.NATS.Name),
		natsclient.WithTimeout(cfg.NATS.ConnectTimeout.Std()),
		natsclient.WithMaxReconnects(cfg.NATS.MaxReconnects),
		natsclient.WithReconnectWait(cfg.NATS.ReconnectWait.Std()),
		natsclient.WithLogger(slogPrintf{logger.With("component", "nats")}),
	)
	if err != nil {
		return nil, fmt.Errorf("build NATS client: %w", err)
	}
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.NATS.URL, err)
	}
	return client, nil
}

// setupIdentifiers wires the persistent identifier allocator over a KV
// bucket shared with any other bridge attached to the same agent.
func setupIdentifiers(ctx context.Context, client *natsclient.Client, cfg *config.Config) (*oid.Manager, error) {
	bucket, err := client.CreateKeyValueBucket(ctx, jetstream.KeyValueConfig{
		Bucket:      cfg.Store.Bucket,
		Description: "lairedis identifier counters",
	})
	if err != nil {
		return nil, fmt.Errorf("create KV bucket %s: %w", cfg.Store.Bucket, err)
	}

	store := client.NewKVStore(bucket)
	gen := oid.NewKVGenerator(store, oid.WithCounterKey(cfg.Store.CounterKey))
	return oid.NewManager(gen, nil), nil
}

// probeLinecard creates the linecard session with notification handlers
// attached and reads back its basic state.
func probeLinecard(ctx context.Context, b *bridge.Bridge, hardwareInfo string, logger *slog.Logger) (otai.ObjectID, error) {
	attrs := []otai.Attribute{
		{ID: otai.LinecardAttrHardwareInfo, Value: otai.Value{Str: hardwareInfo}},
		{ID: otai.LinecardAttrStateChangeNotify, Value: otai.Value{
			Handler: func(n notif.LinecardStateChange) {
				logger.Info("Linecard state change", "oper_status", n.OperStatus)
			},
		}},
		{ID: otai.LinecardAttrAlarmNotify, Value: otai.Value{
			Handler: func(n notif.LinecardAlarm) {
				logger.Info("Linecard alarm",
					"type", n.Type, "severity", n.Severity,
					"text", n.Text, "cleared", n.Cleared)
			},
		}},
	}

	id, err := b.Create(ctx, otai.ObjectTypeLinecard, otai.NullObjectID, attrs)
	if err != nil {
		return otai.NullObjectID, fmt.Errorf("create linecard: %w", err)
	}
	logger.Info("Linecard created", "id", id.String(), "hardware_info", hardwareInfo)

	state := []otai.Attribute{
		{ID: otai.LinecardAttrSoftwareVersion},
		{ID: otai.LinecardAttrOperStatus},
	}
	if err := b.Get(ctx, otai.ObjectTypeLinecard, id, state); err != nil {
		return id, fmt.Errorf("read linecard state: %w", err)
	}
	logger.Info("Linecard state",
		"software_version", state[0].Value.Str,
		"oper_status", state[1].Value.U64)

	return id, nil
}

// loggingMeta is a minimal metadata component: it records inbound
// notifications in the log stream. Real deployments install the platform's
// consistency layer here.
type loggingMeta struct {
	logger *slog.Logger
}

func (m *loggingMeta) ProcessNotification(name string, id otai.ObjectID) {
	m.logger.Debug("Notification observed", "name", name, "object", id.String())
}
