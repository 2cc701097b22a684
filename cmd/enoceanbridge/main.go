// Gray Logic EnOcean Bridge
//
// This is the main entry point for the EnOcean protocol bridge. It reads
// ESP3 frames from a transceiver's serial port, decodes them against the
// known EEP profiles, tracks devices, and publishes readings to the Gray
// Logic MQTT bus. Actuator commands arriving on the command topics are
// encoded and transmitted back through the same transceiver.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-enocean/internal/device"
	"github.com/nerrad567/gray-logic-enocean/internal/eep"
	"github.com/nerrad567/gray-logic-enocean/internal/esp3"
	"github.com/nerrad567/gray-logic-enocean/internal/gateway"
	"github.com/nerrad567/gray-logic-enocean/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-enocean/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-enocean/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-enocean/internal/transport"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// healthInterval is how often the bridge publishes its health report.
const healthInterval = 30 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Gray Logic EnOcean bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	chipID, err := esp3.ParseSenderID(cfg.Serial.ChipID)
	if err != nil {
		return fmt.Errorf("parsing serial.chip_id: %w", err)
	}

	// Open the transceiver's serial port. "-" reads stdin, which pairs
	// with the simulator for broker-only test setups:
	//
	//	enoceansim -rate 2 | GRAYLOGIC_SERIAL_DEVICE=- enoceanbridge
	var port io.ReadWriteCloser
	if cfg.Serial.Device == "-" {
		port = struct {
			io.Reader
			io.Writer
			io.Closer
		}{os.Stdin, io.Discard, os.Stdin}
	} else {
		port, err = transport.OpenSerial(cfg.Serial.Device, cfg.Serial.Baud)
		if err != nil {
			return fmt.Errorf("opening serial port: %w", err)
		}
	}
	defer func() {
		if closeErr := port.Close(); closeErr != nil {
			log.Error("error closing serial port", "error", closeErr)
		}
	}()
	log.Info("transceiver connected",
		"device", cfg.Serial.Device,
		"baud", cfg.Serial.Baud,
		"chip_id", chipID.String(),
	)

	// A per-process client ID suffix avoids broker session collisions when
	// several bridge instances share a config.
	cfg.MQTT.Broker.ClientID = fmt.Sprintf("%s-%s",
		cfg.MQTT.Broker.ClientID, uuid.NewString()[:8])

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Device registry, shared between the pipeline and command handling.
	devices := device.NewRegistry(cfg.ActivityWindow())

	// Receive pipeline: serial bytes to published readings.
	sink := mqtt.NewReadingPublisher(mqttClient, byte(cfg.MQTT.QoS))
	pipeline := gateway.New(gateway.Config{
		QueueSize:      cfg.Gateway.QueueSize,
		PublishTimeout: cfg.PublishTimeout(),
		CRCStrict:      cfg.Gateway.CRCStrict,
	}, port, sink, devices, eep.DefaultRegistry(), log.With("component", "pipeline"))

	// Command path: MQTT command topics to transmitted frames.
	topics := mqtt.Topics{}
	cmdLog := log.With("component", "commands")
	err = mqttClient.Subscribe(topics.AllBridgeCommands("enocean"), byte(cfg.MQTT.QoS),
		func(topic string, payload []byte) error {
			address := topics.CommandAddress("enocean", topic)
			frame, encErr := gateway.EncodeCommand(payload, address, chipID)
			if encErr != nil {
				cmdLog.Warn("command rejected", "topic", topic, "error", encErr)
				return nil // rejected commands are logged, not retried
			}
			if _, writeErr := port.Write(frame); writeErr != nil {
				cmdLog.Error("transmit failed", "address", address, "error", writeErr)
				return writeErr
			}
			cmdLog.Info("command transmitted", "address", address, "bytes", len(frame))
			return nil
		})
	if err != nil {
		return fmt.Errorf("subscribing to commands: %w", err)
	}

	// Periodic health report: pipeline counters plus registry totals,
	// retained on the health topic.
	healthPub := mqtt.NewHealthPublisher(mqttClient)
	healthLog := log.With("component", "health")
	go func() {
		ticker := time.NewTicker(healthInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := healthPub.Publish(ctx, pipeline.Stats(), devices.Statistics()); err != nil {
					healthLog.Warn("health report failed", "error", err)
				}
			}
		}
	}()

	log.Info("initialisation complete, receiving")

	runErr := pipeline.Run(ctx)

	stats := pipeline.Stats()
	log.Info("pipeline stopped",
		"frames_rx", stats.FramesRx,
		"published", stats.Published,
		"crc_errors", stats.DataCRCErrors,
		"unknown_profiles", stats.UnknownProfiles,
		"teach_ins", stats.TeachIns,
		"dropped", stats.Dropped,
	)
	if regStats := devices.Statistics(); regStats.Total > 0 {
		log.Info("device registry", "total", regStats.Total, "active", regStats.Active)
	}

	if runErr != nil {
		return fmt.Errorf("pipeline: %w", runErr)
	}
	log.Info("Gray Logic EnOcean bridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GRAYLOGIC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYLOGIC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
