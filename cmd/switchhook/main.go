// Switchhook - webhook-controlled virtual switches
//
// This is the main entry point for the switchhook service. It exposes a
// small authenticated HTTP API for flipping named virtual switches,
// persists last-known state in SQLite, and optionally mirrors state
// changes to an MQTT broker.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/switchhook/migrations"

	"github.com/nerrad567/switchhook/internal/api"
	"github.com/nerrad567/switchhook/internal/infrastructure/config"
	"github.com/nerrad567/switchhook/internal/infrastructure/database"
	"github.com/nerrad567/switchhook/internal/infrastructure/logging"
	"github.com/nerrad567/switchhook/internal/infrastructure/mqtt"
	"github.com/nerrad567/switchhook/internal/vswitch"
	"github.com/nerrad567/switchhook/internal/webhook"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=2.0.0 -X main.commit=abc123"
var (
	version = "2.0.0"   // Semantic version
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting switchhook",
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

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}

	// Build the switch registry from configuration
	defs := make([]vswitch.Definition, 0, len(cfg.Switches))
	for _, sw := range cfg.Switches {
		defs = append(defs, vswitch.Definition{
			ID:   sw.ID,
			Name: sw.Name,
			Icon: sw.Icon,
		})
	}

	registry, err := vswitch.NewRegistry(defs)
	if err != nil {
		return fmt.Errorf("building switch registry: %w", err)
	}
	registry.SetLogger(log)
	registry.SetStore(vswitch.NewSQLiteStore(db.DB))

	// Restore last-known state before serving traffic
	if restoreErr := registry.Restore(ctx); restoreErr != nil {
		return fmt.Errorf("restoring switch state: %w", restoreErr)
	}
	log.Info("switch registry initialised", "switches", registry.Count())

	// Connect to MQTT broker (optional state mirror)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			// Re-seed retained state topics so a restarted broker
			// converges with the registry.
			for _, state := range registry.List() {
				publishSwitchState(mqttClient, log, state)
			}
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		registry.SetOnChange(func(state vswitch.SwitchState) {
			publishSwitchState(mqttClient, log, state)
		})

		// Publish the restored state of every switch up front
		for _, state := range registry.List() {
			publishSwitchState(mqttClient, log, state)
		}
	} else {
		log.Info("MQTT disabled")
	}

	// Wire the dispatcher and HTTP server
	dispatcher := webhook.NewDispatcher(registry)
	dispatcher.SetLogger(log)

	server, err := api.New(api.Deps{
		Config:     cfg.Server,
		Security:   cfg.Security,
		Logger:     log,
		Registry:   registry,
		Dispatcher: dispatcher,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating webhook server: %w", err)
	}

	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting webhook server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing webhook server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, server); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. HTTP server (drains in-flight requests)
	// 2. MQTT (if enabled)
	// 3. Database

	log.Info("switchhook stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SWITCHHOOK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SWITCHHOOK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, server *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}

// publishSwitchState mirrors one switch's state to its retained topic.
// Publish failures are logged and otherwise ignored; the registry stays
// authoritative regardless of broker availability.
func publishSwitchState(client *mqtt.Client, log *logging.Logger, state vswitch.SwitchState) {
	payload, err := json.Marshal(map[string]any{
		"switch_id":  state.ID,
		"name":       state.Name,
		"state":      state.PowerString(),
		"attributes": state.AttributesSnapshot(),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Error("encoding switch state for MQTT", "switch_id", state.ID, "error", err)
		return
	}

	topic := mqtt.Topics{}.SwitchState(state.ID)
	if err := client.PublishRetained(topic, payload); err != nil {
		log.Warn("publishing switch state", "switch_id", state.ID, "topic", topic, "error", err)
	}
}
