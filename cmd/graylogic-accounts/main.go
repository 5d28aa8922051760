// Gray Logic Accounts - user account service
//
// This is the main entry point for the accounts service. It provides:
//   - Registration, email verification and password login
//   - Signed session tokens for the rest of the Gray Logic stack
//   - Administrative listing and reporting over the account store
//
// Account lifecycle events are published to MQTT and login activity is
// written to InfluxDB when those integrations are enabled.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/gray-logic-accounts/migrations"

	"github.com/nerrad567/gray-logic-accounts/internal/account"
	"github.com/nerrad567/gray-logic-accounts/internal/api"
	"github.com/nerrad567/gray-logic-accounts/internal/audit"
	"github.com/nerrad567/gray-logic-accounts/internal/auth"
	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/mqtt"
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

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// It blocks until ctx is cancelled and returns nil on a clean shutdown.
func run(ctx context.Context) error { //nolint:funlen,gocognit // linear startup sequence
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Gray Logic Accounts",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, cfg.Service.Name, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(database.Config{
		Driver:       cfg.Database.Driver,
		Path:         cfg.Database.Path,
		DSN:          cfg.Database.DSN,
		WALMode:      cfg.Database.WALMode,
		BusyTimeout:  cfg.Database.BusyTimeout,
		MaxOpenConns: cfg.Database.MaxOpenConns,
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
	log.Info("database connected", "driver", db.Dialect(), "path", db.Path())

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	hasher, err := auth.NewPasswordHasher(cfg.Security.Password.Algorithm, cfg.Security.Password.BcryptCost)
	if err != nil {
		return fmt.Errorf("creating password hasher: %w", err)
	}
	tokens, err := auth.NewTokenService(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer, cfg.GetAccessTokenTTL())
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	accounts := auth.NewAccountRepository(db)
	if _, seedErr := auth.SeedAdmin(ctx, accounts, hasher, cfg.Security.SeedAdmin.Email, log.Logger); seedErr != nil {
		return fmt.Errorf("seeding admin account: %w", seedErr)
	}

	deps := account.Deps{
		Accounts: accounts,
		Hasher:   hasher,
		Tokens:   tokens,
		Logger:   log.Logger,
	}

	// Connect to MQTT broker (optional)
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
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		deps.Events = mqttClient
	} else {
		log.Info("MQTT disabled, account events will not be published")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		deps.Metrics = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	auditRepo := audit.NewRepository(db)
	recorder := audit.NewRecorder(auditRepo, "api", audit.DefaultQueueSize, log.Logger)
	deps.Audit = recorder

	svc, err := account.NewService(deps)
	if err != nil {
		return fmt.Errorf("creating account service: %w", err)
	}

	server, err := api.New(api.Deps{
		Config:    cfg.API,
		Logger:    log,
		Accounts:  svc,
		Tokens:    tokens,
		AuditRepo: auditRepo,
		Recorder:  recorder,
		DB:        db,
		MQTT:      mqttClient,
		Influx:    influxClient,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("Gray Logic Accounts started",
		"api", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"token_ttl", tokens.TTL().String(),
		"password_algorithm", hasher.Algorithm(),
	)

	<-ctx.Done()
	log.Info("shutdown signal received")

	// Deferred Close() calls run in reverse order:
	// 1. API server (drains the audit queue)
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("Gray Logic Accounts stopped")
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
