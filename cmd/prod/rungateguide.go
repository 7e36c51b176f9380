/*
Production entrypoint for the GateGuide service.
Handles config loading, dependency injection, and starting the application.
*/
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gopkg.in/yaml.v3"

	"github.com/Beastbaba/Gateguide/gateguideservice"
	"github.com/Beastbaba/Gateguide/gateguideservice/config"
	"github.com/Beastbaba/Gateguide/internal/app"
	"github.com/Beastbaba/Gateguide/internal/platform/catalog"
	"github.com/Beastbaba/Gateguide/internal/platform/history"
	"github.com/Beastbaba/Gateguide/internal/platform/providers"
	psub "github.com/Beastbaba/Gateguide/internal/platform/pubsub"
	"github.com/Beastbaba/Gateguide/internal/realtime"
	"github.com/Beastbaba/Gateguide/pkg/assist"
)

//go:embed config.yaml
var configFile []byte

func main() {
	// --- 1. Setup structured logging (slog) ---
	var logLevel slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug", "DEBUG":
		logLevel = slog.LevelDebug
	case "info", "INFO":
		logLevel = slog.LevelInfo
	case "warn", "WARN":
		logLevel = slog.LevelWarn
	case "error", "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})).With("service", "gateguide")
	slog.SetDefault(logger)

	// The realtime and pipeline components use zerolog.
	zlog := zerolog.New(os.Stdout).With().Timestamp().Str("service", "gateguide").Logger()

	// --- 2. Load Configuration (Stage 0: Unmarshal) ---
	var yamlCfg config.YamlConfig
	err := yaml.Unmarshal(configFile, &yamlCfg)
	if err != nil {
		logger.Error("Failed to unmarshal embedded yaml config", "err", err)
		os.Exit(1)
	}

	// --- 3. Build Base Config (Stage 1: YAML to Base Struct) ---
	baseCfg, err := config.NewConfigFromYaml(&yamlCfg, logger)
	if err != nil {
		logger.Error("Failed to build base configuration from YAML", "err", err)
		os.Exit(1)
	}

	// --- 4. Apply Overrides & Validate (Stage 2: Env Vars) ---
	cfg, err := config.UpdateConfigWithEnvOverrides(baseCfg, logger)
	if err != nil {
		logger.Error("Failed to finalize configuration with environment overrides", "err", err)
		os.Exit(1)
	}

	// Convert topic/sub IDs to full GCP resource names
	cfg.AlertsTopicID = convertPubsub(cfg.ProjectID, cfg.AlertsTopicID, Pub)
	cfg.AlertsSubscriptionID = convertPubsub(cfg.ProjectID, cfg.AlertsSubscriptionID, Sub)
	cfg.AlertsTopicDLQID = convertPubsub(cfg.ProjectID, cfg.AlertsTopicDLQID, Pub)

	// --- 5. Create dependencies ---
	ctx := context.Background()

	registry := realtime.NewRegistry()
	hub := realtime.NewHub(registry, zlog)

	deps, err := newProdDependencies(ctx, cfg, hub, logger, zlog)
	if err != nil {
		logger.Error("Failed to initialize dependencies", "err", err)
		os.Exit(1)
	}

	// --- 6. Create the two main services ---
	apiService, err := gateguideservice.New(cfg, deps, logger, zlog)
	if err != nil {
		logger.Error("Failed to create API service", "err", err)
		os.Exit(1)
	}

	connManager, err := realtime.NewConnectionManager(
		":"+cfg.WebSocketPort, // Prepend ':' for listener
		registry,
		hub,
		deps.History,
		zlog,
	)
	if err != nil {
		logger.Error("Failed to create Connection Manager", "err", err)
		os.Exit(1)
	}

	// --- 7. Run the application ---
	app.Run(ctx, logger, apiService, connManager)
}

// newProdDependencies creates real, production-ready dependencies.
func newProdDependencies(
	ctx context.Context,
	cfg *config.AppConfig,
	hub *realtime.Hub,
	logger *slog.Logger,
	zlog zerolog.Logger,
) (*gateguideservice.Dependencies, error) {
	logger.Debug("Connecting to PubSub", "project_id", cfg.ProjectID)
	psClient, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pubsub: %w", err)
	}

	if err := ensureAlertsTopic(ctx, cfg, psClient, logger); err != nil {
		return nil, err
	}

	flightCatalog, err := newCatalog(ctx, cfg, logger, zlog)
	if err != nil {
		return nil, err
	}
	notificationHistory, err := newHistory(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("Creating alert consumer", "sub", cfg.AlertsSubscriptionID)
	consumer, err := psub.NewConsumer(psClient.Subscriber(cfg.AlertsSubscriptionID), 16, zlog)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert consumer: %w", err)
	}

	logger.Debug("Creating alert producer", "topic", cfg.AlertsTopicID)
	producer := psub.NewProducer(psClient.Publisher(cfg.AlertsTopicID))

	logger.Debug("All production dependencies initialized")

	// The speech, translation, and OCR providers are served by the
	// deterministic stubs until real provider credentials are wired in.
	return &gateguideservice.Dependencies{
		Transcriber:   providers.NewStubTranscriber(logger),
		Translator:    providers.NewStubTranslator(logger),
		TextExtractor: providers.NewStubTextExtractor(logger),
		Catalog:       flightCatalog,
		History:       notificationHistory,
		AlertConsumer: consumer,
		AlertProducer: producer,
		Hub:           hub,
	}, nil
}

// newCatalog creates the pluggable flight/gate catalog based on config.
func newCatalog(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger, zlog zerolog.Logger) (assist.Catalog, error) {
	catalogType := cfg.Catalog.Type
	logger.Info("Initializing catalog...", "type", catalogType)

	switch catalogType {
	case "firestore":
		logger.Debug("Connecting to Firestore", "project_id", cfg.ProjectID)
		fsClient, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to firestore: %w", err)
		}
		return catalog.NewFirestoreCatalog(fsClient, zlog)

	case "memory":
		return catalog.NewSeededCatalog(), nil

	default:
		return nil, fmt.Errorf("invalid catalog type: %s (must be 'firestore' or 'memory')", catalogType)
	}
}

// newHistory creates the pluggable notification history based on config.
func newHistory(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (assist.History, error) {
	historyType := cfg.History.Type
	logger.Info("Initializing notification history...", "type", historyType)

	switch historyType {
	case "redis":
		redisAddr := cfg.History.Redis.Addr
		if redisAddr == "" {
			logger.Error("history type is redis but no address is configured (check REDIS_ADDR env var)")
			return nil, fmt.Errorf("history type is redis but no address is configured (check REDIS_ADDR env var)")
		}
		logger.Debug("Connecting to Redis history", "addr", redisAddr)
		rdb := redis.NewClient(&redis.Options{
			Addr: redisAddr,
		})
		// Test the connection
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("Failed to connect to redis history", "addr", redisAddr, "err", err)
			return nil, fmt.Errorf("failed to connect to redis history at %s: %w", redisAddr, err)
		}
		logger.Info("Connected to Redis history", "addr", redisAddr)
		return history.NewRedisHistory(rdb, cfg.History.MaxEntries, logger)

	case "memory":
		return history.NewMemoryHistory(cfg.History.MaxEntries), nil

	default:
		return nil, fmt.Errorf("invalid history type: %s (must be 'redis' or 'memory')", historyType)
	}
}

// ensureAlertsTopic creates the alerts topic, its dead-letter topic, and the
// subscription if they don't already exist. The pipeline nacks malformed
// alerts, so the subscription must carry a dead-letter policy or a poison
// payload would be redelivered forever.
func ensureAlertsTopic(ctx context.Context, cfg *config.AppConfig, psClient *pubsub.Client, logger *slog.Logger) error {
	for _, topicName := range []string{cfg.AlertsTopicID, cfg.AlertsTopicDLQID} {
		logger.Debug("Ensuring topic exists", "topic", topicName)
		_, err := psClient.TopicAdminClient.CreateTopic(ctx, &pubsubpb.Topic{Name: topicName})
		if err != nil {
			if status.Code(err) == codes.AlreadyExists {
				logger.Debug("Topic already exists, skipping creation", "topic", topicName)
			} else {
				logger.Error("Failed to create topic", "topic", topicName, "err", err)
				return fmt.Errorf("could not create topic: %s", topicName)
			}
		}
	}

	subConfig := alertsSubscriptionConfig(cfg)
	logger.Debug("Ensuring subscription exists", "sub", subConfig.Name, "topic", subConfig.Topic)
	_, err := psClient.SubscriptionAdminClient.CreateSubscription(ctx, subConfig)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			logger.Debug("Subscription already exists, skipping creation", "sub", subConfig.Name)
		} else {
			logger.Error("Failed to create subscription", "sub", subConfig.Name, "err", err)
			return fmt.Errorf("could not create sub: %s", cfg.AlertsSubscriptionID)
		}
	}
	return nil
}

// alertsSubscriptionConfig builds the alerts subscription with its
// dead-letter policy.
func alertsSubscriptionConfig(cfg *config.AppConfig) *pubsubpb.Subscription {
	return &pubsubpb.Subscription{
		Name:               cfg.AlertsSubscriptionID,
		Topic:              cfg.AlertsTopicID,
		AckDeadlineSeconds: 10,
		DeadLetterPolicy: &pubsubpb.DeadLetterPolicy{
			DeadLetterTopic:     cfg.AlertsTopicDLQID,
			MaxDeliveryAttempts: 5,
		},
	}
}

// PS is a type for Pub/Sub resource types (Topic or Subscription).
type PS string

const (
	// Sub identifies a subscription resource.
	Sub PS = "subscriptions"
	// Pub identifies a topic resource.
	Pub PS = "topics"
)

// convertPubsub formats a short ID into a full GCP resource name.
func convertPubsub(project, id string, ps PS) string {
	return fmt.Sprintf("projects/%s/%s/%s", project, ps, id)
}
