package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/locofvijay/room-reservation-service/internal/api"
	"github.com/locofvijay/room-reservation-service/internal/config"
	"github.com/locofvijay/room-reservation-service/internal/database"
	"github.com/locofvijay/room-reservation-service/internal/domain"
	"github.com/locofvijay/room-reservation-service/internal/events"
	"github.com/locofvijay/room-reservation-service/internal/logging"
	"github.com/locofvijay/room-reservation-service/internal/metrics"
	"github.com/locofvijay/room-reservation-service/internal/models"
	"github.com/locofvijay/room-reservation-service/internal/notify"
	"github.com/locofvijay/room-reservation-service/internal/payment"
	"github.com/locofvijay/room-reservation-service/internal/queue"
	"github.com/locofvijay/room-reservation-service/internal/repository"
	"github.com/locofvijay/room-reservation-service/internal/service"
	"github.com/locofvijay/room-reservation-service/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	rooms, err := loadRooms(cfg, &logger)
	if err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	eventBus := events.NewEventBus()
	initNotifier(cfg, eventBus, &logger)

	seenStore, closeRedis := initSeenStore(ctx, cfg, &logger)
	if closeRedis != nil {
		defer closeRedis()
	}

	verifier := payment.NewCardClient(
		cfg.Payments.CardVerifierURL,
		cfg.Payments.APIKey,
		time.Duration(cfg.Payments.TimeoutSeconds)*time.Second,
	)

	svc := service.NewReservationService(db, verifier, eventBus, &logger)

	consumerLogger := logging.Component(&logger, "queue")
	consumer := queue.NewConsumer(cfg.AMQP.URL, cfg.AMQP.Queue, cfg.AMQP.Prefetch, svc, seenStore, &consumerLogger)
	go consumer.Start(ctx)

	sweeperLogger := logging.Component(&logger, "sweeper")
	sweeper := worker.NewExpirySweeper(
		db,
		eventBus,
		cfg.Sweeper.GraceDays,
		time.Duration(cfg.Sweeper.IntervalMinutes)*time.Minute,
		&sweeperLogger,
	)
	sweeper.Start(ctx)

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	httpServer := api.NewHTTPServer(cfg.API, svc, db, rooms, &logger)
	return serveHTTP(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := logging.Component(baseLogger, "main")

	return cfg, logger, closer, nil
}

func loadRooms(cfg *config.Config, logger *zerolog.Logger) ([]models.Room, error) {
	roomsPath := os.Getenv("ROOMS_PATH")
	if roomsPath == "" {
		roomsPath = cfg.RoomsPath
	}

	roomsData, err := os.ReadFile(roomsPath)
	if err != nil {
		logger.Error().Err(err).Str("rooms_path", roomsPath).Msg("read rooms")
		return nil, err
	}

	var catalog struct {
		Rooms []models.Room `yaml:"rooms"`
	}
	if err := yaml.Unmarshal(roomsData, &catalog); err != nil {
		logger.Error().Err(err).Str("rooms_path", roomsPath).Msg("parse rooms")
		return nil, err
	}

	if err := config.ValidateRooms(catalog.Rooms); err != nil {
		return nil, fmt.Errorf("rooms validation failed: %w", err)
	}

	return catalog.Rooms, nil
}

// initSeenStore wires the payment dedup store: Redis with in-memory failover
// when Redis is configured, plain in-memory otherwise.
func initSeenStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (domain.SeenStore, func()) {
	ttl := time.Duration(models.DefaultSeenTTL) * time.Second
	memory := repository.NewMemorySeenRepository(ttl)

	if !cfg.Redis.Enabled {
		return memory, nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, dedup runs in memory only")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}

	primary := repository.NewRedisSeenRepository(redisClient, ttl)
	failover := repository.NewFailoverSeenRepository(primary, memory, logger)
	return failover, func() { _ = repository.Close(redisClient) }
}

func initNotifier(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if !cfg.Telegram.Enabled {
		return
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		return
	}
	botAPI.Debug = cfg.Telegram.Debug

	notifierLogger := logging.Component(logger, "notify")
	notifier := notify.NewNotifier(botAPI, cfg.Telegram.ManagerChatID, &notifierLogger)
	notifier.Subscribe(bus)
	logger.Info().Int64("chat_id", cfg.Telegram.ManagerChatID).Msg("telegram notifications enabled")
}

func serveHTTP(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
