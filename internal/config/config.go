package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/locofvijay/room-reservation-service/internal/models"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	AMQP       AMQPConfig       `yaml:"amqp"`
	Payments   PaymentsConfig   `yaml:"payments"`
	Sweeper    SweeperConfig    `yaml:"sweeper"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Exports    ExportConfig     `yaml:"exports"`
	RoomsPath  string           `yaml:"rooms_path"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type AMQPConfig struct {
	URL      string `yaml:"url"`
	Queue    string `yaml:"queue"`
	Prefetch int    `yaml:"prefetch"`
}

type PaymentsConfig struct {
	CardVerifierURL string `yaml:"card_verifier_url"`
	APIKey          string `yaml:"api_key"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

type SweeperConfig struct {
	GraceDays       int `yaml:"grace_days"`
	IntervalMinutes int `yaml:"interval_minutes"`
}

type TelegramConfig struct {
	Enabled       bool   `yaml:"enabled"`
	BotToken      string `yaml:"bot_token"`
	ManagerChatID int64  `yaml:"manager_chat_id"`
	Debug         bool   `yaml:"debug"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Port int `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	HeaderExtra  string         `yaml:"header_extra"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Extra       string   `yaml:"extra"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env опционален, локальная разработка без него обычное дело
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.AMQP.URL == "" {
		return errors.New("amqp url is required")
	}
	if c.Payments.CardVerifierURL == "" {
		return errors.New("card verifier url is required")
	}
	if c.Sweeper.GraceDays < 0 {
		return errors.New("sweeper grace_days must not be negative")
	}
	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE") {
		return errors.New("telegram bot token is required when telegram is enabled")
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis address is required when redis is enabled")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "room-reservation-service"
	}
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}
	if c.AMQP.Queue == "" {
		c.AMQP.Queue = "payments.bank-transfer"
	}
	if c.AMQP.Prefetch == 0 {
		c.AMQP.Prefetch = 10
	}
	if c.Payments.TimeoutSeconds == 0 {
		c.Payments.TimeoutSeconds = 10
	}
	// grace_days: 0 означает "платить до даты заезда", поэтому тут нет дефолта
	if c.Sweeper.IntervalMinutes == 0 {
		c.Sweeper.IntervalMinutes = 60
	}
	if c.RoomsPath == "" {
		c.RoomsPath = "configs/rooms.yaml"
	}
}

// ValidateRooms checks the catalog for duplicate numbers and known segments.
func ValidateRooms(rooms []models.Room) error {
	numbers := make(map[string]bool)
	for _, room := range rooms {
		if room.Number == "" {
			return errors.New("room with empty number in catalog")
		}
		if numbers[room.Number] {
			return fmt.Errorf("duplicate room number found: %s", room.Number)
		}
		numbers[room.Number] = true

		if _, ok := models.ParseRoomSegment(room.Segment); !ok {
			return fmt.Errorf("room %s has unknown segment %q", room.Number, room.Segment)
		}
	}
	return nil
}
