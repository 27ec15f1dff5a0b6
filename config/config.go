package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultProviderBaseURL  = "https://test.api.amadeus.com"
	defaultGenerativeModel  = "gemini-2.5-flash"
	defaultResolutionsTopic = "travel.resolutions"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	GRPC       GRPCConfig       `yaml:"grpc"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Provider   ProviderConfig   `yaml:"provider"`
	Generative GenerativeConfig `yaml:"generative"`
	Log        LogConfig        `yaml:"log"`
	Worker     WorkerConfig     `yaml:"worker"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RatePerMinute  int      `yaml:"rate_per_minute"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig is optional. An empty Addr disables the shared token cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers          []string `yaml:"brokers"`
	ResolutionsTopic string   `yaml:"resolutions_topic"`
	GroupID          string   `yaml:"group_id"`
}

// ProviderConfig holds the live flight-data provider settings.
type ProviderConfig struct {
	BaseURL      string `yaml:"base_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	// RequestTimeoutSeconds bounds each provider HTTP request, token fetches included.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// Configured reports whether both credentials are present.
func (p ProviderConfig) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

func (p ProviderConfig) RequestTimeout() time.Duration {
	return time.Duration(p.RequestTimeoutSeconds) * time.Second
}

type GenerativeConfig struct {
	Backend string `yaml:"backend"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// WorkerConfig drives the audit log retention sweep.
type WorkerConfig struct {
	RetentionDays int `yaml:"retention_days"`
	SweepMinutes  int `yaml:"sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv lets credentials come from the environment instead of the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("AMADEUS_CLIENT_ID"); v != "" {
		c.Provider.ClientID = v
	}
	if v := os.Getenv("AMADEUS_CLIENT_SECRET"); v != "" {
		c.Provider.ClientSecret = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Generative.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = defaultProviderBaseURL
	}
	if c.Provider.RequestTimeoutSeconds <= 0 {
		c.Provider.RequestTimeoutSeconds = 15
	}
	if c.Generative.Backend == "" {
		c.Generative.Backend = "gemini"
	}
	if c.Generative.Model == "" {
		c.Generative.Model = defaultGenerativeModel
	}
	if c.Kafka.ResolutionsTopic == "" {
		c.Kafka.ResolutionsTopic = defaultResolutionsTopic
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "resolution-log"
	}
	if c.Worker.RetentionDays <= 0 {
		c.Worker.RetentionDays = 30
	}
	if c.Worker.SweepMinutes <= 0 {
		c.Worker.SweepMinutes = 60
	}
}
