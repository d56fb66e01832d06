package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config хранит все параметры приложения
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RabbitMQ  RabbitMQConfig  `mapstructure:"rabbitmq"`
	Store     StoreConfig     `mapstructure:"store"`
	Pix       PixConfig       `mapstructure:"pix"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Admin     AdminConfig     `mapstructure:"admin"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

type RabbitMQConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	VHost    string `mapstructure:"vhost"`
	UseTLS   bool   `mapstructure:"use_tls"`
	Prefetch int    `mapstructure:"prefetch"`
}

type StoreConfig struct {
	Name        string `mapstructure:"name"`
	Timezone    string `mapstructure:"timezone"`
	DeliveryFee string `mapstructure:"delivery_fee"`
}

type PixConfig struct {
	Key          string        `mapstructure:"key"`
	MerchantName string        `mapstructure:"merchant_name"`
	MerchantCity string        `mapstructure:"merchant_city"`
	QRBaseURL    string        `mapstructure:"qr_base_url"`
	QRSize       int           `mapstructure:"qr_size"`
	TTL          time.Duration `mapstructure:"ttl"`
}

type PaymentConfig struct {
	Store          string        `mapstructure:"store"` // memory | postgres
	Sandbox        bool          `mapstructure:"sandbox"`
	ExpiryInterval time.Duration `mapstructure:"expiry_interval"`
	// WebhookSecret is the shared secret the provider sends with every webhook
	// (?webhookSecret= or X-Webhook-Secret). Required outside the sandbox.
	WebhookSecret  string        `mapstructure:"webhook_secret"`
}

type AdminConfig struct {
	JWTSecret string   `mapstructure:"jwt_secret"`
	Emails    []string `mapstructure:"emails"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the configuration used when no file or env overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         3000,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Database: DatabaseConfig{Port: 5432, SSLMode: "disable", MaxConns: 10},
		RabbitMQ: RabbitMQConfig{Port: 5672, VHost: "/", Prefetch: 10},
		Store:    StoreConfig{Name: "Cantina", Timezone: "America/Sao_Paulo", DeliveryFee: "2.00"},
		Pix: PixConfig{
			QRBaseURL: "https://api.qrserver.com/v1/create-qr-code/",
			QRSize:    300,
			TTL:       15 * time.Minute,
		},
		Payment:   PaymentConfig{Store: "memory", Sandbox: true, ExpiryInterval: 30 * time.Second},
		RateLimit: RateLimitConfig{RPS: 5, Burst: 10},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads path (optional, may be empty or missing) and applies CANTINA_* env overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("CANTINA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// every key needs a default so AutomaticEnv can see it during Unmarshal
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)

	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.database", d.Database.Database)
	v.SetDefault("database.sslmode", d.Database.SSLMode)
	v.SetDefault("database.max_conns", d.Database.MaxConns)

	v.SetDefault("rabbitmq.enabled", d.RabbitMQ.Enabled)
	v.SetDefault("rabbitmq.host", d.RabbitMQ.Host)
	v.SetDefault("rabbitmq.port", d.RabbitMQ.Port)
	v.SetDefault("rabbitmq.user", d.RabbitMQ.User)
	v.SetDefault("rabbitmq.password", d.RabbitMQ.Password)
	v.SetDefault("rabbitmq.vhost", d.RabbitMQ.VHost)
	v.SetDefault("rabbitmq.use_tls", d.RabbitMQ.UseTLS)
	v.SetDefault("rabbitmq.prefetch", d.RabbitMQ.Prefetch)

	v.SetDefault("store.name", d.Store.Name)
	v.SetDefault("store.timezone", d.Store.Timezone)
	v.SetDefault("store.delivery_fee", d.Store.DeliveryFee)

	v.SetDefault("pix.key", d.Pix.Key)
	v.SetDefault("pix.merchant_name", d.Pix.MerchantName)
	v.SetDefault("pix.merchant_city", d.Pix.MerchantCity)
	v.SetDefault("pix.qr_base_url", d.Pix.QRBaseURL)
	v.SetDefault("pix.qr_size", d.Pix.QRSize)
	v.SetDefault("pix.ttl", d.Pix.TTL)

	v.SetDefault("payment.store", d.Payment.Store)
	v.SetDefault("payment.sandbox", d.Payment.Sandbox)
	v.SetDefault("payment.expiry_interval", d.Payment.ExpiryInterval)
	v.SetDefault("payment.webhook_secret", d.Payment.WebhookSecret)

	v.SetDefault("admin.jwt_secret", d.Admin.JWTSecret)
	v.SetDefault("admin.emails", d.Admin.Emails)

	v.SetDefault("ratelimit.rps", d.RateLimit.RPS)
	v.SetDefault("ratelimit.burst", d.RateLimit.Burst)

	v.SetDefault("log.level", d.Log.Level)
}

// Validate checks what the API server needs before it starts.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Host == "" || c.Database.User == "" || c.Database.Database == "" {
		errs = append(errs, errors.New("database config incomplete"))
	}
	if c.RabbitMQ.Enabled && (c.RabbitMQ.Host == "" || c.RabbitMQ.User == "") {
		errs = append(errs, errors.New("rabbitmq config incomplete"))
	}
	if c.Pix.Key == "" || c.Pix.MerchantName == "" || c.Pix.MerchantCity == "" {
		errs = append(errs, errors.New("pix key, merchant_name and merchant_city are required"))
	}
	if _, err := c.DeliveryFee(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	switch c.Payment.Store {
	case "memory", "postgres":
	default:
		errs = append(errs, fmt.Errorf("payment.store must be memory or postgres, got %q", c.Payment.Store))
	}
	if !c.Payment.Sandbox && c.Payment.WebhookSecret == "" {
		errs = append(errs, errors.New("payment.webhook_secret is required when sandbox is off"))
	}
	if c.Admin.JWTSecret == "" {
		errs = append(errs, errors.New("admin.jwt_secret is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) DeliveryFee() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(c.Store.DeliveryFee)
	if err != nil {
		return decimal.Zero, fmt.Errorf("store.delivery_fee: %w", err)
	}
	if fee.IsNegative() {
		return decimal.Zero, errors.New("store.delivery_fee must not be negative")
	}
	return fee, nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Store.Timezone)
	if err != nil {
		return nil, fmt.Errorf("store.timezone: %w", err)
	}
	return loc, nil
}
