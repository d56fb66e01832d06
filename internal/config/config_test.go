package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
database:
  host: db.local
  user: cantina
  password: secret
  database: cantina
pix:
  key: chave@cantina.br
  merchant_name: Cantina do Campus
  merchant_city: Sao Paulo
  ttl: 10m
store:
  delivery_fee: "3.50"
admin:
  jwt_secret: s3cr3t
  emails:
    - admin@cantina.br
`

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "memory", cfg.Payment.Store)
	assert.True(t, cfg.Payment.Sandbox)
	assert.Equal(t, 15*time.Minute, cfg.Pix.TTL)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "chave@cantina.br", cfg.Pix.Key)
	assert.Equal(t, 10*time.Minute, cfg.Pix.TTL)
	assert.Equal(t, []string{"admin@cantina.br"}, cfg.Admin.Emails)

	fee, err := cfg.DeliveryFee()
	require.NoError(t, err)
	assert.Equal(t, "3.5", fee.String())

	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	t.Setenv("CANTINA_PIX_KEY", "override-key")
	t.Setenv("CANTINA_SERVER_PORT", "8081")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "override-key", cfg.Pix.Key)
	assert.Equal(t, 8081, cfg.Server.Port)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
	assert.Error(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := DefaultConfig()
		c.Database.Host, c.Database.User, c.Database.Database = "h", "u", "d"
		c.Pix.Key, c.Pix.MerchantName, c.Pix.MerchantCity = "k", "n", "c"
		c.Admin.JWTSecret = "s"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missingDatabase", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: true},
		{name: "rabbitEnabledWithoutHost", mutate: func(c *Config) { c.RabbitMQ.Enabled = true }, wantErr: true},
		{name: "missingPixKey", mutate: func(c *Config) { c.Pix.Key = "" }, wantErr: true},
		{name: "badFee", mutate: func(c *Config) { c.Store.DeliveryFee = "abc" }, wantErr: true},
		{name: "negativeFee", mutate: func(c *Config) { c.Store.DeliveryFee = "-1" }, wantErr: true},
		{name: "badTimezone", mutate: func(c *Config) { c.Store.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "badPaymentStore", mutate: func(c *Config) { c.Payment.Store = "redis" }, wantErr: true},
		{name: "missingSecret", mutate: func(c *Config) { c.Admin.JWTSecret = "" }, wantErr: true},
		{name: "liveWithoutWebhookSecret", mutate: func(c *Config) { c.Payment.Sandbox = false }, wantErr: true},
		{name: "liveWithWebhookSecret", mutate: func(c *Config) {
			c.Payment.Sandbox = false
			c.Payment.WebhookSecret = "whsec"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
