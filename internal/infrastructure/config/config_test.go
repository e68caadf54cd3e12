package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setProductionBase sets the minimum environment for a valid production config
func setProductionBase(t *testing.T) {
	t.Setenv("ORDERBRIDGE_APP_ENV", "production")
	t.Setenv("ORDERBRIDGE_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
	t.Setenv("ORDERBRIDGE_DATABASE_PASSWORD", "secure-password")
	t.Setenv("ORDERBRIDGE_DATABASE_SSLMODE", "require")
	t.Setenv("ORDERBRIDGE_CHANNABLE_WEBHOOK_TOKEN", "channable-secret")
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "orderbridge", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "orderbridge", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "channable_marketplace", cfg.Channable.ConfigSection)
		assert.Equal(t, 20.0, cfg.Channable.RateLimit)
		assert.Equal(t, 40, cfg.Channable.RateBurst)
		assert.Equal(t, 25*time.Second, cfg.HTTP.RequestTimeout)
		assert.False(t, cfg.HTTP.SwaggerEnabled)
		assert.Equal(t, 72*time.Hour, cfg.Import.IdempotencyTTL)
		assert.Equal(t, 10*time.Minute, cfg.Import.StoreConfigTTL)
		assert.Equal(t, "channable/orders", cfg.Storage.Prefix)
		assert.Equal(t, "orderbridge", cfg.Telemetry.ServiceName)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "X-Channable-Token")
		assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiration)
		assert.False(t, cfg.Messaging.Enabled)
		assert.Equal(t, "orderbridge.events", cfg.Messaging.Exchange)
		assert.Equal(t, "channable.order.imported", cfg.Messaging.RoutingKey)
		assert.Equal(t, 5*time.Second, cfg.Outbox.PollInterval)
		assert.Equal(t, 100, cfg.Outbox.BatchSize)
		assert.Equal(t, 7*24*time.Hour, cfg.Outbox.CleanupRetention)
		assert.Equal(t, "admin", cfg.Admin.Username)
		assert.Empty(t, cfg.Admin.PasswordHash)
		assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiration)
		assert.False(t, cfg.Profiling.Enabled)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("loads values from environment variables with ORDERBRIDGE prefix", func(t *testing.T) {
		t.Setenv("ORDERBRIDGE_APP_PORT", "9000")
		t.Setenv("ORDERBRIDGE_DATABASE_HOST", "db.internal")
		t.Setenv("ORDERBRIDGE_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("ORDERBRIDGE_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("ORDERBRIDGE_REDIS_ENABLED", "true")
		t.Setenv("ORDERBRIDGE_REDIS_HOST", "cache.internal")
		t.Setenv("ORDERBRIDGE_CHANNABLE_CONFIG_SECTION", "marketplace")
		t.Setenv("ORDERBRIDGE_IMPORT_IDEMPOTENCY_TTL", "24h")
		t.Setenv("ORDERBRIDGE_STORAGE_ENABLED", "true")
		t.Setenv("ORDERBRIDGE_STORAGE_BUCKET", "orders")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr())
		assert.Equal(t, "marketplace", cfg.Channable.ConfigSection)
		assert.Equal(t, 24*time.Hour, cfg.Import.IdempotencyTTL)
		assert.True(t, cfg.Storage.Enabled)
		assert.Equal(t, "orders", cfg.Storage.Bucket)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("ORDERBRIDGE_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("ORDERBRIDGE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		t.Setenv("ORDERBRIDGE_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("sampling ratio from env and range check", func(t *testing.T) {
		t.Setenv("ORDERBRIDGE_TELEMETRY_SAMPLING_RATIO", "0.25")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 0.25, cfg.Telemetry.SamplingRatio)

		t.Setenv("ORDERBRIDGE_TELEMETRY_SAMPLING_RATIO", "1.5")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("messaging and outbox from env", func(t *testing.T) {
		t.Setenv("ORDERBRIDGE_MESSAGING_ENABLED", "true")
		t.Setenv("ORDERBRIDGE_MESSAGING_URL", "amqp://mq.internal:5672/")
		t.Setenv("ORDERBRIDGE_OUTBOX_POLL_INTERVAL", "250ms")
		t.Setenv("ORDERBRIDGE_OUTBOX_BATCH_SIZE", "10")
		t.Setenv("ORDERBRIDGE_ADMIN_USERNAME", "ops")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Messaging.Enabled)
		assert.Equal(t, "amqp://mq.internal:5672/", cfg.Messaging.URL)
		assert.Equal(t, 250*time.Millisecond, cfg.Outbox.PollInterval)
		assert.Equal(t, 10, cfg.Outbox.BatchSize)
		assert.Equal(t, "ops", cfg.Admin.Username)
	})

	t.Run("rejects negative outbox batch size", func(t *testing.T) {
		t.Setenv("ORDERBRIDGE_OUTBOX_BATCH_SIZE", "-5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outbox")
	})

	t.Run("profiling requires server address", func(t *testing.T) {
		t.Setenv("ORDERBRIDGE_PROFILING_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profiling.server_address")

		t.Setenv("ORDERBRIDGE_PROFILING_SERVER_ADDRESS", "http://pyroscope:4040")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Profiling.Enabled)
	})

	t.Run("storage requires bucket when enabled", func(t *testing.T) {
		t.Setenv("ORDERBRIDGE_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]string
		errMsg   string
	}{
		{
			name:     "requires webhook token",
			override: map[string]string{"ORDERBRIDGE_CHANNABLE_WEBHOOK_TOKEN": ""},
			errMsg:   "channable.webhook_token is required in production",
		},
		{
			name:     "requires jwt secret",
			override: map[string]string{"ORDERBRIDGE_JWT_SECRET": ""},
			errMsg:   "jwt.secret is required in production",
		},
		{
			name:     "requires long jwt secret",
			override: map[string]string{"ORDERBRIDGE_JWT_SECRET": "short-secret"},
			errMsg:   "jwt.secret must be at least 32 characters",
		},
		{
			name:     "requires database password",
			override: map[string]string{"ORDERBRIDGE_DATABASE_PASSWORD": ""},
			errMsg:   "database.password is required in production",
		},
		{
			name:     "requires ssl",
			override: map[string]string{"ORDERBRIDGE_DATABASE_SSLMODE": "disable"},
			errMsg:   "database.sslmode cannot be 'disable' in production",
		},
		{
			name:     "rejects wildcard cors",
			override: map[string]string{"ORDERBRIDGE_HTTP_CORS_ALLOW_ORIGINS": "*"},
			errMsg:   "cors_allow_origins cannot be '*'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setProductionBase(t)
			for k, v := range tt.override {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "channable-secret", cfg.Channable.WebhookToken)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "pass@word#123",
		DBName:   "orderbridge",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "/orderbridge")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "pass%40word%23123")
}
