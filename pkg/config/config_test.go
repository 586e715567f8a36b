package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ims-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10, cfg.DB.MigrateMaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.DB.MigrateDelay)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "ims-api", cfg.JWT.Issuer)
}

func TestLoad_SinSecretoJWT_Falla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("DB_MIGRATE_MAX_ATTEMPTS", "4")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:4200, https://ims.example.com ,")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SESSION_CACHE_TTL_SECONDS", "30")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 4, cfg.DB.MigrateMaxAttempts)
	assert.Equal(t, []string{"http://localhost:4200", "https://ims.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.SessionTTL)
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "ims", Password: "p@ss:word", DBName: "ims", SSLMode: "disable"}
	assert.Equal(t, "postgres://ims:p%40ss%3Aword@db:5432/ims?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
