package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.FX.USDToCOP.Equal(decimal.NewFromInt(4000)))
	assert.True(t, cfg.FX.USDToEUR.Equal(decimal.RequireFromString("0.92")))
	assert.False(t, cfg.SMTP.Enabled())
	assert.EqualValues(t, 25, cfg.DB.MaxConns)
	assert.EqualValues(t, 2, cfg.DB.MinConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.False(t, cfg.DB.PreferIPv4)
}

func TestLoad_PoolDeConexiones(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("DB_MAX_CONNS", "40")
	t.Setenv("DB_MIN_CONNS", "5")
	t.Setenv("DB_MAX_CONN_LIFETIME", "2h")
	t.Setenv("DB_MAX_CONN_IDLE_TIME", "45s")
	t.Setenv("DB_HEALTH_CHECK_PERIOD", "no-es-duracion")
	t.Setenv("DB_PREFER_IPV4", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.EqualValues(t, 40, cfg.DB.MaxConns)
	assert.EqualValues(t, 5, cfg.DB.MinConns)
	assert.Equal(t, 2*time.Hour, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 45*time.Second, cfg.DB.MaxConnIdleTime)
	assert.Equal(t, time.Minute, cfg.DB.HealthCheckPeriod)
	assert.True(t, cfg.DB.PreferIPv4)

	t.Setenv("DB_MIN_CONNS", "50")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("FX_USD_COP", "4100.50")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.FX.USDToCOP.Equal(decimal.RequireFromString("4100.50")))
	assert.True(t, cfg.SMTP.Enabled())
}

func TestLoad_SinSecretoJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/inv?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
