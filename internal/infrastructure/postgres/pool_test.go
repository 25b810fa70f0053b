package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abastoflow/abastoflow/pkg/config"
)

func TestPoolConfig_TamañoDesdeConfig(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{
		Host: "db", Port: 5432, User: "app", Password: "x", DBName: "abasto", SSLMode: "disable",
		MaxConns:          7,
		MinConns:          1,
		MaxConnLifetime:   10 * time.Minute,
		MaxConnIdleTime:   time.Minute,
		HealthCheckPeriod: 15 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(7), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
	assert.Equal(t, 10*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, 15*time.Second, pc.HealthCheckPeriod)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfig_DatabaseURLTienePrioridad(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{
		DatabaseURL: "postgres://u:p@gestionado.example.com:6543/abasto?sslmode=disable",
		Host:        "localhost",
		Port:        5432,
		MaxConns:    3,
	})
	require.NoError(t, err)

	assert.Equal(t, "gestionado.example.com", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, int32(3), pc.MaxConns)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@host:noesunpuerto/x"})
	assert.Error(t, err)
}
