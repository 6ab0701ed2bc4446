package testutils

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/alchemorsel/menuplanner/internal/infrastructure/config"
)

// startContainer runs the request and returns the host and mapped port. The
// test is skipped in short mode or when Docker is unavailable.
func startContainer(t *testing.T, req testcontainers.ContainerRequest, port string) (string, int) {
	t.Helper()
	if testing.Short() {
		t.Skipf("skipping %s container in short mode", req.Image)
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err)
	portNum, err := strconv.Atoi(mapped.Port())
	require.NoError(t, err)
	return host, portNum
}

// StartPostgres runs PostgreSQL 16 and returns a database config pointing at it
func StartPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "menuplanner_test",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432")

	return config.DatabaseConfig{
		Driver:          "postgres",
		Host:            host,
		Port:            port,
		Database:        "menuplanner_test",
		Username:        "test",
		Password:        "test",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		LogLevel:        "silent",
		AutoMigrate:     true,
	}
}

// StartRedis runs Redis 7 and returns a redis config pointing at it
func StartRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
			wait.ForListeningPort("6379/tcp"),
		),
	}, "6379")

	return config.RedisConfig{
		Enabled:      true,
		Host:         host,
		Port:         port,
		PoolSize:     4,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}
