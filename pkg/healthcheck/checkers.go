package healthcheck

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DatabaseChecker pings the database and reports pool utilization
type DatabaseChecker struct {
	db *gorm.DB
}

// NewDatabaseChecker creates a new database checker
func NewDatabaseChecker(db *gorm.DB) *DatabaseChecker {
	return &DatabaseChecker{db: db}
}

// Check performs database health check
func (d *DatabaseChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Name: "database", LastChecked: start}

	sqlDB, err := d.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	check.Duration = time.Since(start)
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
		return check
	}

	stats := sqlDB.Stats()
	check.Status = StatusHealthy
	check.Metadata = map[string]any{
		"dialect":          d.db.Dialector.Name(),
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"max_open":         stats.MaxOpenConnections,
	}

	// a single-connection pool is always fully in use while a query runs
	if stats.MaxOpenConnections > 1 {
		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		if utilization > 90 {
			check.Status = StatusDegraded
			check.Message = "High connection pool utilization"
		}
	}
	return check
}

// KeyValueStore is the slice of a cache the probe needs
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CacheChecker writes and reads back a probe key
type CacheChecker struct {
	cache KeyValueStore
	key   string
}

// NewCacheChecker creates a new cache checker
func NewCacheChecker(cache KeyValueStore) *CacheChecker {
	return &CacheChecker{cache: cache, key: "healthcheck:probe"}
}

// Check performs cache health check
func (c *CacheChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Name: "cache", LastChecked: start}

	value := []byte(start.UTC().Format(time.RFC3339Nano))
	err := c.cache.Set(ctx, c.key, value, time.Minute)
	var got []byte
	if err == nil {
		got, err = c.cache.Get(ctx, c.key)
	}
	check.Duration = time.Since(start)

	switch {
	case err != nil:
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	case !bytes.Equal(got, value):
		check.Status = StatusDegraded
		check.Message = "Probe value was overwritten"
	default:
		check.Status = StatusHealthy
	}
	return check
}

// Counter reports the number of catalog records
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// CatalogChecker reports an empty recipe catalog as degraded
type CatalogChecker struct {
	catalog Counter
}

// NewCatalogChecker creates a new catalog checker
func NewCatalogChecker(catalog Counter) *CatalogChecker {
	return &CatalogChecker{catalog: catalog}
}

// Check performs catalog health check
func (c *CatalogChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Name: "catalog", LastChecked: start}

	n, err := c.catalog.Count(ctx)
	check.Duration = time.Since(start)
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
		return check
	}

	check.Metadata = map[string]any{"recipes": n}
	if n == 0 {
		check.Status = StatusDegraded
		check.Message = "Recipe catalog is empty; every menu request will fail"
		return check
	}
	check.Status = StatusHealthy
	check.Message = fmt.Sprintf("%d recipes", n)
	return check
}
