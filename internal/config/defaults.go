package config

import (
	"errors"
	"fmt"
)

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	setInt(&c.HTTP.ReadTimeoutSec, 10)
	setInt(&c.HTTP.WriteTimeoutSec, 30)
	setInt(&c.HTTP.ShutdownSec, 10)

	setString(&c.Storage.Driver, DriverMemory)
	setInt(&c.Storage.ReadinessTimeoutSec, 10)
	setString(&c.Storage.SnapshotKey, "basil:snapshot")
	setInt(&c.Storage.SnapshotIntervalSec, 30)

	setInt(&c.Search.DefaultTopK, 10)
	setInt(&c.Search.MaxTopK, 1000)
	setInt(&c.Search.MaxBatchSize, 1000)
	setInt(&c.Search.DefaultPageSize, 20)
	setInt(&c.Search.MaxPageSize, 100)

	setString(&c.Embedding.Provider, "openai")
	setString(&c.Embedding.Model, "text-embedding-3-small")
	setInt(&c.Embedding.TimeoutSec, 30)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		fail("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverRedis, DriverValkey:
		if len(c.Storage.Addrs) == 0 {
			fail("storage.addrs is required for driver %q", c.Storage.Driver)
		}
	default:
		fail("storage.driver must be one of memory, redis, valkey, got %q", c.Storage.Driver)
	}
	if c.Search.DefaultTopK > c.Search.MaxTopK {
		fail("search.default_top_k (%d) exceeds search.max_top_k (%d)", c.Search.DefaultTopK, c.Search.MaxTopK)
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		fail("search.default_page_size (%d) exceeds search.max_page_size (%d)",
			c.Search.DefaultPageSize, c.Search.MaxPageSize)
	}
	if c.Embedding.Dimensions < 0 {
		fail("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}
	return errors.Join(errs...)
}
