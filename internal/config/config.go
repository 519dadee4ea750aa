// Package config loads the server configuration from config/<env>.yaml.
package config

// Config is the root of the YAML document.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	Search    SearchConfig    `yaml:"search"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Fixtures  FixturesConfig  `yaml:"fixtures"`
	Logging   LoggingConfig   `yaml:"logging"`
}

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
)

type LoggingConfig struct {
	Level string `yaml:"level"` // empty keeps the environment preset
}

type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// StorageConfig picks the snapshot backend. With the memory driver nothing
// survives a restart.
type StorageConfig struct {
	Driver              string   `yaml:"driver"`
	Addrs               []string `yaml:"addrs"`
	Username            string   `yaml:"username"`
	Password            string   `yaml:"password"`
	DB                  int      `yaml:"db"`
	ReadinessTimeoutSec int      `yaml:"readiness_timeout_sec"`
	SnapshotKey         string   `yaml:"snapshot_key"`
	SnapshotIntervalSec int      `yaml:"snapshot_interval_sec"`
}

// Persistent reports whether a KV backend is configured.
func (s StorageConfig) Persistent() bool {
	return s.Driver == DriverRedis || s.Driver == DriverValkey
}

type SearchConfig struct {
	DefaultTopK     int `yaml:"default_top_k"`
	MaxTopK         int `yaml:"max_top_k"`
	MaxBatchSize    int `yaml:"max_batch_size"`
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// EmbeddingConfig configures text queries. An empty APIKey disables them.
type EmbeddingConfig struct {
	Provider         string `yaml:"provider"`
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"`
	TimeoutSec       int    `yaml:"timeout_sec"`
	CacheTTLSec      int    `yaml:"cache_ttl_sec"`
}

func (e EmbeddingConfig) Enabled() bool { return e.APIKey != "" }

type FixturesConfig struct {
	SeedDemo bool `yaml:"seed_demo"`
}
