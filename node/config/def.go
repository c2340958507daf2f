package config

import (
	"encoding"
	"time"
)

// Registry is the did-registry daemon config
type Registry struct {
	API       API
	Chain     Chain
	Metrics   Metrics
	Datastore Datastore
}

// API contains configs for API endpoint
type API struct {
	// ListenAddress is the host:port the JSON-RPC server binds to.
	ListenAddress string `split_words:"true"`
	Timeout       Duration
	// RequestsPerSecond limits RPC calls across all clients. Zero disables the limit.
	RequestsPerSecond float64 `split_words:"true"`
	Burst             int
}

// Chain configures the registry instance hosted by the daemon.
type Chain struct {
	// Deployer is the address that runs the constructor on first start.
	Deployer string
	// StrictTime rejects calls whose host time would precede the stored epoch
	// instead of clamping it.
	StrictTime bool `split_words:"true"`
}

type Metrics struct {
	Enabled   bool
	Namespace string
}

type Datastore struct {
	// Type is one of "leveldb" or "memory".
	Type string
}

const (
	DatastoreLevelDB = "leveldb"
	DatastoreMemory  = "memory"
)

// DefaultRegistry returns the default config
func DefaultRegistry() *Registry {
	return &Registry{
		API: API{
			ListenAddress:     "127.0.0.1:1235",
			Timeout:           Duration(30 * time.Second),
			RequestsPerSecond: 0,
			Burst:             16,
		},
		Metrics: Metrics{
			Enabled:   true,
			Namespace: "didregistry",
		},
		Datastore: Datastore{
			Type: DatastoreLevelDB,
		},
	}
}

var _ encoding.TextMarshaler = (*Duration)(nil)
var _ encoding.TextUnmarshaler = (*Duration)(nil)

// Duration is a wrapper type for time.Duration
// for decoding and encoding from/to TOML
type Duration time.Duration

// UnmarshalText implements interface for TOML decoding
func (dur *Duration) UnmarshalText(text []byte) error {
	d, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*dur = Duration(d)
	return err
}

func (dur Duration) MarshalText() ([]byte, error) {
	d := time.Duration(dur)
	return []byte(d.String()), nil
}
