package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/xerrors"

	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

// EnvPrefix prefixes every environment override, e.g. DIDREG_API_LISTEN_ADDRESS.
const EnvPrefix = "DIDREG"

// FromFile loads config from a specified file overriding defaults specified in
// the def parameter. If file does not exist or is empty defaults are assumed.
func FromFile(path string, def *Registry) (*Registry, error) {
	file, err := os.Open(path)
	switch {
	case os.IsNotExist(err):
		return FromEnv(def)
	case err != nil:
		return nil, err
	}

	defer file.Close() //nolint:errcheck // The file is RO
	return FromReader(file, def)
}

// FromReader loads config from a reader instance, then applies environment
// overrides.
func FromReader(reader io.Reader, def *Registry) (*Registry, error) {
	cfg := *def
	if _, err := toml.NewDecoder(reader).Decode(&cfg); err != nil {
		return nil, xerrors.Errorf("decoding config: %w", err)
	}
	return FromEnv(&cfg)
}

// FromEnv applies DIDREG_* environment variables on top of def.
func FromEnv(def *Registry) (*Registry, error) {
	cfg := *def
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, xerrors.Errorf("processing env overrides: %w", err)
	}
	return &cfg, nil
}

// ConfigComment renders cfg as TOML with a header, for writing a fresh
// config.toml.
func ConfigComment(cfg *Registry) ([]byte, error) {
	buf := new(bytes.Buffer)
	_, _ = buf.WriteString("# Default config:\n")
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return nil, xerrors.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate reports every problem in cfg at once.
func (cfg *Registry) Validate() error {
	var result *multierror.Error

	if cfg.API.ListenAddress == "" {
		result = multierror.Append(result, xerrors.New("API.ListenAddress must be set"))
	}
	if time.Duration(cfg.API.Timeout) < 0 {
		result = multierror.Append(result, xerrors.Errorf("API.Timeout must not be negative, got %s", time.Duration(cfg.API.Timeout)))
	}
	if cfg.API.RequestsPerSecond < 0 {
		result = multierror.Append(result, xerrors.Errorf("API.RequestsPerSecond must not be negative, got %v", cfg.API.RequestsPerSecond))
	}
	if cfg.API.RequestsPerSecond > 0 && cfg.API.Burst < 1 {
		result = multierror.Append(result, xerrors.Errorf("API.Burst must be at least 1 when rate limiting, got %d", cfg.API.Burst))
	}
	if cfg.Chain.Deployer != "" {
		if _, err := types.NewFromString(cfg.Chain.Deployer); err != nil {
			result = multierror.Append(result, xerrors.Errorf("Chain.Deployer: %w", err))
		}
	}
	switch cfg.Datastore.Type {
	case DatastoreLevelDB, DatastoreMemory:
	default:
		result = multierror.Append(result, xerrors.Errorf("Datastore.Type must be %q or %q, got %q", DatastoreLevelDB, DatastoreMemory, cfg.Datastore.Type))
	}

	return result.ErrorOrNil()
}
