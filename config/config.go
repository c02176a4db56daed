// Package config loads opskit.toml and the secrets kept next to it in a .env file.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/0rca-network/opskit/archive"
	"github.com/0rca-network/opskit/relay"
	"github.com/0rca-network/opskit/rewrite"
)

const (
	// DefaultPath is read when no --config flag is given and the file exists.
	DefaultPath = "opskit.toml"

	// DefaultEnvFile holds secrets such as the relay private key.
	DefaultEnvFile = ".env"

	DefaultPrivateKeyEnv = "RELAY_PRIVATE_KEY"
	DefaultAPIURL        = "http://144.126.253.20"
	DefaultChainID       = 338
	DefaultTimeout       = 30 * time.Second
)

type Config struct {
	Migrate     MigrateConfig     `toml:"migrate"`
	Standardize StandardizeConfig `toml:"standardize"`
	Env         EnvConfig         `toml:"env"`
	Archive     ArchiveConfig     `toml:"archive"`
	Relay       RelayConfig       `toml:"relay"`
}

// MigrateConfig drives the tree-wide address migration.
type MigrateConfig struct {
	Root         string   `toml:"root" validate:"required"`
	OldValue     string   `toml:"old" validate:"required,nefield=NewValue"`
	NewValue     string   `toml:"new" validate:"required"`
	SkipDirs     []string `toml:"skip_dirs"`
	Extensions   []string `toml:"extensions" validate:"dive,startswith=."`
	NamePrefixes []string `toml:"name_prefixes"`
}

// Filter returns the rewrite filter described by the section.
func (m MigrateConfig) Filter() rewrite.Filter {
	return rewrite.Filter{
		SkipDirs:     slices.Clone(m.SkipDirs),
		Extensions:   slices.Clone(m.Extensions),
		NamePrefixes: slices.Clone(m.NamePrefixes),
	}
}

// StandardizeConfig drives the substitution in a fixed list of files.
type StandardizeConfig struct {
	Files    []string `toml:"files" validate:"required,min=1,dive,required"`
	OldValue string   `toml:"old" validate:"required,nefield=NewValue"`
	NewValue string   `toml:"new" validate:"required"`
}

// EnvConfig drives the KEY=value line update.
type EnvConfig struct {
	File  string `toml:"file" validate:"required"`
	Key   string `toml:"key" validate:"required"`
	Value string `toml:"value"`
}

// ArchiveConfig drives the agent folder packaging.
type ArchiveConfig struct {
	Source    string   `toml:"source" validate:"required"`
	Output    string   `toml:"output" validate:"required"`
	SkipDirs  []string `toml:"skip_dirs"`
	SkipFiles []string `toml:"skip_files"`
}

// Options returns the archive options described by the section.
func (a ArchiveConfig) Options() archive.Options {
	return archive.Options{
		Source:    a.Source,
		Output:    a.Output,
		SkipDirs:  slices.Clone(a.SkipDirs),
		SkipFiles: slices.Clone(a.SkipFiles),
	}
}

// RelayConfig drives the relay handshake probes.
type RelayConfig struct {
	APIURL        string        `toml:"api_url" validate:"required,url"`
	To            string        `toml:"to" validate:"required,eth_addr"`
	Data          string        `toml:"data" validate:"omitempty,startswith=0x"`
	Gas           uint64        `toml:"gas" validate:"required"`
	TTL           time.Duration `toml:"ttl" validate:"gt=0"`
	Timeout       time.Duration `toml:"timeout" validate:"gte=0"`
	ChainID       uint64        `toml:"chain_id"`
	PrivateKeyEnv string        `toml:"private_key_env" validate:"required"`
}

// ProbeOptions converts the section into relay probe options.
func (r RelayConfig) ProbeOptions() (relay.ProbeOptions, error) {
	opts := relay.DefaultProbeOptions()
	opts.To = common.HexToAddress(r.To)
	opts.Gas = new(big.Int).SetUint64(r.Gas)
	opts.TTL = r.TTL

	opts.Data = nil
	if r.Data != "" {
		data, err := hexutil.Decode(r.Data)
		if err != nil {
			return relay.ProbeOptions{}, fmt.Errorf("invalid relay data %q: %w", r.Data, err)
		}
		opts.Data = data
	}

	if r.ChainID != 0 {
		opts.ChainID = new(big.Int).SetUint64(r.ChainID)
	}

	return opts, nil
}

// Default returns the configuration used when opskit.toml leaves a value unset.
func Default() *Config {
	return &Config{
		Migrate: MigrateConfig{
			SkipDirs:     slices.Clone(rewrite.DefaultSkipDirs),
			Extensions:   slices.Clone(rewrite.DefaultExtensions),
			NamePrefixes: slices.Clone(rewrite.DefaultNamePrefixes),
		},
		Archive: ArchiveConfig{
			SkipDirs:  slices.Clone(archive.DefaultSkipDirs),
			SkipFiles: slices.Clone(archive.DefaultSkipFiles),
		},
		Env: EnvConfig{
			Key: "USDC_ADDRESS",
		},
		Relay: RelayConfig{
			APIURL:        DefaultAPIURL,
			To:            relay.DefaultTarget,
			Data:          hexutil.Encode(relay.DefaultData),
			Gas:           relay.DefaultGas,
			TTL:           relay.DefaultTTL,
			Timeout:       DefaultTimeout,
			ChainID:       DefaultChainID,
			PrivateKeyEnv: DefaultPrivateKeyEnv,
		},
	}
}

// Load reads path over the defaults. An empty path reads DefaultPath when it exists and
// otherwise returns the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultPath); err != nil {
			return cfg, nil
		}
		path = DefaultPath
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}

		return nil, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	return cfg, nil
}

// Validate checks one config section against its validate tags.
func Validate(section any) error {
	return validator.New().Struct(section)
}

// LoadPrivateKey reads the hex private key named by varName, loading envFile first when it
// exists. Variables already present in the environment take precedence over the file.
func LoadPrivateKey(envFile, varName string) (string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	pk := strings.TrimSpace(os.Getenv(varName))
	if pk == "" {
		return "", fmt.Errorf("%s not found in environment or %s", varName, envFile)
	}

	return pk, nil
}
