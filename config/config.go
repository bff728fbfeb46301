// Package config loads chain-abi settings from the environment and opens the
// configured memory backend.
package config

import (
	"context"
	"fmt"

	env "github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	chainabi "github.com/wippyai/chain-abi"
	"github.com/wippyai/chain-abi/engine"
	"github.com/wippyai/chain-abi/errors"
	"github.com/wippyai/chain-abi/foreign"
	"github.com/wippyai/chain-abi/linear"
	"github.com/wippyai/chain-abi/marshal"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "CHAINABI_"

// Backend selects where foreign records live.
type Backend string

const (
	BackendLinear Backend = "linear" // in-process byte buffer
	BackendWazero Backend = "wazero" // exported memory of a wazero instance
)

// Config holds the complete configuration.
type Config struct {
	Backend          Backend       `json:"backend"            env:"BACKEND"            envDefault:"linear"`
	InitialPages     uint32        `json:"initial_pages"      env:"INITIAL_PAGES"      envDefault:"1"`
	MemoryLimitPages uint32        `json:"memory_limit_pages" env:"MEMORY_LIMIT_PAGES"`
	Marshal          MarshalConfig `json:"marshal"`
	Logger           LoggerConfig  `json:"logger"             envPrefix:"LOG_"`
}

// MarshalConfig holds the decode and release limits.
type MarshalConfig struct {
	MaxDepth     int  `json:"max_depth"     env:"MAX_DEPTH"     envDefault:"1048576"`
	DetectCycles bool `json:"detect_cycles" env:"DETECT_CYCLES" envDefault:"true"`
}

type LoggerConfig struct {
	Level       string `json:"level"       env:"LEVEL"       envDefault:"info"`
	Development bool   `json:"development" env:"DEVELOPMENT"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return load(env.Options{Prefix: EnvPrefix})
}

// LoadFrom reads the configuration from environ instead of the process
// environment. Keys carry the prefix.
func LoadFrom(environ map[string]string) (*Config, error) {
	return load(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func load(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLinear, BackendWazero:
	default:
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown backend %q", c.Backend))
	}
	if c.InitialPages == 0 {
		return errors.InvalidInput(errors.PhaseConfig, "initial pages must be positive")
	}
	if c.MemoryLimitPages > linear.MaxPages {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("memory limit above %d pages", linear.MaxPages))
	}
	if c.MemoryLimitPages > 0 && c.InitialPages > c.MemoryLimitPages {
		return errors.InvalidInput(errors.PhaseConfig, "initial pages exceed memory limit")
	}
	if c.Marshal.MaxDepth < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "max depth must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Logger.Level); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}
	return nil
}

// NewLogger builds the logger described by the configuration.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logger.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}
	zcfg := zap.NewProductionConfig()
	if c.Logger.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// MarshalOptions returns the marshaller options for the configuration.
func (c *Config) MarshalOptions(logger *zap.Logger) *marshal.Options {
	return &marshal.Options{
		Logger:       logger,
		MaxDepth:     c.Marshal.MaxDepth,
		DetectCycles: c.Marshal.DetectCycles,
	}
}

// Store is an opened backend with a heap and a marshaller over it.
type Store struct {
	Heap       *foreign.Heap
	Marshaller *marshal.Marshaller
	guest      *engine.Guest
}

// Open creates the configured backend. A nil logger disables logging.
func (c *Config) Open(ctx context.Context, logger *zap.Logger) (*Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		mem   chainabi.Memory
		alloc *linear.FreeList
		guest *engine.Guest
	)
	switch c.Backend {
	case BackendWazero:
		g, err := engine.NewGuest(ctx, &engine.GuestConfig{
			Name:             "chainabi",
			InitialPages:     c.InitialPages,
			MemoryLimitPages: c.MemoryLimitPages,
		})
		if err != nil {
			return nil, err
		}
		mem, alloc, guest = g.Memory(), g.Allocator(), g
	default:
		buf := linear.NewBuffer(c.InitialPages, c.MemoryLimitPages)
		mem, alloc = buf, linear.NewFreeList(buf)
	}

	heap := foreign.NewHeap(mem, alloc, foreign.WithLogger(logger.Named("heap")))
	logger.Debug("store opened", zap.String("backend", string(c.Backend)), zap.Uint32("initial_pages", c.InitialPages))
	return &Store{
		Heap:       heap,
		Marshaller: marshal.New(heap, c.MarshalOptions(logger.Named("marshal"))),
		guest:      guest,
	}, nil
}

// Close releases every live record and shuts the backend down.
func (s *Store) Close(ctx context.Context) error {
	_, err := s.Heap.Close()
	if s.guest != nil {
		if gerr := s.guest.Close(ctx); err == nil {
			err = gerr
		}
	}
	return err
}
