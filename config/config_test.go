package config

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/wippyai/chain-abi/chain"
	"github.com/wippyai/chain-abi/errors"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Backend != BackendLinear {
		t.Errorf("Backend = %q, want linear", cfg.Backend)
	}
	if cfg.InitialPages != 1 || cfg.MemoryLimitPages != 0 {
		t.Errorf("pages = %d/%d", cfg.InitialPages, cfg.MemoryLimitPages)
	}
	if cfg.Marshal.MaxDepth != 1<<20 || !cfg.Marshal.DetectCycles {
		t.Errorf("Marshal = %+v", cfg.Marshal)
	}
	if cfg.Logger.Level != "info" || cfg.Logger.Development {
		t.Errorf("Logger = %+v", cfg.Logger)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"CHAINABI_BACKEND":            "wazero",
		"CHAINABI_INITIAL_PAGES":      "2",
		"CHAINABI_MEMORY_LIMIT_PAGES": "8",
		"CHAINABI_MAX_DEPTH":          "64",
		"CHAINABI_DETECT_CYCLES":      "false",
		"CHAINABI_LOG_LEVEL":          "debug",
		"CHAINABI_LOG_DEVELOPMENT":    "true",
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Backend != BackendWazero || cfg.InitialPages != 2 || cfg.MemoryLimitPages != 8 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Marshal.MaxDepth != 64 || cfg.Marshal.DetectCycles {
		t.Errorf("Marshal = %+v", cfg.Marshal)
	}
	if cfg.Logger.Level != "debug" || !cfg.Logger.Development {
		t.Errorf("Logger = %+v", cfg.Logger)
	}
	opts := cfg.MarshalOptions(nil)
	if opts.MaxDepth != 64 || opts.DetectCycles {
		t.Errorf("MarshalOptions = %+v", opts)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	tests := []struct {
		env  map[string]string
		name string
	}{
		{map[string]string{"CHAINABI_BACKEND": "mmap"}, "unknown backend"},
		{map[string]string{"CHAINABI_INITIAL_PAGES": "0"}, "zero pages"},
		{map[string]string{"CHAINABI_INITIAL_PAGES": "4", "CHAINABI_MEMORY_LIMIT_PAGES": "2"}, "initial above limit"},
		{map[string]string{"CHAINABI_MEMORY_LIMIT_PAGES": "70000"}, "limit above 4GiB"},
		{map[string]string{"CHAINABI_MAX_DEPTH": "-1"}, "negative depth"},
		{map[string]string{"CHAINABI_LOG_LEVEL": "loud"}, "bad level"},
		{map[string]string{"CHAINABI_INITIAL_PAGES": "many"}, "not a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.env)
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Phase != errors.PhaseConfig {
				t.Errorf("err = %v, want config error", err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, dev := range []bool{false, true} {
		cfg := &Config{Logger: LoggerConfig{Level: "warn", Development: dev}}
		l, err := cfg.NewLogger()
		if err != nil {
			t.Fatalf("NewLogger: %v", err)
		}
		if l.Core().Enabled(-1) {
			t.Error("debug should be disabled at warn level")
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []Backend{BackendLinear, BackendWazero} {
		t.Run(string(backend), func(t *testing.T) {
			cfg, err := LoadFrom(map[string]string{"CHAINABI_BACKEND": string(backend)})
			if err != nil {
				t.Fatalf("LoadFrom: %v", err)
			}
			store, err := cfg.Open(ctx, nil)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}

			in := chain.Of(chain.Point{X: 1, Y: 2, Z: 3}, chain.Point{X: 4, Y: 5, Z: 6})
			p, err := store.Marshaller.Encode(in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			out, err := store.Marshaller.Decode(p)
			if err != nil || !out.Equal(in) {
				t.Fatalf("Decode = %v, %v", out, err)
			}

			if err := store.Close(ctx); err != nil {
				t.Fatalf("Close: %v", err)
			}
			if store.Heap.Live() != 0 {
				t.Errorf("Live = %d after Close", store.Heap.Live())
			}
		})
	}
}

func TestOpenRejectsInvalid(t *testing.T) {
	cfg := &Config{Backend: "disk", InitialPages: 1, Logger: LoggerConfig{Level: "info"}}
	if _, err := cfg.Open(context.Background(), nil); err == nil {
		t.Error("Open should validate the configuration")
	}
}
