package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/chain-abi/chain"
	"github.com/wippyai/chain-abi/config"
	"github.com/wippyai/chain-abi/engine"
)

func main() {
	var (
		length      = flag.Int("n", -1, "Chain length (negative for a random length)")
		seed        = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
		stop        = flag.Float64("stop", 0.25, "Stop probability per node for random chains")
		backend     = flag.String("backend", "", "Memory backend: linear or wazero (overrides CHAINABI_BACKEND)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *backend != "" {
		cfg.Backend = config.Backend(*backend)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	if *interactive {
		if err := runInteractive(cfg, *seed, *stop); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(cfg, *length, *seed, *stop, styled); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, length int, seed int64, stop float64, styled bool) error {
	ctx := context.Background()

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()
	engine.SetLogger(logger.Named("engine"))

	store, err := cfg.Open(ctx, logger)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	defer store.Close(ctx)

	r := rand.New(rand.NewSource(seed))
	c := buildChain(r, length, stop)
	fmt.Printf("Backend: %s\n", cfg.Backend)
	fmt.Printf("Seed: %d\n", seed)
	fmt.Printf("Chain (%d nodes): %v\n\n", c.Len(), c)

	head, err := store.Marshaller.Encode(c)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	dump, err := renderDump(store.Heap, head, newPalette(styled))
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	fmt.Println(dump)

	decoded, err := store.Marshaller.Decode(head)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if !decoded.Equal(c) {
		return fmt.Errorf("round trip mismatch: %v != %v", decoded, c)
	}
	fmt.Println("Round trip: ok")

	n, err := store.Marshaller.ReleaseChain(head)
	if err != nil {
		return fmt.Errorf("release: %w", err)
	}
	st := store.Heap.Stats()
	fmt.Printf("Released %d nodes (allocations %d, releases %d, reads %d, writes %d)\n",
		n, st.Allocations, st.Releases, st.Reads, st.Writes)

	logger.Debug("run finished", zap.Int("nodes", n))
	return nil
}

// buildChain returns a random chain of the given length, or of geometric
// length when length is negative.
func buildChain(r *rand.Rand, length int, stop float64) chain.Chain {
	if length < 0 {
		return chain.Random(r, stop)
	}
	points := make([]chain.Point, length)
	for i := range points {
		points[i] = chain.Point{X: float64(i), Y: r.NormFloat64(), Z: r.NormFloat64()}
	}
	return chain.Of(points...)
}
