// Package generator derives batches of fresh addresses from random seeds,
// optionally keeping only those whose data part starts with a vanity string.
package generator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"Addrforge/address"
	"Addrforge/bech32"
	"Addrforge/constants"
	"Addrforge/keys"
)

var (
	ErrInvalidVanity  = errors.New("vanity string outside the bech32 alphabet")
	ErrNoBackend      = errors.New("no key backend")
	ErrAttemptsExceed = errors.New("vanity search gave up")
)

// vanitySkip is the number of data characters fixed by the header byte.
const vanitySkip = 2

// Config tunes a Generator. Zero values take the constants defaults.
type Config struct {
	Workers     int
	Seed        *uint64 // deterministic seed sequence when set
	Vanity      string
	MaxAttempts int // per requested address
}

// Stats counts keys tried by a Generator.
type Stats struct {
	Derived atomic.Uint64
	Matched atomic.Uint64
	Failed  atomic.Uint64
}

// Result is one generated address with the seed that produced it.
type Result struct {
	Index      uint64
	Seed       []byte
	Derivation *address.Derivation
}

type Generator struct {
	backend keys.Backend
	deriver *address.Deriver
	cfg     Config
	pool    *RNGPool
	stats   *Stats
}

// New checks cfg and builds a Generator. Both backend and deriver are
// shared by every worker.
func New(backend keys.Backend, deriver *address.Deriver, cfg Config) (*Generator, error) {
	if backend == nil || deriver == nil {
		return nil, ErrNoBackend
	}
	if cfg.Workers <= 0 {
		cfg.Workers = constants.NumWorkers
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = constants.VanityAttempts
	}
	cfg.Vanity = strings.ToLower(cfg.Vanity)
	for _, ch := range cfg.Vanity {
		if !strings.ContainsRune(bech32.Charset, ch) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVanity, ch)
		}
	}

	pool := NewRNGPool()
	if cfg.Seed != nil {
		pool = NewSeededRNGPool(*cfg.Seed)
	}

	return &Generator{
		backend: backend,
		deriver: deriver,
		cfg:     cfg,
		pool:    pool,
		stats:   new(Stats),
	}, nil
}

func (g *Generator) GetStats() *Stats {
	return g.stats
}

// Matches reports whether addr carries the configured vanity string right
// after the header characters.
func (g *Generator) Matches(addr string) bool {
	if g.cfg.Vanity == "" {
		return true
	}
	prefix := g.deriver.Params().Prefix
	data := addr[len(prefix)+1:]
	if len(data) < vanitySkip {
		return false
	}
	return strings.HasPrefix(data[vanitySkip:], g.cfg.Vanity)
}

// Generate derives count matching addresses using the configured number of
// workers. With a fixed seed the result is the same for every run and
// worker count. Results are ordered by their position in the seed sequence.
func (g *Generator) Generate(ctx context.Context, count int) ([]*Result, error) {
	if count <= 0 {
		return nil, nil
	}

	var (
		mu       sync.Mutex
		results  = make([]*Result, 0, count)
		attempts atomic.Int64
		wg       sync.WaitGroup
		firstErr error
	)
	limit := int64(count) * int64(g.cfg.MaxAttempts)

	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	worker := func() {
		defer wg.Done()
		for ctx.Err() == nil {
			if attempts.Add(1) > limit {
				return
			}

			idx, seed, err := g.pool.Get()
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancel()
				return
			}

			res, ok := g.try(idx, seed)
			if !ok {
				g.pool.Put(seed)
				continue
			}

			mu.Lock()
			results = append(results, res)
			if len(results) >= count {
				cancel()
			}
			mu.Unlock()
		}
	}

	workers := g.cfg.Workers
	if workers > count*g.cfg.MaxAttempts {
		workers = count * g.cfg.MaxAttempts
	}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go worker()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	// Every seed below the highest handed out has been tried, so the first
	// count matches by index do not depend on scheduling.
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	if len(results) > count {
		results = results[:count]
	}

	if len(results) < count {
		if err := parent.Err(); err != nil {
			return results, err
		}
		return results, fmt.Errorf("%w: %d of %d found after %d keys",
			ErrAttemptsExceed, len(results), count, limit)
	}
	return results, nil
}

// try derives one address from seed. The seed is kept by the result on a
// match.
func (g *Generator) try(idx uint64, seed []byte) (*Result, bool) {
	pub, err := g.backend.PublicKey(seed)
	if err != nil {
		g.stats.Failed.Add(1)
		return nil, false
	}
	d, err := g.deriver.Derive(pub)
	if err != nil {
		g.stats.Failed.Add(1)
		return nil, false
	}
	g.stats.Derived.Add(1)

	if !g.Matches(d.Address) {
		return nil, false
	}
	g.stats.Matched.Add(1)
	return &Result{Index: idx, Seed: seed, Derivation: d}, true
}
