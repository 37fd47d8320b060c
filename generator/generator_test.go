package generator

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Addrforge/address"
	"Addrforge/keys"
)

func newGenerator(t *testing.T, backend keys.Backend, cfg Config) *Generator {
	t.Helper()
	d, err := address.NewDeriver(address.DefaultParams(address.NetworkTestnet), nil)
	require.NoError(t, err)
	g, err := New(backend, d, cfg)
	require.NoError(t, err)
	return g
}

func seedOf(v uint64) *uint64 { return &v }

func TestKnownSeed(t *testing.T) {
	seed, _ := hex.DecodeString("526493008e761dea9e9f4cdb46fea7561fc891af37d98ba232b0c7500330ee52")
	g := newGenerator(t, keys.Ed25519{}, Config{Workers: 1})

	res, ok := g.try(0, seed)
	require.True(t, ok)
	assert.Equal(t, "addr_test1vqdhl77f4epptcj9r4ce8snu47wzqwmjzr4c0ny4svy9z4snfpzu2", res.Derivation.Address)
	assert.Equal(t, "1b7ffbc9ae4215e2451d7193c27caf9c203b7210eb87cc9583085156", res.Derivation.FingerprintHex())
	assert.Equal(t, "445d4da25bbc41674beda01b3f7ed35b3221faf67ac9ebeadee46e0f4d0c8303", res.Derivation.PublicKeyHex())
}

func TestGenerateConsistent(t *testing.T) {
	for _, backend := range []keys.Backend{keys.Ed25519{}, keys.Schnorr{}} {
		g := newGenerator(t, backend, Config{Workers: 4})
		results, err := g.Generate(context.Background(), 20)
		require.NoError(t, err)
		require.Len(t, results, 20)

		seen := make(map[string]bool)
		for _, r := range results {
			pub, err := backend.PublicKey(r.Seed)
			require.NoError(t, err)
			want, err := address.Derive(pub, address.DefaultParams(address.NetworkTestnet))
			require.NoError(t, err)
			assert.Equal(t, want.Address, r.Derivation.Address)
			assert.False(t, seen[r.Derivation.Address], "duplicate %s", r.Derivation.Address)
			seen[r.Derivation.Address] = true
		}
		assert.Equal(t, uint64(20), g.GetStats().Matched.Load())
	}
}

func TestGenerateDeterministic(t *testing.T) {
	run := func(workers int) []string {
		g := newGenerator(t, keys.Ed25519{}, Config{Workers: workers, Seed: seedOf(42), Vanity: "q"})
		results, err := g.Generate(context.Background(), 5)
		require.NoError(t, err)
		addrs := make([]string, len(results))
		for i, r := range results {
			addrs[i] = r.Derivation.Address
		}
		return addrs
	}

	first := run(1)
	assert.Equal(t, first, run(8))
	assert.Equal(t, first, run(3))
}

func TestGenerateVanity(t *testing.T) {
	g := newGenerator(t, keys.Ed25519{}, Config{Workers: 4, Seed: seedOf(7), Vanity: "Q"})
	results, err := g.Generate(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		data := strings.TrimPrefix(r.Derivation.Address, address.PrefixTestnet+"1")
		assert.True(t, strings.HasPrefix(data[vanitySkip:], "q"), r.Derivation.Address)
	}
	stats := g.GetStats()
	assert.GreaterOrEqual(t, stats.Derived.Load(), stats.Matched.Load())
}

func TestGenerateGivesUp(t *testing.T) {
	g := newGenerator(t, keys.Ed25519{}, Config{Workers: 2, Vanity: "qqqqqqqq", MaxAttempts: 10})
	results, err := g.Generate(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrAttemptsExceed), "%v", err)
	assert.Empty(t, results)
	assert.Equal(t, uint64(10), g.GetStats().Derived.Load())
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := newGenerator(t, keys.Ed25519{}, Config{Workers: 2})
	_, err := g.Generate(ctx, 5)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewRejects(t *testing.T) {
	d, err := address.NewDeriver(address.DefaultParams(address.NetworkMainnet), nil)
	require.NoError(t, err)

	_, err = New(keys.Ed25519{}, d, Config{Vanity: "abc"})
	assert.True(t, errors.Is(err, ErrInvalidVanity))

	_, err = New(nil, d, Config{})
	assert.True(t, errors.Is(err, ErrNoBackend))

	results, err := newGenerator(t, keys.Ed25519{}, Config{}).Generate(context.Background(), 0)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestRNGPool(t *testing.T) {
	a, b := NewSeededRNGPool(1), NewSeededRNGPool(1)
	for i := 0; i < 3; i++ {
		ia, sa, err := a.Get()
		require.NoError(t, err)
		ib, sb, err := b.Get()
		require.NoError(t, err)
		assert.Equal(t, uint64(i), ia)
		assert.Equal(t, ia, ib)
		assert.Equal(t, sa, sb)
		assert.Len(t, sa, keys.SeedSize)
	}

	p := NewRNGPool()
	_, s1, err := p.Get()
	require.NoError(t, err)
	_, s2, err := p.Get()
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)

	p.Put(s1)
	assert.Equal(t, make([]byte, keys.SeedSize), s1)
}
