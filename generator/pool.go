package generator

import (
	"crypto/rand"
	"fmt"
	"sync"

	exprand "golang.org/x/exp/rand"

	"Addrforge/keys"
)

// RNGPool hands out numbered 32-byte seeds. Buffers are recycled through a
// sync.Pool. A seeded pool draws from a deterministic PCG source so a run
// can be reproduced; otherwise seeds come from crypto/rand.
type RNGPool struct {
	pool sync.Pool
	mu   sync.Mutex
	rnd  *exprand.Rand
	next uint64
}

func NewRNGPool() *RNGPool {
	return &RNGPool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]byte, keys.SeedSize)
			},
		},
	}
}

// NewSeededRNGPool returns a pool whose seed sequence is fixed by seed.
func NewSeededRNGPool(seed uint64) *RNGPool {
	p := NewRNGPool()
	p.rnd = exprand.New(exprand.NewSource(seed))
	return p
}

// Get returns the next seed and its position in the sequence.
func (p *RNGPool) Get() (uint64, []byte, error) {
	buf := p.pool.Get().([]byte)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rnd != nil {
		for i := range buf {
			buf[i] = byte(p.rnd.Uint32())
		}
	} else if _, err := rand.Read(buf); err != nil {
		p.pool.Put(buf)
		return 0, nil, fmt.Errorf("read random seed: %w", err)
	}

	idx := p.next
	p.next++
	return idx, buf, nil
}

// Put wipes buf and returns it to the pool.
func (p *RNGPool) Put(buf []byte) {
	if len(buf) != keys.SeedSize {
		return
	}
	for i := range buf {
		buf[i] = 0
	}
	p.pool.Put(buf)
}
