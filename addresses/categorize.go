// Package addresses tallies stored addresses by kind and network.
package addresses

import (
	"fmt"
	"sync"

	"Addrforge/address"
	"Addrforge/constants"
	"Addrforge/logger"
)

// Category holds per-kind, per-network counts.
type Category struct {
	mu            sync.RWMutex
	KeyMainnet    uint64
	KeyTestnet    uint64
	ScriptMainnet uint64
	ScriptTestnet uint64
}

// CategorizeAddress parses addr and bumps the matching counter. Addresses
// that do not parse are skipped.
func CategorizeAddress(addr string, category *Category) {
	dec, err := address.Parse(addr)
	if err != nil {
		logger.LogDebug(nil, constants.LogDebug,
			"Failed to decode address %s: %v", addr, err)
		return
	}
	category.Add(dec.Kind(), dec.Network())
}

// Add bumps the counter for kind on network.
func (c *Category) Add(kind address.Kind, network address.Network) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case kind == address.KindEnterpriseKey && network == address.NetworkMainnet:
		c.KeyMainnet++
	case kind == address.KindEnterpriseKey:
		c.KeyTestnet++
	case kind == address.KindEnterpriseScript && network == address.NetworkMainnet:
		c.ScriptMainnet++
	case kind == address.KindEnterpriseScript:
		c.ScriptTestnet++
	}
}

func (c *Category) Total() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.KeyMainnet + c.KeyTestnet + c.ScriptMainnet + c.ScriptTestnet
}

func (c *Category) Reset() {
	c.mu.Lock()
	c.KeyMainnet, c.KeyTestnet, c.ScriptMainnet, c.ScriptTestnet = 0, 0, 0, 0
	c.mu.Unlock()
}

func (c *Category) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fmt.Sprintf("key: %d mainnet / %d testnet, script: %d mainnet / %d testnet",
		c.KeyMainnet, c.KeyTestnet, c.ScriptMainnet, c.ScriptTestnet)
}
