package runtime

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"Addrforge/address"
	"Addrforge/config"
	"Addrforge/constants"
	"Addrforge/index"
	"Addrforge/keys"
	"Addrforge/utils"
)

// AppContext carries everything a run mode needs.
type AppContext struct {
	LocalLog  *log.Logger
	Config    *config.Config
	Params    address.Params
	Backend   keys.Backend
	Deriver   *address.Deriver
	Index     *index.Index
	IndexPath string

	ShutdownChan chan struct{}
	DoneChan     chan struct{}
	Wg           sync.WaitGroup
	CloseOnce    sync.Once
}

// Initialize resolves cfg into a backend and deriver. The index is opened
// separately by OpenIndex.
func Initialize(localLog *log.Logger, cfg *config.Config) (*AppContext, error) {
	if localLog == nil {
		localLog = log.New(os.Stdout, "", 0)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	params, err := cfg.AddressParams()
	if err != nil {
		return nil, err
	}
	backend, err := cfg.KeyBackend()
	if err != nil {
		return nil, err
	}
	deriver, err := address.NewDeriver(params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build deriver: %w", err)
	}

	constants.Logger = localLog
	constants.DebugMode = cfg.Debug

	return &AppContext{
		LocalLog:     localLog,
		Config:       cfg,
		Params:       params,
		Backend:      backend,
		Deriver:      deriver,
		IndexPath:    cfg.IndexPath,
		ShutdownChan: make(chan struct{}),
		DoneChan:     make(chan struct{}),
	}, nil
}

// PrepareIndex opens the index when one is configured or when the caller
// needs one for export or import. A needed index with no configured path
// lives under the default base directory.
func (ctx *AppContext) PrepareIndex(needed bool) error {
	if ctx.IndexPath == "" {
		if !needed {
			return nil
		}
		base := utils.GetBaseDir()
		if err := utils.EnsureConfigDir(base); err != nil {
			return err
		}
		ctx.IndexPath = filepath.Join(base, constants.IndexDBPath)
	}
	return ctx.OpenIndex()
}

// OpenIndex opens the address index at ctx.IndexPath.
func (ctx *AppContext) OpenIndex() error {
	if ctx.Index != nil {
		return nil
	}
	if ctx.IndexPath == "" {
		return fmt.Errorf("no index path configured")
	}
	ix, err := index.Open(ctx.LocalLog, ctx.IndexPath)
	if err != nil {
		return err
	}
	if err := verifyIndex(ix); err != nil {
		ix.Close()
		return fmt.Errorf("index verification failed: %w", err)
	}
	ctx.Index = ix
	return nil
}

// Close waits for background work and closes the index.
func (ctx *AppContext) Close() error {
	ctx.Wg.Wait()
	if ctx.Index == nil {
		return nil
	}
	err := ctx.Index.Close()
	ctx.Index = nil
	return err
}
