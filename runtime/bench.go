package runtime

import (
	"fmt"
	"time"

	"Addrforge/constants"
	"Addrforge/generator"
	"Addrforge/logger"
	"Addrforge/utils"
)

// BenchResult summarises one Benchmark run.
type BenchResult struct {
	Iterations int
	Duration   time.Duration
	Rate       float64 // derivations per second
	Mem        *utils.MemStats
}

// Benchmark times seed-to-address derivation on a single goroutine with a
// fixed seed sequence and reports memory afterwards.
func Benchmark(ctx *AppContext, iterations int) (*BenchResult, error) {
	if iterations <= 0 {
		iterations = constants.BenchIterations
	}

	pool := generator.NewSeededRNGPool(uint64(iterations))

	logger.LogHeaderStatus(ctx.LocalLog, constants.LogStart,
		"Benchmark: %s derivations (%s)", utils.FormatWithCommas(iterations), ctx.Backend.Name())

	start := time.Now()
	for i := 0; i < iterations; i++ {
		_, seed, err := pool.Get()
		if err != nil {
			return nil, err
		}
		pub, err := ctx.Backend.PublicKey(seed)
		if err != nil {
			pool.Put(seed)
			continue
		}
		if _, err := ctx.Deriver.Derive(pub); err != nil {
			return nil, fmt.Errorf("derive: %w", err)
		}
		pool.Put(seed)
	}
	duration := time.Since(start)

	res := &BenchResult{
		Iterations: iterations,
		Duration:   duration,
		Mem:        utils.GetMemStats(),
	}
	if s := duration.Seconds(); s > 0 {
		res.Rate = float64(iterations) / s
	}

	logger.LogStatus(ctx.LocalLog, constants.LogStats,
		"%s derivations in %.3f seconds (%s/s)",
		utils.FormatWithCommas(iterations), duration.Seconds(), utils.FormatNumber(res.Rate))
	logger.LogStatus(ctx.LocalLog, constants.LogMem,
		"Heap %.3fGB, Sys %.3fGB, GC cycles %d",
		res.Mem.AllocatedGB, res.Mem.SystemGB, res.Mem.NumGC)
	if m, err := utils.GetSystemMemory(); err == nil {
		logger.LogStatus(ctx.LocalLog, constants.LogMem,
			"Host %.1fGB of %.1fGB used (%.0f%%)",
			m.TotalGB-m.AvailableGB, m.TotalGB, m.UsedPercent)
	}
	return res, nil
}
