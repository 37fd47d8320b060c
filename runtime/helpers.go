package runtime

import (
	"fmt"
	goruntime "runtime"
	"runtime/debug"

	"github.com/shirou/gopsutil/mem"

	"Addrforge/constants"
	"Addrforge/index"
	"Addrforge/logger"
	"Addrforge/utils"
)

func verifyIndex(ix *index.Index) error {
	if ix.DB == nil {
		return fmt.Errorf("index failed to initialize properly")
	}
	if _, err := ix.DB.Has([]byte("test"), nil); err != nil {
		return fmt.Errorf("index access error: %w", err)
	}
	return nil
}

// LogSystemInfo prints core count and host memory.
func LogSystemInfo(ctx *AppContext) {
	v, err := mem.VirtualMemory()
	if err != nil {
		logger.LogError(ctx.LocalLog, constants.LogError, err, "Failed to read system memory")
		return
	}
	logger.LogStatus(ctx.LocalLog, constants.LogInfo,
		"System has %d Cores and %.1f GB RAM",
		goruntime.NumCPU(),
		float64(v.Total)/(1024*1024*1024))
	logger.PrintSeparator(constants.LogInfo)
}

// LogSettings prints the resolved configuration.
func LogSettings(ctx *AppContext) {
	logger.LogHeaderStatus(ctx.LocalLog, constants.LogInfo,
		"Network:   %-10v Kind:       %-10v",
		ctx.Params.Network, ctx.Params.Kind)
	logger.LogStatus(ctx.LocalLog, constants.LogInfo,
		"Prefix:    %-10v Backend:    %-10v",
		ctx.Params.Prefix, ctx.Backend.Name())
	logger.LogStatus(ctx.LocalLog, constants.LogInfo,
		"DebugMode: %-10v Workers:    %-10v",
		utils.BoolToEnabledDisabled(ctx.Config.Debug), ctx.Config.Workers)
}

// CheckMemoryUsage frees memory back to the OS once host usage passes
// constants.MemoryTarget.
func CheckMemoryUsage(ctx *AppContext) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return
	}
	usedPercentage := float64(v.Used) / float64(v.Total)

	if usedPercentage > constants.MemoryTarget {
		logger.LogStatus(ctx.LocalLog, constants.LogWarn,
			"Memory (%.1f%% > %.1f%% target) - %.1fGB/%.1fGB [Compacting]",
			usedPercentage*100, constants.MemoryTarget*100,
			float64(v.Used)/(1024*1024*1024),
			float64(v.Total)/(1024*1024*1024))
		goruntime.GC()
		debug.FreeOSMemory()
	}
}
