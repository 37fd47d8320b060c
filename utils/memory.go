package utils

import "runtime"

// MemStats is the Go heap in GB.
type MemStats struct {
	AllocatedGB float64
	SystemGB    float64
	TotalGB     float64
	NumGC       uint32
}

func GetMemStats() *MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &MemStats{
		AllocatedGB: float64(m.Alloc) / gb,
		SystemGB:    float64(m.Sys) / gb,
		TotalGB:     float64(m.TotalAlloc) / gb,
		NumGC:       m.NumGC,
	}
}
