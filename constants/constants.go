package constants

import (
	"log"
	"runtime"
	"time"
)

// Package-level variables
var (
	Logger          *log.Logger
	DebugMode       bool
	LineLength      = 65        // max line length
	VanityAttempts  = 1_000_000 // give up after this many keys per match
	BenchIterations = 200_000
)

// Specific to threads and batching
var (
	NumWorkers       = runtime.NumCPU() * 2
	IndexBatchSize   = 100_000 // leveldb batch flush size
	StatsLogInterval = 30 * time.Second
	MemoryTarget     = 0.85 // compact above this share of host memory
)

// File paths
const (
	ConfigDir      = ".addrforge"
	IndexDBPath    = ".addrforge/index.db"
	ConfigPath     = ".addrforge/config.yaml"
	EnvelopeFile   = "payment.vk"
	IndexKeyPrefix = "addr:"
)

// Headers and text-based variables
var (
	LogStart  = "[⌛️ START] "
	LogStats  = "[📏 STATS] "
	LogHeader = "[〰️ HEADR] "
	LogWarn   = "[⏰ ALARM] "
	LogError  = "[❌ ERROR] "
	LogDebug  = "[🔍 DEBUG] "
	LogDone   = "[📦  DONE] "
	LogCheck  = "[✨ CHECK] "
	LogMem    = "[🧠 -MEM-] "
	LogInfo   = "[🔎  INFO] "
	LogDB     = "[📁 -DATA] "
	LogKey    = "[🔑 -KEY-] "
	LogAddr   = "[📫 -ADDR] "

	EmojiKey     = "🔑"
	EmojiAddress = "📫"
)
