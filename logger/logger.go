package logger

import (
	"Addrforge/constants"
	"Addrforge/utils"
	"fmt"
	"log"
	"strings"
	"time"
)

var (
	lastLogType   string
	lineCounter   int64
	currentHeader string
)

const (
	HeaderGenerate = "DERIVED  |  RATE/s  | MATCHED | FAILED |  RAM  | WORKERS"
	HeaderIndex    = "INDEXED  |  RATE/s  |  TOTAL   |  RAM  | DISK"
)

// NewLogger creates a logger without timestamps, which is how all
// status lines are printed.
func NewLogger() *log.Logger {
	return log.New(log.Writer(), "", 0)
}

func PrintSeparator(logType string) {
	// Create separator line with dynamic length
	separator := strings.Repeat("─", constants.LineLength)
	fmt.Printf("%s%s\n", logType, separator)
}

func Banner() {
	fmt.Printf(`
    ___       __    __       ____
   /   | ____/ /___/ /______/ __/___  _________ ____
  / /| |/ __  / __  / ___/ /_/ __ \/ ___/ __ '/ _ \
 / ___ / /_/ / /_/ / /  / __/ /_/ / /  / /_/ /  __/
/_/  |_\__,_/\__,_/_/  /_/  \____/_/   \__, /\___/
                                      /____/  %s enterprise addresses

`, constants.EmojiAddress)
}

// LogError standardizes error logging with line wrapping
func LogError(logger *log.Logger, prefix string, err error, context string) {
	if logger == nil {
		logger = log.Default()
	}

	var message string
	if context != "" {
		message = fmt.Sprintf("%s %s: %v", prefix, context, err)
	} else {
		message = fmt.Sprintf("%s Error: %v", prefix, err)
	}

	printWrapped(logger, prefix, message)
}

// LogDebug standardizes debug logging
func LogDebug(logger *log.Logger, prefix string, format string, args ...interface{}) {
	if constants.DebugMode && format != "" {
		// Use fmt.Print instead of logger.Printf to avoid timestamp
		fmt.Printf("%s%s\n", prefix, fmt.Sprintf(format, args...))
	}
}

// LogStatus standardizes status/info logging with line wrapping
func LogStatus(logger *log.Logger, prefix string, message string, args ...interface{}) {
	if logger == nil {
		logger = log.Default()
	}

	msg := fmt.Sprintf(message, args...)
	printWrapped(logger, prefix, fmt.Sprintf("%s%s", prefix, msg))
}

// LogHeaderStatus prints a separator, then a single trimmed status line
func LogHeaderStatus(logger *log.Logger,
	prefix string,
	message string,
	args ...interface{}) {

	if logger == nil {
		logger = log.Default()
	}
	msg := fmt.Sprintf(message, args...)
	maxLen := constants.LineLength - len(prefix) - 1 // Account for prefix and space
	if maxLen > 1 && len(msg) > maxLen {
		msg = msg[:maxLen-1]
	}
	PrintSeparator(prefix)
	logger.Printf("%s%s", prefix, msg)
}

// LogField prints one "label: value" line, wrapping long values such as
// addresses and hex strings.
func LogField(logger *log.Logger, prefix string, label string, value string) {
	if logger == nil {
		logger = log.Default()
	}
	printWrapped(logger, prefix, fmt.Sprintf("%s%-12s %s", prefix, label+":", value))
}

func printWrapped(logger *log.Logger, prefix string, message string) {
	// Calculate max length for content after prefix
	maxLen := constants.LineLength - len(prefix) - 1 // -1 for space after prefix

	if len(message) > constants.LineLength && maxLen > 0 {
		lines := utils.SplitMessage(message, maxLen, prefix)
		for _, line := range lines {
			logger.Print(line)
		}
		return
	}
	logger.Print(message)
}

func logWithTypeChange(logger *log.Logger, logType string, message string) {
	lineCounter++

	// Check for header printing before resetting counter
	if lastLogType != logType || lineCounter%42 == 0 {
		var header string
		switch logType {
		case constants.LogStats:
			header = HeaderGenerate
		case constants.LogDB:
			header = HeaderIndex
		}

		if header != "" && header != currentHeader {
			PrintSeparator(constants.LogHeader)
			logger.Printf("%s %s", constants.LogHeader, header)
			PrintSeparator(constants.LogHeader)
			currentHeader = header
		}

		if lastLogType != logType {
			lineCounter = 0
		}
	}

	logger.Print(message)
	lastLogType = logType

	if lineCounter >= 42 {
		lineCounter = 0
	}
}

// LogGeneratorStats prints one row of batch generation progress.
func LogGeneratorStats(
	logger *log.Logger,
	derived uint64,
	rate float64,
	matched uint64,
	failed uint64,
	memGB float64,
	workers int,
) {
	message := fmt.Sprintf("[%s] %9s | %7.1fk | %7d | %6d | %4.1fG | %d",
		time.Now().Format("15:04:05"),
		utils.FormatWithCommas(int(derived)),
		rate/1000,
		matched,
		failed,
		memGB,
		workers)

	logWithTypeChange(logger, constants.LogStats, message)
}

// LogIndexProgress prints one row of index import/write progress.
func LogIndexProgress(
	logger *log.Logger,
	written int,
	startTime time.Time,
	total uint64,
	memGB float64,
	diskFreeGB uint64,
) {
	var rate float64
	if elapsed := time.Since(startTime).Seconds(); elapsed > 0 {
		rate = float64(written) / elapsed
	}

	message := fmt.Sprintf("[%s] %9s | %8s | %8s | %4.1fG | %3dG",
		time.Now().Format("15:04:05"),
		utils.FormatWithCommas(written),
		utils.FormatNumber(rate),
		utils.FormatWithCommas(int(total)),
		memGB,
		int(diskFreeGB))

	logWithTypeChange(logger, constants.LogDB, message)
}
