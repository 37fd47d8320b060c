package utils

import (
	"Addrforge/constants"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/mem"
)

const gb = 1 << 30 // 1GB

// FileExists checks if a file exists at the given path
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func BoolToEnabledDisabled(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}

func GetBaseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatal("Could not find home directory:", err)
	}
	return homeDir
}

// EnsureConfigDir creates the per-user data directory under baseDir.
func EnsureConfigDir(baseDir string) error {
	return os.MkdirAll(filepath.Join(baseDir, constants.ConfigDir), 0755)
}

// SystemMemory is a snapshot of host memory in GB.
type SystemMemory struct {
	TotalGB     float64
	AvailableGB float64
	UsedPercent float64
}

// GetSystemMemory reads host memory through gopsutil.
func GetSystemMemory() (*SystemMemory, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("read system memory: %w", err)
	}
	return &SystemMemory{
		TotalGB:     float64(v.Total) / gb,
		AvailableGB: float64(v.Available) / gb,
		UsedPercent: v.UsedPercent,
	}, nil
}

// GetFreeDiskSpace returns available disk space in GB for dir
func GetFreeDiskSpace(dir string) uint64 {
	usage, err := disk.Usage(dir)
	if err != nil {
		return 0
	}
	return usage.Free / gb
}

// number formatter
func FormatNumber(n float64) string {
	switch {
	case n >= 1_000_000: // millions
		return fmt.Sprintf("%.1fM", n/1_000_000)
	case n >= 1_000: // thousands
		return fmt.Sprintf("%.1fk", n/1_000)
	}
	return strconv.FormatFloat(n, 'f', 0, 64)
}

func FormatWithCommas(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	str := strconv.Itoa(n)
	for i := len(str) - 3; i > 0; i -= 3 {
		str = str[:i] + "," + str[i:]
	}
	return sign + str
}

// Helper function to split messages into multiple lines
func SplitMessage(message string, maxLen int, prefix string) []string {
	var lines []string

	// First line uses original prefix
	lines = append(lines, message[:min(len(message), constants.LineLength)])

	// If there's more content, add continuation lines
	if len(message) > constants.LineLength {
		remaining := message[constants.LineLength:]
		for len(remaining) > 0 {
			lineLen := min(len(remaining), maxLen)
			lines = append(lines, fmt.Sprintf("%s ... %s", prefix, remaining[:lineLen]))
			remaining = remaining[lineLen:]
		}
	}

	return lines
}

// Helper function to find minimum of two integers
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
