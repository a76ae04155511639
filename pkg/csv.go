package dupescan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/vectorio"
	"golang.org/x/sys/unix"
)

// csvHeader is the fixed column set the core guarantees to report writers.
const csvHeader = "file,hash\n"

// SaveCSV serializes a result table as two-column tabular text with the
// header "file,hash", one row per record in table order. Paths are
// normalized to forward slashes; an unreadable fingerprint is written as the
// sentinel marker. Rows become one iovec each and are flushed with writev in
// IOV_MAX-sized batches.
func SaveCSV(table FileTable, outputPath string) error {
	defer VerboseEnter()()

	lines := make([][]byte, 0, table.Len()+1)
	lines = append(lines, []byte(csvHeader))
	totalSize := len(csvHeader)

	for _, record := range table.Records() {
		line := []byte(csvField(NormalizePath(record.Path)) + "," + csvField(record.Hash.String()) + "\n")
		lines = append(lines, line)
		totalSize += len(line)
	}

	iovecs := make([]syscall.Iovec, len(lines))
	for i, line := range lines {
		iovecs[i] = syscall.Iovec{
			Base: &line[0],
			Len:  uint64(len(line)),
		}
	}

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", outputPath, err)
	}
	defer file.Close()

	// Chunk to respect the IOV_MAX limit
	maxIovecs, err := getSystemIOVMax()
	if err != nil {
		return fmt.Errorf("failed to get system IOV_MAX: %w", err)
	}

	totalWritten := 0
	for offset := 0; offset < len(iovecs); offset += maxIovecs {
		end := offset + maxIovecs
		if end > len(iovecs) {
			end = len(iovecs)
		}
		chunk := iovecs[offset:end]

		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), chunk)
		if err != nil {
			return fmt.Errorf("failed to write report chunk with vectorio: %w", err)
		}
		totalWritten += nw
	}

	if totalWritten != totalSize {
		return fmt.Errorf("report write incomplete: wrote %d bytes, expected %d", totalWritten, totalSize)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync report file %s: %w", outputPath, err)
	}

	if IsDebugEnabled("csv") {
		VerboseLog(3, "report %s: %d rows, %d bytes, writev batches of %d", outputPath, table.Len(), totalSize, maxIovecs)
	}
	VerboseLog(2, "wrote %d rows to %s", table.Len(), outputPath)
	return nil
}

// csvField quotes a value containing a comma, quote, or line break, doubling
// embedded quotes, so rows stay two columns wide for any path.
func csvField(value string) string {
	if !strings.ContainsAny(value, ",\"\n\r") {
		return value
	}
	return "\"" + strings.ReplaceAll(value, "\"", "\"\"") + "\""
}

// NormalizePath rewrites OS path separators to forward slashes so the same
// tree reports identically across platforms.
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// getSystemIOVMax returns the system's IOV_MAX limit using sysconf(_SC_IOV_MAX)
// Falls back to conservative default if sysconf fails
func getSystemIOVMax() (int, error) {
	// _SC_IOV_MAX constant for sysconf() - platform specific
	const SC_IOV_MAX = 60      // Linux value, may vary on other platforms
	const fallbackIOVMax = 1024 // Conservative default per golang/go#58623

	// Call sysconf directly using unix.Syscall (syscall 99 on Linux)
	r1, _, errno := unix.Syscall(99, uintptr(SC_IOV_MAX), 0, 0)
	if errno != 0 {
		return fallbackIOVMax, nil
	}

	iovMax := int(r1)

	// Sanity check: between 1 and 1M, otherwise fall back
	if iovMax <= 0 || iovMax > 1<<20 {
		return fallbackIOVMax, nil
	}

	return iovMax, nil
}
