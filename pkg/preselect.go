package dupescan

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// ============================================================================
// PRE-SELECTION FILTERS
// ============================================================================
//
// Both filters are pure optimizations: a file whose size (or leading bytes)
// is unique cannot be a content duplicate of anything else in the set, so
// dropping it before hashing never changes the final duplicate report. A
// candidate that vanished or turned unreadable since enumeration is dropped
// silently; such a file could never have joined a duplicate group anyway.

// sizeRecord pairs a path with its current size. Transient inside the
// pre-filters; never escapes.
type sizeRecord struct {
	path string
	size int64
}

// PreselectBySize keeps only paths whose size is shared by at least one
// other surviving candidate, preserving input order. Paths that no longer
// exist as regular files are excluded. If every file has a unique size the
// result is empty and nothing needs hashing downstream.
func PreselectBySize(paths []string) []string {
	defer VerboseEnter()()

	records := make([]sizeRecord, 0, len(paths))
	counts := make(map[int64]int, len(paths))

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			if IsDebugEnabled("filter") {
				VerboseLog(3, "size pre-selection dropping %s: stat failed or not regular", path)
			}
			continue
		}
		records = append(records, sizeRecord{path: path, size: info.Size()})
		counts[info.Size()]++
	}

	kept := make([]string, 0, len(records))
	for _, record := range records {
		if counts[record.size] >= 2 {
			kept = append(kept, record.path)
		}
	}

	VerboseLog(2, "size pre-selection kept %d of %d files", len(kept), len(paths))
	return kept
}

// headKey identifies a file's size together with a cheap non-cryptographic
// sum of its leading bytes.
type headKey struct {
	size int64
	sum  uint64
}

// PreselectByHead keeps only paths colliding on (size, head sum), preserving
// input order. Identical content implies an identical head, so no true
// duplicate set is ever split; the survivors still go through the full
// digest. Meant to run after PreselectBySize on trees where many files share
// sizes but differ early.
func PreselectByHead(paths []string) []string {
	defer VerboseEnter()()

	type headRecord struct {
		path string
		key  headKey
	}

	records := make([]headRecord, 0, len(paths))
	counts := make(map[headKey]int, len(paths))
	buffer := make([]byte, headSampleSize)

	for _, path := range paths {
		key, ok := headSample(path, buffer)
		if !ok {
			if IsDebugEnabled("filter") {
				VerboseLog(3, "head pre-selection dropping %s: unreadable", path)
			}
			continue
		}
		records = append(records, headRecord{path: path, key: key})
		counts[key]++
	}

	kept := make([]string, 0, len(records))
	for _, record := range records {
		if counts[record.key] >= 2 {
			kept = append(kept, record.path)
		}
	}

	VerboseLog(2, "head pre-selection kept %d of %d files", len(kept), len(paths))
	return kept
}

// headSample reads up to headSampleSize leading bytes of one file and
// returns its head key. ok is false when the file cannot be opened, is not
// regular, or fails mid-read.
func headSample(path string, buffer []byte) (headKey, bool) {
	file, err := os.Open(path)
	if err != nil {
		return headKey{}, false
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return headKey{}, false
	}

	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return headKey{}, false
	}

	return headKey{size: info.Size(), sum: xxhash.Sum64(buffer[:n])}, true
}
