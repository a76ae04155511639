package dupescan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ============================================================================
// TYPE DEFINITIONS
// ============================================================================

// Symlink handling modes for directory symlinks encountered during
// enumeration. File symlinks are always yielded and hashed through to their
// target.
const (
	SymlinkNone      = "none"      // never descend directory symlinks (default)
	SymlinkContained = "contained" // descend only when the target stays under the root
	SymlinkAll       = "all"       // descend all directory symlinks
)

// ScanOptions carries the knobs shared by the pipeline stages. The zero
// value is a full scan: no extension filter, no pre-selection, SHA-256,
// default buffer and worker pool, no progress, not interruptible.
type ScanOptions struct {
	Extension   string          // exact extension filter including the dot, e.g. ".jpg"
	FastScan    bool            // size pre-selection before hashing
	HeadCheck   bool            // head-sample pre-filter before hashing
	Algorithm   *HashAlgorithm  // nil means SHA-256
	BufferSize  int             // hash chunk size, 0 means DefaultHashBufferSize
	Workers     int             // hash pool size, 0 means DefaultHashWorkers
	Progress    ProgressFunc    // per-file hashing observer, may be nil
	Shutdown    <-chan struct{} // closed to interrupt batch operations
	Ignore      *IgnoreManager  // path ignore patterns, may be nil
	SymlinkMode string          // directory symlink mode, "" means SymlinkNone
}

// ============================================================================
// FILESYSTEM ENUMERATION
// ============================================================================

// EnumerateFiles walks the tree under root and returns the absolute paths of
// every regular file, optionally restricted to one extension. Directory
// entries are visited in sorted order so one traversal is reproducible;
// callers must not rely on the order for correctness. A directory that
// cannot be read aborts the walk with an error.
func EnumerateFiles(root string, opts ScanOptions) ([]string, error) {
	defer VerboseEnter()()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	absRoot = filepath.Clean(absRoot)

	mode := opts.SymlinkMode
	if mode == "" {
		mode = SymlinkNone
	}

	if IsDebugEnabled("scan") {
		VerboseLog(3, "enumerating %s (ext=%q, symlinks=%s)", absRoot, opts.Extension, mode)
	}

	var files []string
	queue := []string{absRoot}

	for len(queue) > 0 {
		select {
		case <-opts.Shutdown:
			return nil, fmt.Errorf("enumeration interrupted by shutdown")
		default:
		}

		currentDir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(currentDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", currentDir, err)
		}

		// Sort entries for consistent ordering
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Name() < entries[j].Name()
		})

		for _, entry := range entries {
			fullPath := filepath.Join(currentDir, entry.Name())

			relPath, err := filepath.Rel(absRoot, fullPath)
			if err != nil {
				continue
			}
			if opts.Ignore != nil && opts.Ignore.ShouldIgnore(relPath) {
				if IsDebugEnabled("scan") {
					VerboseLog(3, "ignoring %s", relPath)
				}
				continue
			}

			switch {
			case entry.Type()&os.ModeSymlink != 0:
				targetInfo, err := os.Stat(fullPath)
				if err != nil {
					// Broken link: enumerate it like the non-link case; the
					// hasher records the failure per file.
					if matchExtension(entry.Name(), opts.Extension) {
						files = append(files, fullPath)
					}
					continue
				}

				if targetInfo.IsDir() {
					switch mode {
					case SymlinkAll:
						queue = append(queue, fullPath)
					case SymlinkContained:
						target, err := filepath.EvalSymlinks(fullPath)
						if err != nil {
							continue
						}
						if isPathContained(target, absRoot) {
							queue = append(queue, fullPath)
						}
					default:
						// SymlinkNone: do not descend
					}
				} else if targetInfo.Mode().IsRegular() {
					if matchExtension(entry.Name(), opts.Extension) {
						files = append(files, fullPath)
					}
				}

			case entry.IsDir():
				queue = append(queue, fullPath)

			case entry.Type().IsRegular():
				if matchExtension(entry.Name(), opts.Extension) {
					files = append(files, fullPath)
				}

			default:
				// Sockets, FIFOs and devices have no stable content to
				// fingerprint; skip them.
			}
		}
	}

	VerboseLog(2, "enumerated %d files under %s", len(files), absRoot)
	return files, nil
}

// matchExtension applies the exact, case-sensitive extension filter. An
// empty filter admits every name.
func matchExtension(name, ext string) bool {
	return ext == "" || filepath.Ext(name) == ext
}

// isPathContained checks if targetPath is contained within containerPath.
// Used for symlink containment checking.
func isPathContained(targetPath, containerPath string) bool {
	targetPath = filepath.Clean(targetPath)
	containerPath = filepath.Clean(containerPath)

	if !filepath.IsAbs(targetPath) {
		var err error
		targetPath, err = filepath.Abs(targetPath)
		if err != nil {
			return false
		}
	}
	if !filepath.IsAbs(containerPath) {
		var err error
		containerPath, err = filepath.Abs(containerPath)
		if err != nil {
			return false
		}
	}

	if targetPath == containerPath {
		return true
	}

	containerWithSep := containerPath + string(filepath.Separator)
	return strings.HasPrefix(targetPath, containerWithSep)
}
