package dupescan

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// IgnoreManager filters scan paths through regular expression patterns
// loaded from a plain text file. Lines starting with # and blank lines are
// skipped; every other line must be a valid Go regular expression. Patterns
// match against the path relative to the scan root, with separators
// normalized to forward slashes.
type IgnoreManager struct {
	ignorePath string
	patterns   []*regexp.Regexp
	loaded     bool
}

// NewIgnoreManager creates an ignore manager reading from ignorePath. An
// empty path, or a file that does not exist, just means no patterns.
func NewIgnoreManager(ignorePath string) *IgnoreManager {
	return &IgnoreManager{
		ignorePath: ignorePath,
		patterns:   make([]*regexp.Regexp, 0),
	}
}

// LoadIgnorePatterns loads ignore patterns from the ignore file
func (im *IgnoreManager) LoadIgnorePatterns() error {
	if im.loaded {
		return nil
	}

	if im.ignorePath == "" {
		im.loaded = true
		return nil
	}

	if _, err := os.Stat(im.ignorePath); os.IsNotExist(err) {
		im.loaded = true
		return nil
	}

	file, err := os.Open(im.ignorePath)
	if err != nil {
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pattern, err := regexp.Compile(line)
		if err != nil {
			return fmt.Errorf("invalid regex pattern at line %d: %s - %w", lineNum, line, err)
		}

		im.patterns = append(im.patterns, pattern)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ignore file: %w", err)
	}

	im.loaded = true
	return nil
}

// ShouldIgnore checks if a path should be ignored based on patterns
func (im *IgnoreManager) ShouldIgnore(relativePath string) bool {
	if !im.loaded {
		// Silently load patterns if not loaded yet
		if err := im.LoadIgnorePatterns(); err != nil {
			return false // Don't ignore on error
		}
	}

	// Normalise path separators to forward slashes for consistent pattern matching
	normalisedPath := filepath.ToSlash(relativePath)

	for _, pattern := range im.patterns {
		if pattern.MatchString(normalisedPath) {
			return true
		}
	}

	return false
}

// AddPattern adds a new ignore pattern
func (im *IgnoreManager) AddPattern(patternStr string) error {
	pattern, err := regexp.Compile(patternStr)
	if err != nil {
		return fmt.Errorf("invalid regex pattern: %s - %w", patternStr, err)
	}

	im.patterns = append(im.patterns, pattern)
	return nil
}

// GetPatterns returns all loaded patterns
func (im *IgnoreManager) GetPatterns() []*regexp.Regexp {
	if !im.loaded {
		im.LoadIgnorePatterns() // Load if not already loaded
	}
	return im.patterns
}

// HasPatterns returns true if there are any ignore patterns loaded
func (im *IgnoreManager) HasPatterns() bool {
	if !im.loaded {
		im.LoadIgnorePatterns() // Load if not already loaded
	}
	return len(im.patterns) > 0
}

// FilterIgnoredPaths filters a slice of paths, removing ignored ones
func (im *IgnoreManager) FilterIgnoredPaths(paths []string) []string {
	if !im.HasPatterns() {
		return paths // No patterns, return all paths
	}

	filtered := make([]string, 0, len(paths))
	for _, path := range paths {
		if !im.ShouldIgnore(path) {
			filtered = append(filtered, path)
		}
	}
	return filtered
}

// Reload forces a reload of ignore patterns from file
func (im *IgnoreManager) Reload() error {
	im.patterns = make([]*regexp.Regexp, 0)
	im.loaded = false
	return im.LoadIgnorePatterns()
}

// GetIgnoreFilePath returns the path to the ignore file
func (im *IgnoreManager) GetIgnoreFilePath() string {
	return im.ignorePath
}
