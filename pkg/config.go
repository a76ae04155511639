package dupescan

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the dupescan configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default string // Default hash algorithm
}

// ScanConfig represents enumeration configuration
type ScanConfig struct {
	Extension  string // Extension filter including the dot, empty for all files
	Symlinks   string // Directory symlink mode: none, contained, all
	IgnoreFile string // Path to an ignore pattern file, empty for none
}

// FilterConfig represents pre-selection configuration
type FilterConfig struct {
	FastScan  bool // Size pre-selection before hashing
	HeadCheck bool // Head-sample pre-filter before hashing
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Format   string // Default output format: human, json, table, fdupes
	CSVPath  string // Default CSV report path
	Progress bool   // Show a progress bar while hashing
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers int    // Number of concurrent hash workers (default: 4)
	HashBuffer  string // Hash chunk size (default: "64k")
}

// AllConfig represents all configuration options
type AllConfig struct {
	Hash        *HashConfig
	Scan        *ScanConfig
	Filter      *FilterConfig
	Output      *OutputConfig
	Verbose     *VerboseConfig
	Performance *PerformanceConfig
}

// LoadConfig loads configuration from the given INI file, creating it with
// defaults when it does not exist. An empty path yields an in-memory config
// holding only the defaults, which cannot be saved.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
	}

	if configPath == "" {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		return cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create default config
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	} else {
		// Load existing config
		iniFile, err := ini.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.ini = iniFile
	}

	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	sections := []struct {
		name string
		keys [][2]string
	}{
		{"filehash", [][2]string{
			{"default", "sha256"},
		}},
		{"scan", [][2]string{
			{"extension", ""},
			{"symlinks", SymlinkNone},
			{"ignore_file", ""},
		}},
		{"filter", [][2]string{
			{"fastscan", "false"},
			{"headcheck", "false"},
		}},
		{"output", [][2]string{
			{"format", "human"},
			{"csv", DefaultCSVName},
			{"progress", "false"},
		}},
		{"verbose", [][2]string{
			{"level", "0"},
			{"debug", ""},
		}},
		{"performance", [][2]string{
			{"hash_workers", "4"},
			{"hash_buffer", "64k"},
		}},
	}

	for _, section := range sections {
		iniSection, err := c.ini.NewSection(section.name)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", section.name, err)
		}
		for _, key := range section.keys {
			if _, err := iniSection.NewKey(key[0], key[1]); err != nil {
				return fmt.Errorf("failed to set default %s.%s: %w", section.name, key[0], err)
			}
		}
	}

	return nil
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default: "sha256", // fallback default
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if section.HasKey("default") {
			hashConfig.Default = section.Key("default").String()
		}
	}

	return hashConfig
}

// GetScanConfig returns the enumeration configuration
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{
		Extension:  "",          // fallback default
		Symlinks:   SymlinkNone, // fallback default
		IgnoreFile: "",          // fallback default
	}

	if c.ini.HasSection("scan") {
		section := c.ini.Section("scan")
		if section.HasKey("extension") {
			scanConfig.Extension = section.Key("extension").String()
		}
		if section.HasKey("symlinks") {
			if mode := section.Key("symlinks").String(); mode != "" {
				scanConfig.Symlinks = mode
			}
		}
		if section.HasKey("ignore_file") {
			scanConfig.IgnoreFile = section.Key("ignore_file").String()
		}
	}

	return scanConfig
}

// GetFilterConfig returns the pre-selection configuration
func (c *Config) GetFilterConfig() *FilterConfig {
	filterConfig := &FilterConfig{
		FastScan:  false, // fallback default
		HeadCheck: false, // fallback default
	}

	if c.ini.HasSection("filter") {
		section := c.ini.Section("filter")
		if section.HasKey("fastscan") {
			if fastScan, err := section.Key("fastscan").Bool(); err == nil {
				filterConfig.FastScan = fastScan
			}
		}
		if section.HasKey("headcheck") {
			if headCheck, err := section.Key("headcheck").Bool(); err == nil {
				filterConfig.HeadCheck = headCheck
			}
		}
	}

	return filterConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format:   "human",        // fallback default
		CSVPath:  DefaultCSVName, // fallback default
		Progress: false,          // fallback default
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
		if section.HasKey("csv") {
			if csvPath := section.Key("csv").String(); csvPath != "" {
				outputConfig.CSVPath = csvPath
			}
		}
		if section.HasKey("progress") {
			if progress, err := section.Key("progress").Bool(); err == nil {
				outputConfig.Progress = progress
			}
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0,  // fallback default
		Debug: "", // fallback default
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	performanceConfig := &PerformanceConfig{
		HashWorkers: DefaultHashWorkers, // fallback default
		HashBuffer:  "64k",              // fallback default, the chunk size of record
	}

	if c.ini.HasSection("performance") {
		section := c.ini.Section("performance")
		if section.HasKey("hash_workers") {
			if workers, err := section.Key("hash_workers").Int(); err == nil {
				performanceConfig.HashWorkers = workers
			}
		}
		if section.HasKey("hash_buffer") {
			if bufferSize := section.Key("hash_buffer").String(); bufferSize != "" {
				performanceConfig.HashBuffer = bufferSize
			}
		}
	}

	return performanceConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Hash:        c.GetHashConfig(),
		Scan:        c.GetScanConfig(),
		Filter:      c.GetFilterConfig(),
		Output:      c.GetOutputConfig(),
		Verbose:     c.GetVerboseConfig(),
		Performance: c.GetPerformanceConfig(),
	}
}

// SetHashDefault sets the default hash algorithm
func (c *Config) SetHashDefault(algorithm string) error {
	section := c.ini.Section("filehash")
	section.Key("default").SetValue(algorithm)
	return c.Save()
}

// SetOutputFormat sets the default output format
func (c *Config) SetOutputFormat(format string) error {
	section := c.ini.Section("output")
	section.Key("format").SetValue(format)
	return c.Save()
}

// SetVerboseLevel sets the default verbose level
func (c *Config) SetVerboseLevel(level int) error {
	section := c.ini.Section("verbose")
	section.Key("level").SetValue(fmt.Sprintf("%d", level))
	return c.Save()
}

// SetDebugFlags sets the default debug flags
func (c *Config) SetDebugFlags(debug string) error {
	section := c.ini.Section("verbose")
	section.Key("debug").SetValue(debug)
	return c.Save()
}

// SetSymlinkMode sets the default directory symlink mode
func (c *Config) SetSymlinkMode(mode string) error {
	section := c.ini.Section("scan")
	section.Key("symlinks").SetValue(mode)
	return c.Save()
}

// SetHashWorkers sets the number of hash workers
func (c *Config) SetHashWorkers(workers int) error {
	section := c.ini.Section("performance")
	section.Key("hash_workers").SetValue(fmt.Sprintf("%d", workers))
	return c.Save()
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("config has no file path to save to")
	}
	return c.ini.SaveTo(c.configPath)
}

// ApplyOverrides applies command-line overrides to the configuration.
// Accepts strings like "default:sha512", "fastscan:true", "level:2".
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		section, sectionKey := overrideTarget(key)
		if section == "" {
			return fmt.Errorf("unsupported override key '%s'", key)
		}

		c.ini.Section(section).Key(sectionKey).SetValue(value)
	}

	return nil
}

// overrideTarget maps a bare override key onto its section and key, or
// returns an empty section for unknown keys.
func overrideTarget(key string) (string, string) {
	switch key {
	case "default":
		return "filehash", "default"
	case "extension", "symlinks", "ignore_file":
		return "scan", key
	case "fastscan", "headcheck":
		return "filter", key
	case "format", "csv", "progress":
		return "output", key
	case "level", "debug":
		return "verbose", key
	case "hash_workers", "hash_buffer":
		return "performance", key
	default:
		return "", ""
	}
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	if _, ok := HashTypeFromName(algorithm); !ok {
		return fmt.Errorf("unsupported hash algorithm: %s (supported: sha1, sha256, sha512)", algorithm)
	}
	return nil
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "human", "json", "table", "fdupes":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json, table, fdupes)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateSymlinkMode validates that a directory symlink mode is supported
func ValidateSymlinkMode(mode string) error {
	switch strings.ToLower(mode) {
	case SymlinkAll, SymlinkContained, SymlinkNone:
		return nil
	default:
		return fmt.Errorf("unsupported symlink mode: %s (supported: all, contained, none)", mode)
	}
}

// ValidateHashWorkers validates that the hash worker count is reasonable
func ValidateHashWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("hash workers must be at least 1, got: %d", workers)
	}
	if workers > 64 {
		return fmt.Errorf("hash workers should not exceed 64, got: %d", workers)
	}
	return nil
}
