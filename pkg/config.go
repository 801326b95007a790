package ksero

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-ini/ini"
)

// Config represents the ksero configuration file
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Algorithm string // xxh64, blake3, fnv1a
	Seed      uint64 // Seed shared by every hash instance of a run
	ChunkSize string // Prefix length for the chunk stage (default: "1KiB")
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers int    // Concurrent hash workers, 0 means one per CPU
	HashBuffer  string // Full-stage read buffer (default: "128KiB")
	ScanWorkers int    // Traversal workers (default: 1)
}

// SymlinkConfig represents symlink handling configuration
type SymlinkConfig struct {
	Mode string // none or follow
}

// ScanConfig represents traversal filters
type ScanConfig struct {
	MinSize    string // Smallest file size considered (default: "1")
	Ignore     string // Comma separated regular expressions
	IgnoreFile string // File with one regular expression per line
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // native, fdupes, json
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// AllConfig represents all configuration options
type AllConfig struct {
	Hash        *HashConfig
	Performance *PerformanceConfig
	Symlink     *SymlinkConfig
	Scan        *ScanConfig
	Output      *OutputConfig
	Verbose     *VerboseConfig
}

// defaultValues lists every section and key with its built-in value
var defaultValues = []struct {
	section, key, value string
}{
	{"filehash", "algorithm", DefaultAlgorithm},
	{"filehash", "seed", "0"},
	{"filehash", "chunk_size", "1KiB"},
	{"performance", "hash_workers", "0"},
	{"performance", "hash_buffer", "128KiB"},
	{"performance", "scan_workers", "1"},
	{"symlink", "mode", SymlinkModeNone},
	{"scan", "min_size", "1"},
	{"scan", "ignore", ""},
	{"scan", "ignore_file", ""},
	{"output", "format", FormatNative},
	{"verbose", "level", "0"},
	{"verbose", "debug", ""},
}

// overrideKeys maps the short keys accepted by ApplyOverrides to their section
var overrideKeys = map[string]string{
	"algorithm":    "filehash",
	"seed":         "filehash",
	"chunk_size":   "filehash",
	"hash_workers": "performance",
	"hash_buffer":  "performance",
	"scan_workers": "performance",
	"mode":         "symlink",
	"min_size":     "scan",
	"ignore":       "scan",
	"ignore_file":  "scan",
	"format":       "output",
	"level":        "verbose",
	"debug":        "verbose",
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/ksero/config, falling back to ~/.config
func DefaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "ksero", "config")
}

// NewDefaultConfig returns an in-memory configuration holding the built-in defaults.
// Save writes it to configPath.
func NewDefaultConfig(configPath string) *Config {
	cfg := &Config{configPath: configPath, ini: ini.Empty()}
	cfg.setDefaults()
	return cfg
}

// LoadConfig loads configuration from configPath. A missing file yields the built-in
// defaults without creating anything on disk.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return NewDefaultConfig(""), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		VerboseLog(2, "no config file at %s, using defaults", configPath)
		return NewDefaultConfig(configPath), nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	VerboseLog(2, "loaded config from %s", configPath)
	return &Config{configPath: configPath, ini: iniFile}, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() {
	for _, d := range defaultValues {
		c.ini.Section(d.section).Key(d.key).SetValue(d.value)
	}
}

// Path returns the file the configuration is loaded from and saved to
func (c *Config) Path() string {
	return c.configPath
}

// get returns a key's value, or fallback when the section or key is absent
func (c *Config) get(section, key, fallback string) string {
	if !c.ini.HasSection(section) {
		return fallback
	}
	s := c.ini.Section(section)
	if !s.HasKey(key) {
		return fallback
	}
	return strings.TrimSpace(s.Key(key).String())
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Algorithm: c.get("filehash", "algorithm", DefaultAlgorithm),
		Seed:      DefaultSeed,
		ChunkSize: c.get("filehash", "chunk_size", "1KiB"),
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if section.HasKey("seed") {
			if seed, err := section.Key("seed").Uint64(); err == nil {
				hashConfig.Seed = seed
			}
		}
	}

	return hashConfig
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	performanceConfig := &PerformanceConfig{
		HashWorkers: 0,
		HashBuffer:  c.get("performance", "hash_buffer", "128KiB"),
		ScanWorkers: 1,
	}

	if c.ini.HasSection("performance") {
		section := c.ini.Section("performance")
		if section.HasKey("hash_workers") {
			if workers, err := section.Key("hash_workers").Int(); err == nil {
				performanceConfig.HashWorkers = workers
			}
		}
		if section.HasKey("scan_workers") {
			if workers, err := section.Key("scan_workers").Int(); err == nil {
				performanceConfig.ScanWorkers = workers
			}
		}
	}

	return performanceConfig
}

// GetSymlinkConfig returns the symlink configuration
func (c *Config) GetSymlinkConfig() *SymlinkConfig {
	return &SymlinkConfig{Mode: c.get("symlink", "mode", SymlinkModeNone)}
}

// GetScanConfig returns the traversal filter configuration
func (c *Config) GetScanConfig() *ScanConfig {
	return &ScanConfig{
		MinSize:    c.get("scan", "min_size", "1"),
		Ignore:     c.get("scan", "ignore", ""),
		IgnoreFile: c.get("scan", "ignore_file", ""),
	}
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	return &OutputConfig{Format: c.get("output", "format", FormatNative)}
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0,
		Debug: c.get("verbose", "debug", ""),
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
	}

	return verboseConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Hash:        c.GetHashConfig(),
		Performance: c.GetPerformanceConfig(),
		Symlink:     c.GetSymlinkConfig(),
		Scan:        c.GetScanConfig(),
		Output:      c.GetOutputConfig(),
		Verbose:     c.GetVerboseConfig(),
	}
}

// Save saves the configuration to disk, creating the parent directory if needed
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config path set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return c.ini.SaveTo(c.configPath)
}

// ApplyOverrides applies command-line overrides to the configuration.
// Accepts strings like "algorithm:blake3", "format:json", "level:2", "chunk_size:4KiB".
// The value may itself contain colons.
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		section, ok := overrideKeys[key]
		if !ok {
			return fmt.Errorf("unsupported override key '%s' (supported: %s)", key, strings.Join(supportedOverrideKeys(), ", "))
		}
		c.ini.Section(section).Key(key).SetValue(value)
	}

	return nil
}

func supportedOverrideKeys() []string {
	keys := make([]string, 0, len(defaultValues))
	for _, d := range defaultValues {
		keys = append(keys, d.key)
	}
	return keys
}

// Validate checks every configured value
func (c *Config) Validate() error {
	if err := c.validateNumericKeys(); err != nil {
		return err
	}
	all := c.GetAllConfig()

	if err := ValidateHashAlgorithm(all.Hash.Algorithm); err != nil {
		return err
	}
	if _, err := c.sizes(); err != nil {
		return err
	}
	if err := ValidateHashWorkers(all.Performance.HashWorkers); err != nil {
		return err
	}
	if err := ValidateScanWorkers(all.Performance.ScanWorkers); err != nil {
		return err
	}
	if err := ValidateSymlinkMode(all.Symlink.Mode); err != nil {
		return err
	}
	if err := ValidateOutputFormat(all.Output.Format); err != nil {
		return err
	}
	if err := ValidateVerboseLevel(all.Verbose.Level); err != nil {
		return err
	}
	return nil
}

// sizeSettings holds the parsed byte-size keys
type sizeSettings struct {
	chunkSize  uint64
	hashBuffer uint64
	minSize    uint64
}

// sizes parses and range-checks every byte-size key
func (c *Config) sizes() (sizeSettings, error) {
	var s sizeSettings
	var err error
	if s.chunkSize, err = ValidateSize("chunk_size", c.get("filehash", "chunk_size", "1KiB"), 1, maxBufferSize); err != nil {
		return s, err
	}
	if s.hashBuffer, err = ValidateSize("hash_buffer", c.get("performance", "hash_buffer", "128KiB"), 1, maxBufferSize); err != nil {
		return s, err
	}
	if s.minSize, err = ValidateSize("min_size", c.get("scan", "min_size", "1"), 0, math.MaxInt64); err != nil {
		return s, err
	}
	return s, nil
}

// validateNumericKeys rejects integer keys the typed getters would silently ignore
func (c *Config) validateNumericKeys() error {
	numeric := []struct{ section, key string }{
		{"filehash", "seed"},
		{"performance", "hash_workers"},
		{"performance", "scan_workers"},
		{"verbose", "level"},
	}
	for _, n := range numeric {
		value := c.get(n.section, n.key, "")
		if value == "" {
			continue
		}
		var err error
		if n.key == "seed" {
			_, err = c.ini.Section(n.section).Key(n.key).Uint64()
		} else {
			_, err = c.ini.Section(n.section).Key(n.key).Int()
		}
		if err != nil {
			return fmt.Errorf("invalid %s.%s '%s': %w", n.section, n.key, value, err)
		}
	}
	return nil
}

// FinderOptions validates the configuration and converts it to pipeline options.
// Ignore patterns from both the inline list and the ignore file are compiled.
func (c *Config) FinderOptions() (Options, error) {
	if err := c.Validate(); err != nil {
		return Options{}, err
	}
	sizes, err := c.sizes()
	if err != nil {
		return Options{}, err
	}
	all := c.GetAllConfig()

	opts := Options{
		Algorithm:      all.Hash.Algorithm,
		Seed:           all.Hash.Seed,
		ChunkSize:      int(sizes.chunkSize),
		BufferSize:     int(sizes.hashBuffer),
		HashWorkers:    all.Performance.HashWorkers,
		ScanWorkers:    all.Performance.ScanWorkers,
		FollowSymlinks: strings.ToLower(all.Symlink.Mode) == SymlinkModeFollow,
		MinSize:        sizes.minSize,
	}

	if all.Scan.Ignore != "" || all.Scan.IgnoreFile != "" {
		im := NewIgnoreManager()
		if err := im.AddPatternList(all.Scan.Ignore); err != nil {
			return Options{}, err
		}
		if all.Scan.IgnoreFile != "" {
			if err := im.LoadIgnoreFile(all.Scan.IgnoreFile); err != nil {
				return Options{}, err
			}
		}
		opts.Ignore = im
	}

	return opts, nil
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	if _, err := GetHashAlgorithm(algorithm); err != nil {
		return fmt.Errorf("%w (supported: %s)", err, strings.Join(SupportedAlgorithms, ", "))
	}
	return nil
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatNative, FormatFdupes, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: native, fdupes, json)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateSymlinkMode validates that a symlink mode is supported
func ValidateSymlinkMode(mode string) error {
	switch strings.ToLower(mode) {
	case SymlinkModeNone, SymlinkModeFollow:
		return nil
	default:
		return fmt.Errorf("unsupported symlink mode: %s (supported: none, follow)", mode)
	}
}

// ValidateHashWorkers validates that the hash worker count is reasonable; 0 means auto
func ValidateHashWorkers(workers int) error {
	if workers < 0 {
		return fmt.Errorf("hash workers must not be negative, got: %d", workers)
	}
	if workers > 256 {
		return fmt.Errorf("hash workers should not exceed 256, got: %d", workers)
	}
	return nil
}

// ValidateScanWorkers validates the traversal worker count
func ValidateScanWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("scan workers must be at least 1, got: %d", workers)
	}
	if workers > 64 {
		return fmt.Errorf("scan workers should not exceed 64, got: %d", workers)
	}
	return nil
}

// maxBufferSize bounds per-worker buffers
const maxBufferSize = 1 << 30

// ValidateSize parses a human-readable size such as "1KiB", "2M" or "4096" and checks
// it lies within [minimum, maximum]. Decimal suffixes are powers of 1000, IEC suffixes
// powers of 1024.
func ValidateSize(name, value string, minimum, maximum uint64) (uint64, error) {
	size, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': %w", name, value, err)
	}
	if size < minimum {
		return 0, fmt.Errorf("%s must be at least %d bytes, got: %s", name, minimum, value)
	}
	if size > maximum {
		return 0, fmt.Errorf("%s too large: %s", name, value)
	}
	return size, nil
}
