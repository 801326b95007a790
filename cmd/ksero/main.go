package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	ksero "github.com/puzza007/ksero/pkg"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	stop := setupSignalHandler()
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// newOptions defines every command-line option
func newOptions() *ParsedOptions {
	options := NewParsedOptions()
	options.DefineOption("help", "h", OptionTypeBool, "Show help message")
	options.DefineOption("version", "", OptionTypeBool, "Show version information")
	options.DefineOption("verbose", "v", OptionTypeInt, "Enable verbose output (can be repeated for more verbosity)")
	options.DefineOption("debug", "", OptionTypeString, "Comma separated debug flags (scan, hash, bucket, output)")
	options.DefineOption("quiet", "q", OptionTypeBool, "Do not print the summary on stderr")
	options.DefineOption("config", "c", OptionTypeString, "Configuration file (default: $XDG_CONFIG_HOME/ksero/config)")
	options.DefineOption("write-config", "", OptionTypeBool, "Write the effective configuration to the config file")
	options.DefineOption("override", "o", OptionTypeList, "Override a configuration key, e.g. -o algorithm:blake3 (repeatable)")
	options.DefineOption("directories", "d", OptionTypeList, "Directory to scan (repeatable, positional arguments also work)")
	options.DefineOption("format", "f", OptionTypeString, "Output format (native|fdupes|json)")
	options.DefineOption("follow", "L", OptionTypeBool, "Follow symbolic links")
	options.DefineOption("workers", "j", OptionTypeInt, "Hash workers (0 = one per CPU)")
	options.DefineOption("algorithm", "a", OptionTypeString, "Hash algorithm (xxh64|blake3|fnv1a)")
	options.DefineOption("chunk-size", "", OptionTypeString, "Prefix length hashed before full hashing, e.g. 4KiB")
	options.DefineOption("min-size", "", OptionTypeString, "Ignore files smaller than this, e.g. 1MB")
	options.DefineOption("ignore", "i", OptionTypeList, "Regular expression of root-relative paths to skip (repeatable)")
	return options
}

// run is main without the process exit, so it can be driven from tests
func run(argv []string, stdout, stderr io.Writer) int {
	options := newOptions()
	if err := options.Parse(argv); err != nil {
		fmt.Fprintf(stderr, "ksero: %v\n", err)
		fmt.Fprintf(stderr, "Try 'ksero --help' for more information.\n")
		return 1
	}

	if options.GetBool("version") {
		fmt.Fprintf(stdout, "ksero %s\n", version)
		return 0
	}

	if options.GetBool("help") {
		showHelp(stdout, options)
		return 0
	}

	configPath := options.GetString("config")
	if configPath == "" {
		configPath = ksero.DefaultConfigPath()
	}
	cfg, err := ksero.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "ksero: %v\n", err)
		return 1
	}

	// Dedicated flags win over -o, which wins over the file
	overrides := append([]string{}, options.GetList("override")...)
	overrides = append(overrides, flagOverrides(options)...)
	if err := cfg.ApplyOverrides(overrides); err != nil {
		fmt.Fprintf(stderr, "ksero: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "ksero: invalid configuration: %v\n", err)
		return 1
	}

	verboseConfig := cfg.GetVerboseConfig()
	ksero.SetLogOutput(stderr)
	ksero.SetVerboseLevel(verboseConfig.Level)
	if verboseConfig.Debug != "" {
		ksero.SetDebugFlags(verboseConfig.Debug)
	}

	roots := append([]string{}, options.GetList("directories")...)
	roots = append(roots, options.GetArgs()...)

	if options.GetBool("write-config") {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(stderr, "ksero: failed to write config: %v\n", err)
			return 1
		}
		fmt.Fprintf(stderr, "ksero: configuration written to %s\n", cfg.Path())
		if len(roots) == 0 {
			return 0
		}
	}

	opts, err := cfg.FinderOptions()
	if err != nil {
		fmt.Fprintf(stderr, "ksero: %v\n", err)
		return 1
	}
	for _, pattern := range options.GetList("ignore") {
		if opts.Ignore == nil {
			opts.Ignore = ksero.NewIgnoreManager()
		}
		if err := opts.Ignore.AddPattern(pattern); err != nil {
			fmt.Fprintf(stderr, "ksero: %v\n", err)
			return 1
		}
	}

	finder, err := ksero.NewFinder(roots, opts)
	if err != nil {
		fmt.Fprintf(stderr, "ksero: %v\n", err)
		if errors.Is(err, ksero.ErrNoRoots) {
			fmt.Fprintf(stderr, "Usage: ksero [OPTIONS] DIRECTORY...\n")
		}
		return 1
	}

	result, err := finder.Run()
	if err != nil {
		fmt.Fprintf(stderr, "ksero: %v\n", err)
		return 1
	}

	if err := ksero.WriteResult(stdout, cfg.GetOutputConfig().Format, result); err != nil {
		fmt.Fprintf(stderr, "ksero: %v\n", err)
		return 1
	}

	for _, path := range result.Unreadable {
		ksero.VerboseLog(1, "unreadable: %s", path)
	}

	if !options.GetBool("quiet") {
		printSummary(stderr, result.Counters, finder.Elapsed())
	}
	return 0
}

// flagOverrides converts dedicated flags into configuration overrides
func flagOverrides(options *ParsedOptions) []string {
	var overrides []string
	add := func(option, key string) {
		if options.IsSet(option) {
			overrides = append(overrides, key+":"+options.GetString(option))
		}
	}
	add("format", "format")
	add("workers", "hash_workers")
	add("algorithm", "algorithm")
	add("chunk-size", "chunk_size")
	add("min-size", "min_size")
	add("verbose", "level")
	add("debug", "debug")
	if options.GetBool("follow") {
		overrides = append(overrides, "mode:"+ksero.SymlinkModeFollow)
	}
	return overrides
}

func showHelp(w io.Writer, options *ParsedOptions) {
	fmt.Fprintf(w, "ksero - find duplicate files\n\n")
	fmt.Fprintf(w, "Usage: ksero [OPTIONS] DIRECTORY...\n\n")
	fmt.Fprintf(w, "Files are grouped by size, then by a hash of their first bytes, then by a hash\n")
	fmt.Fprintf(w, "of their full content. Only files that still share a group at the end are printed.\n\n")
	fmt.Fprintf(w, "OPTIONS:\n")
	options.ShowUsage(w)
	fmt.Fprintf(w, "\nOVERRIDE KEYS:\n")
	fmt.Fprintf(w, "  algorithm seed chunk_size hash_workers hash_buffer scan_workers mode\n")
	fmt.Fprintf(w, "  min_size ignore ignore_file format level debug\n")
}
