package ksero

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "ksero", "config")

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	all := config.GetAllConfig()
	if all.Hash.Algorithm != "xxh64" {
		t.Errorf("Expected default algorithm 'xxh64', got '%s'", all.Hash.Algorithm)
	}
	if all.Hash.ChunkSize != "1KiB" {
		t.Errorf("Expected default chunk size '1KiB', got '%s'", all.Hash.ChunkSize)
	}
	if all.Performance.HashWorkers != 0 || all.Performance.ScanWorkers != 1 {
		t.Errorf("Unexpected performance defaults %+v", all.Performance)
	}
	if all.Symlink.Mode != SymlinkModeNone {
		t.Errorf("Expected symlinks off by default, got '%s'", all.Symlink.Mode)
	}
	if all.Output.Format != FormatNative {
		t.Errorf("Expected native output by default, got '%s'", all.Output.Format)
	}

	// Loading never creates the file
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Error("Config file should not be created by LoadConfig")
	}

	opts, err := config.FinderOptions()
	if err != nil {
		t.Fatalf("FinderOptions failed: %v", err)
	}
	if opts.ChunkSize != DefaultChunkSize || opts.BufferSize != DefaultHashBuffer {
		t.Errorf("Expected %d/%d, got %d/%d", DefaultChunkSize, DefaultHashBuffer, opts.ChunkSize, opts.BufferSize)
	}
	if opts.FollowSymlinks || opts.Ignore != nil || opts.MinSize != 1 {
		t.Errorf("Unexpected default options %+v", opts)
	}
}

func TestConfigSaveAndReload(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config")

	config := NewDefaultConfig(configPath)
	if err := config.ApplyOverrides([]string{"algorithm:blake3", "seed:99", "mode:follow"}); err != nil {
		t.Fatalf("Failed to apply overrides: %v", err)
	}
	if err := config.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	reloaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	hash := reloaded.GetHashConfig()
	if hash.Algorithm != "blake3" || hash.Seed != 99 {
		t.Errorf("Expected blake3 seed 99 after reload, got %+v", hash)
	}
	if reloaded.GetSymlinkConfig().Mode != "follow" {
		t.Errorf("Expected follow mode after reload, got %s", reloaded.GetSymlinkConfig().Mode)
	}
}

func TestConfigPartialFileFallsBack(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config")
	content := "[output]\nformat = fdupes\n\n[scan]\nmin_size = 4KiB\nignore = \\.git$, ^tmp/\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.GetOutputConfig().Format != FormatFdupes {
		t.Errorf("Expected fdupes, got %s", config.GetOutputConfig().Format)
	}
	if config.GetHashConfig().Algorithm != DefaultAlgorithm {
		t.Errorf("Missing section should fall back to %s", DefaultAlgorithm)
	}

	opts, err := config.FinderOptions()
	if err != nil {
		t.Fatalf("FinderOptions failed: %v", err)
	}
	if opts.MinSize != 4096 {
		t.Errorf("Expected min size 4096, got %d", opts.MinSize)
	}
	if !opts.Ignore.ShouldIgnore("a/.git") || !opts.Ignore.ShouldIgnore("tmp/x") || opts.Ignore.ShouldIgnore("src/x") {
		t.Error("Ignore patterns were not compiled from the config")
	}
}

func TestConfigOverrides(t *testing.T) {
	config := NewDefaultConfig("")

	err := config.ApplyOverrides([]string{
		"algorithm:fnv1a",
		"format:json",
		"level:2",
		"debug:scan,hash",
		"chunk_size:4KiB",
		"hash_workers:3",
		"ignore:^a:b$",
	})
	if err != nil {
		t.Fatalf("Failed to apply overrides: %v", err)
	}

	all := config.GetAllConfig()
	if all.Hash.Algorithm != "fnv1a" {
		t.Errorf("Expected fnv1a, got %s", all.Hash.Algorithm)
	}
	if all.Output.Format != "json" {
		t.Errorf("Expected json, got %s", all.Output.Format)
	}
	if all.Verbose.Level != 2 || all.Verbose.Debug != "scan,hash" {
		t.Errorf("Unexpected verbose config %+v", all.Verbose)
	}
	if all.Scan.Ignore != "^a:b$" {
		t.Errorf("Value containing a colon was split: %s", all.Scan.Ignore)
	}

	opts, err := config.FinderOptions()
	if err != nil {
		t.Fatalf("FinderOptions failed: %v", err)
	}
	if opts.ChunkSize != 4096 || opts.HashWorkers != 3 {
		t.Errorf("Expected chunk 4096 and 3 workers, got %d and %d", opts.ChunkSize, opts.HashWorkers)
	}

	for _, bad := range []string{"nocolon", "unknown:1"} {
		if err := config.ApplyOverrides([]string{bad}); err == nil {
			t.Errorf("Expected error for override %q", bad)
		}
	}
}

func TestConfigFinderOptionsSizes(t *testing.T) {
	config := NewDefaultConfig("")
	if err := config.ApplyOverrides([]string{"chunk_size:2KiB", "hash_buffer:1MB", "min_size:5GiB"}); err != nil {
		t.Fatalf("Failed to apply overrides: %v", err)
	}

	opts, err := config.FinderOptions()
	if err != nil {
		t.Fatalf("FinderOptions failed: %v", err)
	}
	if opts.ChunkSize != 2048 || opts.BufferSize != 1000000 || opts.MinSize != 5<<30 {
		t.Errorf("Unexpected sizes: chunk %d, buffer %d, min %d", opts.ChunkSize, opts.BufferSize, opts.MinSize)
	}

	tests := []struct {
		override string
		errPart  string
	}{
		{"chunk_size:lots", "invalid chunk_size"},
		{"chunk_size:0", "chunk_size must be at least"},
		{"hash_buffer:2GiB", "hash_buffer too large"},
		{"min_size:-1", "invalid min_size"},
	}
	for _, tt := range tests {
		t.Run(tt.override, func(t *testing.T) {
			config := NewDefaultConfig("")
			if err := config.ApplyOverrides([]string{tt.override}); err != nil {
				t.Fatalf("Failed to apply override: %v", err)
			}
			_, err := config.FinderOptions()
			if err == nil || !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		override string
		errPart  string
	}{
		{"algorithm", "algorithm:md5", "unsupported hash algorithm"},
		{"format", "format:xml", "unsupported output format"},
		{"mode", "mode:contained", "unsupported symlink mode"},
		{"level", "level:7", "invalid verbose level"},
		{"level not a number", "level:high", "invalid verbose.level"},
		{"workers", "hash_workers:-1", "must not be negative"},
		{"scan workers", "scan_workers:0", "at least 1"},
		{"chunk size", "chunk_size:0", "at least 1"},
		{"chunk size garbage", "chunk_size:lots", "invalid chunk_size"},
		{"buffer too large", "hash_buffer:8GiB", "too large"},
		{"seed", "seed:-4", "invalid filehash.seed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig("")
			if err := config.ApplyOverrides([]string{tt.override}); err != nil {
				t.Fatalf("ApplyOverrides failed: %v", err)
			}
			err := config.Validate()
			if err == nil {
				t.Fatalf("Expected validation error for %s", tt.override)
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Expected error containing %q, got %v", tt.errPart, err)
			}
			if _, err := config.FinderOptions(); err == nil {
				t.Error("FinderOptions should fail on an invalid config")
			}
		})
	}

	if err := NewDefaultConfig("").Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestConfigIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	ignorePath := filepath.Join(dir, "ignore")
	if err := os.WriteFile(ignorePath, []byte("# comment\n\n\\.bak$\n"), 0644); err != nil {
		t.Fatalf("Failed to write ignore file: %v", err)
	}

	config := NewDefaultConfig("")
	if err := config.ApplyOverrides([]string{"ignore_file:" + ignorePath}); err != nil {
		t.Fatalf("ApplyOverrides failed: %v", err)
	}
	opts, err := config.FinderOptions()
	if err != nil {
		t.Fatalf("FinderOptions failed: %v", err)
	}
	if !opts.Ignore.ShouldIgnore("x/y.bak") {
		t.Error("Pattern from ignore file not applied")
	}

	config.ApplyOverrides([]string{"ignore_file:" + filepath.Join(dir, "missing")})
	if _, err := config.FinderOptions(); err == nil {
		t.Error("Expected error for a missing ignore file")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultConfigPath(); got != filepath.Join("/xdg", "ksero", "config") {
		t.Errorf("Unexpected config path %s", got)
	}
}
