package ksero

import (
	"errors"
	"fmt"
	"os"
	"time"
)

var (
	// ErrNoRoots is returned when no root directory is supplied
	ErrNoRoots = errors.New("no root directories supplied")
	// ErrRootNotDirectory is returned when a root does not exist or is not a directory
	ErrRootNotDirectory = errors.New("root is not a directory")
)

// Options configures one pipeline run
type Options struct {
	Algorithm      string // Hash algorithm name, empty means xxh64
	Seed           uint64
	ChunkSize      int    // Prefix length for the chunk stage
	BufferSize     int    // Read buffer for the full stage
	HashWorkers    int    // <= 0 means one per CPU
	ScanWorkers    int    // <= 0 lets the walker decide
	FollowSymlinks bool
	MinSize        uint64 // Zero-length files are excluded regardless
	Ignore         *IgnoreManager
}

// DefaultOptions returns the options used when no configuration is supplied
func DefaultOptions() Options {
	return Options{
		Algorithm:   DefaultAlgorithm,
		Seed:        DefaultSeed,
		ChunkSize:   DefaultChunkSize,
		BufferSize:  DefaultHashBuffer,
		ScanWorkers: 1,
		MinSize:     1,
	}
}

// Finder runs the progressive duplicate search over a set of roots
type Finder struct {
	roots     []string
	opts      Options
	algorithm *HashAlgorithm
	elapsed   time.Duration
}

// NewFinder validates roots and options. Configuration errors are the only fatal
// errors of a run and are all reported here, before any file is read.
func NewFinder(roots []string, opts Options) (*Finder, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRootNotDirectory, root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, root)
		}
	}

	name := opts.Algorithm
	if name == "" {
		name = DefaultAlgorithm
	}
	algorithm, err := GetHashAlgorithm(name)
	if err != nil {
		return nil, err
	}

	deduplicated := DeduplicateRoots(roots)
	if len(deduplicated) != len(roots) {
		VerboseLog(1, "scanning %d of %d roots, the rest are nested or repeated", len(deduplicated), len(roots))
	}

	return &Finder{roots: deduplicated, opts: opts, algorithm: algorithm}, nil
}

// Roots returns the de-duplicated roots that will be scanned
func (f *Finder) Roots() []string {
	return f.roots
}

// Elapsed returns the wall time of the last Run
func (f *Finder) Elapsed() time.Duration {
	return f.elapsed
}

// Run executes scan, size bucketing, prefix hashing, full hashing and aggregation.
// Per-file errors never fail a run; the error return is reserved for future
// fatal conditions and is currently always nil.
func (f *Finder) Run() (*Result, error) {
	defer VerboseEnter()()
	start := time.Now()

	scanner := &DirectoryScanner{
		Roots:          f.roots,
		FollowSymlinks: f.opts.FollowSymlinks,
		Workers:        f.opts.ScanWorkers,
		MinSize:        f.opts.MinSize,
		Ignore:         f.opts.Ignore,
	}
	candidates := make(chan FileCandidate, 256)
	go scanner.Scan(candidates)

	bucketer := NewSizeBucketer()
	bucketer.Consume(candidates)
	VerboseLog(1, "considered %d files", bucketer.Considered().Files)

	aggregator := NewResultAggregator(bucketer.Considered())

	chunker := &ChunkHasher{
		Algorithm: f.algorithm,
		Seed:      f.opts.Seed,
		ChunkSize: f.opts.ChunkSize,
		Workers:   f.opts.HashWorkers,
	}
	prefixBuckets, failed := chunker.Hash(bucketer.Survivors())
	aggregator.RecordChunkStage(prefixBuckets, failed)
	VerboseLog(1, "prefix stage: %d files nibbled", prefixBuckets.Members())

	full := &FullHasher{
		Algorithm:  f.algorithm,
		Seed:       f.opts.Seed,
		BufferSize: f.opts.BufferSize,
		Workers:    f.opts.HashWorkers,
	}
	fullBuckets, failed := full.Hash(prefixBuckets.Survivors())
	aggregator.RecordFullStage(fullBuckets, failed)
	VerboseLog(1, "full stage: %d files hashed", fullBuckets.Members())

	result := aggregator.Finalize(fullBuckets)
	f.elapsed = time.Since(start)
	VerboseLog(1, "found %d duplicate groups in %v", len(result.Groups), f.elapsed)
	return result, nil
}

// FindDuplicates is a convenience wrapper around NewFinder and Run
func FindDuplicates(roots []string, opts Options) (*Result, error) {
	finder, err := NewFinder(roots, opts)
	if err != nil {
		return nil, err
	}
	return finder.Run()
}
