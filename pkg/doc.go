// Package ksero finds files with identical content under a set of directory roots.
//
// # Pipeline
//
// Candidates are narrowed in stages, each one cheaper than the next:
//
//	DirectoryScanner  regular, non-empty files with their sizes
//	SizeBucketer      drops files whose size is unique
//	ChunkHasher       hashes the first ChunkSize bytes, in parallel
//	FullHasher        hashes whole files, in parallel
//	ResultAggregator  emits groups of two or more files and the run counters
//
// A file leaves the pipeline as soon as its bucket has no peers. Files that cannot be
// opened or read are dropped at the stage that failed and listed in Result.Unreadable.
//
// # Core API
//
//	result, err := ksero.FindDuplicates([]string{"/srv/photos", "/home/me"}, ksero.DefaultOptions())
//	for _, group := range result.Groups {
//		fmt.Printf("%s: %v\n", group.Key, group.Paths)
//	}
//
// Duplicate identity is a 64-bit hash plus the size, so it is probabilistic. A false
// positive requires a hash collision between two files of identical size.
//
// # Configuration
//
// Options are usually built from an INI file:
//
//	cfg, err := ksero.LoadConfig(ksero.DefaultConfigPath())
//	opts, err := cfg.FinderOptions()
//
// Enable debug output:
//
//	ksero.SetDebugFlags("scan,hash")
//	ksero.SetVerboseLevel(2)
package ksero
