package ksero

import "fmt"

// FileCandidate is a regular, non-empty file discovered by the scanner.
// It is immutable once created.
type FileCandidate struct {
	Path string
	Size uint64

	id fileID // set only when symlinks are followed
}

// fileID identifies the underlying file so a symlink and its target count once.
// The zero value means unknown.
type fileID struct {
	dev uint64
	ino uint64
}

// ContentKey combines a content hash with the file size so files of different sizes
// never share a bucket even when their hashes coincide.
type ContentKey struct {
	Hash uint64 `json:"hash"`
	Size uint64 `json:"size"`
}

// String renders the key the way the native output format prints it
func (k ContentKey) String() string {
	return fmt.Sprintf("%d:%d", k.Hash, k.Size)
}

// Compare orders keys by size, then hash
func (k ContentKey) Compare(other ContentKey) int {
	switch {
	case k.Size < other.Size:
		return -1
	case k.Size > other.Size:
		return 1
	case k.Hash < other.Hash:
		return -1
	case k.Hash > other.Hash:
		return 1
	}
	return 0
}

// SizeBucket maps an exact byte length to the candidates of that length
type SizeBucket map[uint64][]FileCandidate

// HashBucket maps a composite content key to the paths sharing it
type HashBucket map[ContentKey][]string

// Members returns the total number of paths across all buckets
func (hb HashBucket) Members() int {
	total := 0
	for _, paths := range hb {
		total += len(paths)
	}
	return total
}

// Tally returns the number of paths and the bytes they occupy
func (hb HashBucket) Tally() Tally {
	var t Tally
	for key, paths := range hb {
		t.Add(uint64(len(paths)), key.Size*uint64(len(paths)))
	}
	return t
}

// Survivors flattens buckets that have peers into candidates for the next stage.
// Singleton buckets are dropped.
func (hb HashBucket) Survivors() []FileCandidate {
	var work []FileCandidate
	for key, paths := range hb {
		if len(paths) < 2 {
			continue
		}
		for _, path := range paths {
			work = append(work, FileCandidate{Path: path, Size: key.Size})
		}
	}
	return work
}

// hashResult is the outcome of hashing one candidate. OK is false when the file could
// not be opened or read; such candidates are dropped at the stage boundary.
type hashResult struct {
	Key  ContentKey
	Path string
	OK   bool
}

// mergeHashResults folds the parallel stage output into a fresh bucket map.
// Runs on a single goroutine after all workers are done.
func mergeHashResults(results []hashResult) (HashBucket, []FileCandidate) {
	buckets := make(HashBucket)
	var failed []FileCandidate
	for _, r := range results {
		if !r.OK {
			failed = append(failed, FileCandidate{Path: r.Path, Size: r.Key.Size})
			continue
		}
		buckets[r.Key] = append(buckets[r.Key], r.Path)
	}
	return buckets, failed
}
