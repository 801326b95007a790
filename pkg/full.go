package ksero

// FullHasher streams entire files through the hash in parallel and re-buckets the
// results by (full hash, size). Peak memory per worker is one buffer.
type FullHasher struct {
	Algorithm  *HashAlgorithm
	Seed       uint64
	BufferSize int
	Workers    int
}

// Hash runs the full-content stage over the survivors of the prefix stage
func (fh *FullHasher) Hash(work []FileCandidate) (buckets HashBucket, failed []FileCandidate) {
	defer VerboseEnter()()
	bufferSize := fh.BufferSize
	if bufferSize <= 0 {
		bufferSize = DefaultHashBuffer
	}

	pool := newHashPool(fh.Workers, bufferSize, FullStage)
	results := pool.run(work, func(path string, buf []byte) (uint64, error) {
		return HashStream(path, fh.Algorithm, fh.Seed, buf)
	})

	buckets, failed = mergeHashResults(results)
	DebugLog("bucket", "full stage: %d files in %d buckets, %d unreadable", buckets.Members(), len(buckets), len(failed))
	return buckets, failed
}
