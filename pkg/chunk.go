package ksero

// ChunkHasher hashes a bounded leading prefix of each candidate in parallel and
// re-buckets the results by (prefix hash, size).
type ChunkHasher struct {
	Algorithm *HashAlgorithm
	Seed      uint64
	ChunkSize int
	Workers   int
}

// Hash runs the prefix stage. The returned bucket map contains every successfully
// hashed candidate, singletons included; failed holds candidates that could not be read.
func (ch *ChunkHasher) Hash(work []FileCandidate) (buckets HashBucket, failed []FileCandidate) {
	defer VerboseEnter()()
	chunkSize := ch.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	pool := newHashPool(ch.Workers, chunkSize, ChunkStage)
	results := pool.run(work, func(path string, buf []byte) (uint64, error) {
		return HashPrefix(path, ch.Algorithm, ch.Seed, buf)
	})

	buckets, failed = mergeHashResults(results)
	DebugLog("bucket", "chunk stage: %d files in %d buckets, %d unreadable", buckets.Members(), len(buckets), len(failed))
	return buckets, failed
}
