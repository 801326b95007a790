package ksero

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// hashFunc hashes one file using a buffer it holds exclusively for the call
type hashFunc func(path string, buf []byte) (uint64, error)

// hashPool runs a fork-join parallel map over a candidate list.
// errgroup caps the number of files in flight; each in-flight task borrows one of
// a fixed set of buffers and writes only to its own result slot.
type hashPool struct {
	workers    int
	bufferSize int
	stage      string
}

// newHashPool creates a pool; workers <= 0 means one per available CPU
func newHashPool(workers, bufferSize int, stage string) *hashPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &hashPool{workers: workers, bufferSize: bufferSize, stage: stage}
}

// run hashes every candidate and returns one result per candidate, in input order.
// Per-file errors are absorbed into OK=false results; run itself never fails.
func (p *hashPool) run(work []FileCandidate, fn hashFunc) []hashResult {
	defer VerboseEnter()()
	results := make([]hashResult, len(work))
	if len(work) == 0 {
		return results
	}

	workers := min(p.workers, len(work))
	buffers := make(chan []byte, workers)
	for range workers {
		buffers <- make([]byte, p.bufferSize)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, c := range work {
		g.Go(func() error {
			buf := <-buffers
			defer func() { buffers <- buf }()

			sum, err := fn(c.Path, buf)
			if err != nil {
				DebugLog("hash", "%s stage dropped %s: %v", p.stage, c.Path, err)
				results[i] = hashResult{Key: ContentKey{Size: c.Size}, Path: c.Path}
				return nil
			}
			results[i] = hashResult{Key: ContentKey{Hash: sum, Size: c.Size}, Path: c.Path, OK: true}
			return nil
		})
	}
	// Failures live in results, so no task returns an error
	_ = g.Wait()

	VerboseLog(2, "%s stage hashed %d files with %d workers", p.stage, len(work), workers)
	return results
}
