package ksero

// SizeBucketer groups candidates by exact byte length.
// It does no I/O; unique sizes are pruned before any content is read.
type SizeBucketer struct {
	buckets    SizeBucket
	considered Tally
	seen       map[fileID]int // bucket position of each identified file
}

// NewSizeBucketer creates an empty bucketer
func NewSizeBucketer() *SizeBucketer {
	return &SizeBucketer{buckets: make(SizeBucket), seen: make(map[fileID]int)}
}

// Add places a candidate in the bucket for its size. A candidate naming a file
// already seen through another path is folded into it, keeping the lexically
// smallest path, so a file is never its own duplicate.
func (sb *SizeBucketer) Add(c FileCandidate) {
	if c.id != (fileID{}) {
		if pos, ok := sb.seen[c.id]; ok {
			existing := &sb.buckets[c.Size][pos]
			DebugLog("bucket", "%s and %s are the same file", existing.Path, c.Path)
			if c.Path < existing.Path {
				existing.Path = c.Path
			}
			return
		}
		sb.seen[c.id] = len(sb.buckets[c.Size])
	}
	sb.buckets[c.Size] = append(sb.buckets[c.Size], c)
	sb.considered.Add(1, c.Size)
}

// Consume drains a candidate channel until it is closed
func (sb *SizeBucketer) Consume(in <-chan FileCandidate) {
	for c := range in {
		sb.Add(c)
	}
	DebugLog("bucket", "size bucketer: %d candidates in %d size buckets", sb.considered.Files, len(sb.buckets))
}

// Considered returns the number and total size of all candidates seen
func (sb *SizeBucketer) Considered() Tally {
	return sb.considered
}

// Buckets returns only the buckets with two or more members.
// The bucketer hands ownership of those buckets to the caller.
func (sb *SizeBucketer) Buckets() SizeBucket {
	out := make(SizeBucket)
	for size, members := range sb.buckets {
		if len(members) > 1 {
			out[size] = members
		}
	}
	return out
}

// Survivors flattens the multi-member buckets into the ChunkHasher work list
func (sb *SizeBucketer) Survivors() []FileCandidate {
	var work []FileCandidate
	for _, members := range sb.Buckets() {
		work = append(work, members...)
	}
	return work
}
