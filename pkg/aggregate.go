package ksero

import (
	"fmt"
	"math"
	"sort"
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// Tally is a file count with the bytes those files occupy
type Tally struct {
	Files uint64 `json:"files"`
	Bytes uint64 `json:"bytes"`
}

// Add increases the tally
func (t *Tally) Add(files, bytes uint64) {
	t.Files += files
	t.Bytes += bytes
}

// Sub returns t minus other
func (t Tally) Sub(other Tally) Tally {
	return Tally{Files: t.Files - other.Files, Bytes: t.Bytes - other.Bytes}
}

// RunCounters summarises one pipeline run. A file dropped by a read error in the
// prefix stage is counted as considered and skipped, and also in Unreadable.
type RunCounters struct {
	Considered    Tally  `json:"considered"`
	SkippedBySize Tally  `json:"skipped_by_size"` // Considered - Nibbled
	Nibbled       Tally  `json:"nibbled"`         // Survived the prefix hash
	Hashed        Tally  `json:"hashed"`          // Survived the full hash
	Unreadable    Tally  `json:"unreadable"`      // Dropped by open or read errors
	Groups        int    `json:"groups"`
	Duplicates    Tally  `json:"duplicates"` // Members of reported groups
	Reclaimable   uint64 `json:"reclaimable_bytes"`
}

// DuplicateGroup is a set of files asserted to have identical content
type DuplicateGroup struct {
	Key   ContentKey `json:"key"`
	Count int        `json:"count"`
	Bytes uint64     `json:"bytes"` // Size × Count
	Paths []string   `json:"paths"`
}

// Wasted returns the bytes that all but one copy occupy
func (g DuplicateGroup) Wasted() uint64 {
	if g.Count < 2 {
		return 0
	}
	return g.Key.Size * uint64(g.Count-1)
}

// Result is the output of one pipeline run
type Result struct {
	Groups     []DuplicateGroup `json:"groups"`
	Counters   RunCounters      `json:"counters"`
	Unreadable []string         `json:"unreadable,omitempty"`
}

// groupOrderKey encodes the emit order of a group: reclaimable bytes, largest first,
// then size and hash. Fixed-width hex keeps byte order equal to numeric order.
func groupOrderKey(g *DuplicateGroup) string {
	return fmt.Sprintf("%016x%016x%016x", math.MaxUint64-g.Wasted(), g.Key.Size, g.Key.Hash)
}

// newGroupIndex creates the ordered index used to emit groups deterministically.
// The skiplist context records the stage that produced the group.
func newGroupIndex() *zcsl.ZeroCopySkiplist[DuplicateGroup, string, string] {
	getSize := func(g *DuplicateGroup) int {
		return len(g.Paths)
	}
	return zcsl.MakeZeroCopySkiplist[DuplicateGroup, string, string](
		16,
		groupOrderKey,
		getSize,
		strings.Compare,
	)
}

// ResultAggregator accumulates counters stage by stage and turns the final buckets
// into duplicate groups
type ResultAggregator struct {
	counters   RunCounters
	unreadable []string
}

// NewResultAggregator starts an aggregation for a run that considered the given files
func NewResultAggregator(considered Tally) *ResultAggregator {
	return &ResultAggregator{counters: RunCounters{Considered: considered}}
}

// RecordChunkStage records the prefix stage output
func (ra *ResultAggregator) RecordChunkStage(buckets HashBucket, failed []FileCandidate) {
	ra.counters.Nibbled = buckets.Tally()
	ra.recordFailed(failed)
}

// RecordFullStage records the full-content stage output
func (ra *ResultAggregator) RecordFullStage(buckets HashBucket, failed []FileCandidate) {
	ra.counters.Hashed = buckets.Tally()
	ra.recordFailed(failed)
}

func (ra *ResultAggregator) recordFailed(failed []FileCandidate) {
	for _, c := range failed {
		ra.counters.Unreadable.Add(1, c.Size)
		ra.unreadable = append(ra.unreadable, c.Path)
	}
}

// Finalize discards singleton buckets, emits the remaining ones as groups and
// freezes the counters. The aggregator must not be used afterwards.
func (ra *ResultAggregator) Finalize(final HashBucket) *Result {
	defer VerboseEnter()()
	index := newGroupIndex()

	for key, paths := range final {
		if len(paths) < 2 {
			continue
		}
		members := append([]string(nil), paths...)
		sort.Strings(members)
		group := &DuplicateGroup{
			Key:   key,
			Count: len(members),
			Bytes: key.Size * uint64(len(members)),
			Paths: members,
		}
		index.Insert(group, FullStage)
	}

	groups := make([]DuplicateGroup, 0, index.Length())
	for node := index.First(); node != nil; node = node.Next() {
		group := *node.Item()
		groups = append(groups, group)
		ra.counters.Duplicates.Add(uint64(group.Count), group.Bytes)
		ra.counters.Reclaimable += group.Wasted()
	}

	ra.counters.Groups = len(groups)
	ra.counters.SkippedBySize = ra.counters.Considered.Sub(ra.counters.Nibbled)
	sort.Strings(ra.unreadable)

	return &Result{
		Groups:     groups,
		Counters:   ra.counters,
		Unreadable: ra.unreadable,
	}
}
