package ksero

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charlievieth/fastwalk"
)

// DirectoryScanner walks root directories and emits one candidate per regular,
// non-empty file. Entries whose metadata cannot be read are skipped.
type DirectoryScanner struct {
	Roots          []string
	FollowSymlinks bool           // Resolve symlinks; fastwalk skips directory loops
	Workers        int            // fastwalk workers, <= 0 lets fastwalk decide
	MinSize        uint64         // Files smaller than this are not candidates
	Ignore         *IgnoreManager // Optional path filter
}

// Scan walks every root and sends candidates on out, closing it when done.
// The walk callback may run on several fastwalk workers; out is the only thing they share.
func (s *DirectoryScanner) Scan(out chan<- FileCandidate) {
	defer VerboseEnter()()
	defer close(out)

	minSize := s.MinSize
	if minSize == 0 {
		minSize = 1
	}

	conf := fastwalk.Config{Follow: s.FollowSymlinks, NumWorkers: s.Workers}

	for _, root := range s.Roots {
		DebugLog("scan", "scanning root %s", root)

		walkFn := func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				DebugLog("scan", "skipping %s: %v", path, err)
				return nil
			}

			if path != root && s.Ignore.HasPatterns() {
				if rel, relErr := filepath.Rel(root, path); relErr == nil && s.Ignore.ShouldIgnore(rel) {
					// fastwalk accepts SkipDir on a symlink and then does not follow it
					if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
						return fastwalk.SkipDir
					}
					return nil
				}
			}

			if d.IsDir() {
				return nil
			}

			var info fs.FileInfo
			var infoErr error
			if d.Type()&fs.ModeSymlink != 0 {
				if !s.FollowSymlinks {
					return nil
				}
				// Directory targets are traversed by fastwalk itself
				info, infoErr = fastwalk.StatDirEntry(path, d)
			} else {
				info, infoErr = d.Info()
			}
			if infoErr != nil {
				DebugLog("scan", "cannot stat %s: %v", path, infoErr)
				return nil
			}

			if !info.Mode().IsRegular() {
				return nil
			}
			size := uint64(info.Size())
			if size < minSize {
				return nil
			}

			c := FileCandidate{Path: path, Size: size}
			if s.FollowSymlinks {
				c.id = fileIdentity(info)
			}
			out <- c
			return nil
		}

		if err := fastwalk.Walk(&conf, root, walkFn); err != nil {
			VerboseLog(1, "scan of %s ended early: %v", root, err)
		}
	}
}

// DeduplicateRoots removes repeated roots and roots nested inside another root, so no
// file is visited twice. Example: ["/home/user/docs", "/home/user/docs/a", "/home/user/photos"]
//
//	-> ["/home/user/docs", "/home/user/photos"]
//
// Comparison uses absolute, cleaned paths; the returned roots keep their original spelling
// and the relative order of the input.
func DeduplicateRoots(roots []string) []string {
	if len(roots) <= 1 {
		return roots
	}

	type rootPath struct {
		orig  string
		abs   string
		index int
	}

	paths := make([]rootPath, 0, len(roots))
	for i, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			abs = filepath.Clean(r)
		}
		paths = append(paths, rootPath{orig: r, abs: abs, index: i})
	}

	// Parents sort before their children
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].abs < paths[j].abs
	})

	var kept []rootPath
	for _, p := range paths {
		redundant := false
		for _, k := range kept {
			if p.abs == k.abs || isPathUnder(p.abs, k.abs) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, p)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].index < kept[j].index
	})

	deduplicated := make([]string, 0, len(kept))
	for _, k := range kept {
		deduplicated = append(deduplicated, k.orig)
	}
	return deduplicated
}

// isPathUnder checks if childPath is strictly under parentPath
func isPathUnder(childPath, parentPath string) bool {
	childPath = filepath.Clean(childPath)
	parentPath = filepath.Clean(parentPath)

	if childPath == parentPath {
		return false
	}

	parentWithSep := parentPath
	if !strings.HasSuffix(parentWithSep, string(filepath.Separator)) {
		parentWithSep += string(filepath.Separator)
	}
	return strings.HasPrefix(childPath, parentWithSep)
}
