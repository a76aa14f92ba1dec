// Package sizing computes deduplicated on-disk sizes for files and trees.
//
// Sizes are byte totals from lstat/stat, deduplicated by (device, inode)
// so hardlinked files are never counted twice within one call. All
// per-file failures (permission, races with deletion) degrade to a zero
// contribution; only the caller's top-level misconfiguration is an error,
// and that is handled above this package.
package sizing

import (
	"os"
	"path/filepath"
	"strings"
)

// FileSize records a single file's contribution to a size total.
type FileSize struct {
	Path  string
	Bytes int64
}

// SizeInfo accumulates byte and file counts for a set of paths.
//
// Summing two SizeInfo values is only meaningful when the caller has
// deduplicated by inode; within one PathSize or DistributionSize call
// the shared InodeSet guarantees that.
type SizeInfo struct {
	Bytes   int64
	Files   int
	Entries []FileSize
}

// Add merges another SizeInfo into this one.
func (s *SizeInfo) Add(other SizeInfo) {
	s.Bytes += other.Bytes
	s.Files += other.Files
	s.Entries = append(s.Entries, other.Entries...)
}

// Options controls traversal behavior for size calculations.
type Options struct {
	// FollowSymlinks resolves symlinks to their targets. When false,
	// a symlink contributes the size of the link itself.
	FollowSymlinks bool

	// Exclude lists glob patterns tested against full paths and basenames.
	// Patterns containing ** also match as substring fragments.
	Exclude []string
}

// InodeSet tracks (device, inode) pairs already counted in a traversal.
// Thread one set through all calls that must share deduplication.
type InodeSet struct {
	seen map[inodeKey]bool
}

// NewInodeSet creates an empty inode set.
func NewInodeSet() *InodeSet {
	return &InodeSet{seen: make(map[inodeKey]bool)}
}

// visit records the key and reports whether it was already present.
func (s *InodeSet) visit(k inodeKey) bool {
	if s.seen[k] {
		return true
	}
	s.seen[k] = true
	return false
}

// Len returns the number of distinct inodes seen.
func (s *InodeSet) Len() int { return len(s.seen) }

// ShouldExclude reports whether path matches any of the exclude patterns.
// A pattern matches if it globs the full path or the basename, or - for
// patterns containing ** - if any non-empty **-delimited fragment is a
// substring of the path.
func ShouldExclude(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if strings.Contains(pattern, "**") {
			for _, frag := range strings.Split(pattern, "**") {
				if frag != "" && strings.Contains(path, frag) {
					return true
				}
			}
		}
	}
	return false
}

// PathSize computes the deduplicated size of a file or directory tree.
//
// Nonexistent paths and excluded paths contribute zero. Symlinks are
// counted as the link itself unless opts.FollowSymlinks is set, in which
// case directory targets are guarded against cycles via seen. Directory
// read errors are swallowed and partial results returned.
//
// The seen set must not be nil; share one set across calls whose results
// will be summed.
func PathSize(path string, opts Options, seen *InodeSet) SizeInfo {
	var info SizeInfo

	fi, err := os.Lstat(path)
	if err != nil {
		return info
	}
	if ShouldExclude(path, opts.Exclude) {
		return info
	}

	if fi.Mode()&os.ModeSymlink != 0 {
		if !opts.FollowSymlinks {
			countFile(&info, path, fi, seen)
			return info
		}
		// Follow the link; a broken target contributes zero.
		fi, err = os.Stat(path)
		if err != nil {
			return info
		}
	}

	if fi.Mode().IsRegular() {
		countFile(&info, path, fi, seen)
		return info
	}

	if fi.IsDir() {
		if opts.FollowSymlinks {
			// Cycle guard: never descend into the same directory twice.
			if k, ok := inodeOf(path, fi); ok && seen.visit(k) {
				return info
			}
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return info
		}
		for _, entry := range entries {
			child := PathSize(filepath.Join(path, entry.Name()), opts, seen)
			info.Add(child)
		}
	}

	// Sockets, FIFOs and devices contribute zero.
	return info
}

// countFile adds one file's size to info unless its inode was seen before.
func countFile(info *SizeInfo, path string, fi os.FileInfo, seen *InodeSet) {
	if k, ok := inodeOf(path, fi); ok && seen.visit(k) {
		return
	}
	info.Bytes += fi.Size()
	info.Files++
	info.Entries = append(info.Entries, FileSize{Path: path, Bytes: fi.Size()})
}

// DistributionSize computes the total size of a distribution's manifest.
// One InodeSet is shared across all files, so two manifest entries that
// are hardlinks of each other count once.
func DistributionSize(files []string, opts Options) SizeInfo {
	seen := NewInodeSet()
	var total SizeInfo
	for _, f := range files {
		total.Add(PathSize(f, opts, seen))
	}
	return total
}

// editableExcludes are always filtered when walking editable source trees:
// build artifacts, VCS metadata, and bytecode caches are not part of the
// installed footprint.
var editableExcludes = []string{
	"*.pyc",
	"__pycache__",
	"*.egg-info",
	".git",
	".svn",
	".hg",
	"node_modules",
	".tox",
	".nox",
	"build",
	"dist",
}

// EditableSize computes the size of an editable install's source tree.
// The fixed source-tree exclusions are appended to any caller-supplied
// patterns.
func EditableSize(root string, opts Options) SizeInfo {
	opts.Exclude = append(append([]string{}, opts.Exclude...), editableExcludes...)
	return PathSize(root, opts, NewInodeSet())
}
