//go:build !unix

package sizing

import (
	"hash/fnv"
	"os"
)

// inodeKey identifies a file for deduplication. Without stat device and
// inode numbers, the cleaned path stands in: hardlinks are not collapsed,
// but repeated manifest entries still count once.
type inodeKey struct {
	dev uint64
	ino uint64
}

func inodeOf(path string, _ os.FileInfo) (inodeKey, bool) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(path))
	return inodeKey{ino: h.Sum64()}, true
}
