//go:build unix

package sizing

import (
	"os"
	"syscall"
)

// inodeKey identifies a physical file by device and inode number.
type inodeKey struct {
	dev uint64
	ino uint64
}

// inodeOf extracts the (device, inode) pair from a stat result.
func inodeOf(_ string, fi os.FileInfo) (inodeKey, bool) {
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		return inodeKey{dev: uint64(st.Dev), ino: uint64(st.Ino)}, true
	}
	return inodeKey{}, false
}
