//go:build linux

package ksero

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the whole file will be read once, front to back
func adviseSequential(f *os.File) {
	if err := unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL); err != nil {
		DebugLog("hash", "fadvise sequential failed for %s: %v", f.Name(), err)
	}
}

// adviseDone drops the file's pages; a full hash never rereads them
func adviseDone(f *os.File) {
	if err := unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_DONTNEED); err != nil {
		DebugLog("hash", "fadvise dontneed failed for %s: %v", f.Name(), err)
	}
}
