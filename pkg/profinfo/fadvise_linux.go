//go:build linux

package profinfo

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the dump is read front to back once.
// Failure only costs read-ahead, so it is ignored.
func adviseSequential(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
