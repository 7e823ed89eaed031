//go:build linux || darwin || freebsd

package tidy

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

func entryTimes(path string) (atime, mtime time.Time, err error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return time.Time{}, time.Time{}, &os.PathError{Op: "lstat", Path: path, Err: err}
	}
	return time.Unix(st.Atim.Unix()), time.Unix(st.Mtim.Unix()), nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
