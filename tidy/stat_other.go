//go:build !(linux || darwin || freebsd)

package tidy

import (
	"errors"
	"os"
	"syscall"
	"time"
)

// Access times are not portable; the modification time stands in for both.
func entryTimes(path string) (atime, mtime time.Time, err error) {
	info, err := os.Lstat(path)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return info.ModTime(), info.ModTime(), nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
