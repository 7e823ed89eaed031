package tidy

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// newClock freezes "now" at the start of the test so ages do not drift.
func newClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(time.Now())
}

func days(n float64) time.Duration {
	return time.Duration(n * float64(Day))
}

// writeAged creates path with content and backdates its access and
// modification times relative to clock.
func writeAged(t *testing.T, clock clockwork.Clock, path string, accessAge, modAge time.Duration) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(filepath.Base(path)), 0o644))
	now := clock.Now()
	require.NoError(t, os.Chtimes(path, now.Add(-accessAge), now.Add(-modAge)))
}

func writeAgedDays(t *testing.T, clock clockwork.Clock, path string, age float64) {
	t.Helper()
	writeAged(t, clock, path, days(age), days(age))
}

func testOptions(t *testing.T, clock clockwork.Clock) Options {
	return Options{Clock: clock, Logger: zaptest.NewLogger(t)}
}

// snapshot fingerprints every entry below root. Symlinks are compared by
// target, directories by mtime, files by size, mtime and content.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			out[rel] = "link " + target
		case info.IsDir():
			out[rel] = fmt.Sprintf("dir %d", info.ModTime().UnixNano())
		default:
			// reading may bump the access time; put it back so ages are unaffected
			atime, mtime, err := entryTimes(path)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if err := os.Chtimes(path, atime, mtime); err != nil {
				return err
			}
			out[rel] = fmt.Sprintf("file %d %d %x", info.Size(), info.ModTime().UnixNano(), sha256.Sum256(data))
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

type recorderSpy struct {
	files, dirs, deleted int
	skipped              map[Phase]int
}

func newRecorderSpy() *recorderSpy {
	return &recorderSpy{skipped: make(map[Phase]int)}
}

func (r *recorderSpy) Archived(kind Kind) {
	if kind == KindDirectory {
		r.dirs++
		return
	}
	r.files++
}

func (r *recorderSpy) Deleted()            { r.deleted++ }
func (r *recorderSpy) Skipped(phase Phase) { r.skipped[phase]++ }
