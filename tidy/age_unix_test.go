//go:build linux || darwin || freebsd

package tidy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// backdateLink sets the times of the link itself, not of its target.
func backdateLink(t *testing.T, clock clockwork.Clock, path string, age time.Duration) {
	t.Helper()
	ts := unix.NsecToTimespec(clock.Now().Add(-age).UnixNano())
	require.NoError(t, unix.UtimesNanoAt(unix.AT_FDCWD, path, []unix.Timespec{ts, ts}, unix.AT_SYMLINK_NOFOLLOW))
}

func TestDirectoryAge_DoesNotFollowSymlinkedDirectories(t *testing.T) {
	clock := newClock()
	root := t.TempDir()
	tree := filepath.Join(root, "tree")
	outside := filepath.Join(root, "outside")

	writeAgedDays(t, clock, filepath.Join(tree, "old.txt"), 50)
	writeAgedDays(t, clock, filepath.Join(outside, "young.txt"), 5)
	link := filepath.Join(tree, "link")
	require.NoError(t, os.Symlink(outside, link))
	backdateLink(t, clock, link, days(40))

	age, err := NewAgeResolver(clock).DirectoryAge(tree)
	require.NoError(t, err)
	assert.InDelta(t, 40, age, 1e-6, "the link is measured, its target is not")
}

func TestDirectoryAge_SymlinkCycleTerminates(t *testing.T) {
	clock := newClock()
	tree := t.TempDir()
	writeAgedDays(t, clock, filepath.Join(tree, "sub", "f.txt"), 20)
	link := filepath.Join(tree, "sub", "loop")
	require.NoError(t, os.Symlink(tree, link))
	backdateLink(t, clock, link, days(30))

	age, err := NewAgeResolver(clock).DirectoryAge(tree)
	require.NoError(t, err)
	assert.InDelta(t, 20, age, 1e-6)
}
