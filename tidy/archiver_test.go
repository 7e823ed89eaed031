package tidy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMapping = Mapping{
	".log": "logs",
	".txt": "documents",
}

// newTree lays out a source directory with an archive directory inside it,
// the way tidydir is usually deployed (~/Downloads and ~/Downloads/archive).
func newTree(t *testing.T) (source, archive string) {
	t.Helper()
	source = t.TempDir()
	archive = filepath.Join(source, "archive")
	require.NoError(t, os.Mkdir(archive, 0o755))
	return source, archive
}

func TestArchive_Scenario(t *testing.T) {
	clock := newClock()
	source, archive := newTree(t)
	writeAgedDays(t, clock, filepath.Join(source, "old.log"), 40)
	writeAgedDays(t, clock, filepath.Join(source, "new.txt"), 2)
	require.NoError(t, os.Mkdir(filepath.Join(source, "empty"), 0o755))

	res, err := NewArchiver(testOptions(t, clock)).Archive(context.Background(), source, archive, 30, testMapping, false)
	require.NoError(t, err)

	assert.Equal(t, ArchiveResult{Files: 1, Directories: 0}, res)
	assert.FileExists(t, filepath.Join(archive, "logs", "old.log"))
	assert.NoFileExists(t, filepath.Join(source, "old.log"))
	assert.FileExists(t, filepath.Join(source, "new.txt"))
	assert.DirExists(t, filepath.Join(source, "empty"))
	assert.NoDirExists(t, filepath.Join(archive, "documents"), "categories are only created on a move")
	assert.NoDirExists(t, filepath.Join(archive, DirectoryCategory))
}

func TestArchive_Directories(t *testing.T) {
	clock := newClock()
	source, archive := newTree(t)
	writeAgedDays(t, clock, filepath.Join(source, "stale", "a.txt"), 45)
	writeAgedDays(t, clock, filepath.Join(source, "stale", "deep", "b.log"), 35)
	writeAgedDays(t, clock, filepath.Join(source, "mixed", "old.txt"), 300)
	writeAgedDays(t, clock, filepath.Join(source, "mixed", "sub", "fresh.txt"), 1)
	require.NoError(t, os.MkdirAll(filepath.Join(source, "hollow", "inner"), 0o755))

	res, err := NewArchiver(testOptions(t, clock)).Archive(context.Background(), source, archive, 30, testMapping, false)
	require.NoError(t, err)

	assert.Equal(t, ArchiveResult{Directories: 1}, res)
	assert.FileExists(t, filepath.Join(archive, DirectoryCategory, "stale", "deep", "b.log"), "directories move as a whole")
	assert.DirExists(t, filepath.Join(source, "mixed"), "one fresh file keeps the directory")
	assert.DirExists(t, filepath.Join(source, "hollow"), "a directory without files never ages out")
}

func TestArchive_UnmappedAndExtensionless(t *testing.T) {
	clock := newClock()
	source, archive := newTree(t)
	writeAgedDays(t, clock, filepath.Join(source, "blob.bin"), 90)
	writeAgedDays(t, clock, filepath.Join(source, "README"), 90)

	res, err := NewArchiver(testOptions(t, clock)).Archive(context.Background(), source, archive, 30, testMapping, false)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Files)
	assert.FileExists(t, filepath.Join(archive, DefaultCategory, "blob.bin"))
	assert.FileExists(t, filepath.Join(archive, DefaultCategory, "README"))
}

func TestArchive_NeverMovesArchiveDirectory(t *testing.T) {
	clock := newClock()
	source, archive := newTree(t)
	writeAgedDays(t, clock, filepath.Join(archive, "logs", "ancient.log"), 400)

	t.Run("by identity", func(t *testing.T) {
		res, err := NewArchiver(testOptions(t, clock)).Archive(context.Background(), source, archive, 30, testMapping, false)
		require.NoError(t, err)
		assert.Equal(t, ArchiveResult{}, res)
		assert.FileExists(t, filepath.Join(archive, "logs", "ancient.log"))
	})

	t.Run("through a relative path", func(t *testing.T) {
		t.Chdir(source)
		res, err := NewArchiver(testOptions(t, clock)).Archive(context.Background(), ".", "./archive/../archive", 30, testMapping, false)
		require.NoError(t, err)
		assert.Equal(t, ArchiveResult{}, res)
	})

	t.Run("through a symlink", func(t *testing.T) {
		link := filepath.Join(t.TempDir(), "archive-link")
		require.NoError(t, os.Symlink(archive, link))

		res, err := NewArchiver(testOptions(t, clock)).Archive(context.Background(), source, link, 30, testMapping, false)
		require.NoError(t, err)
		assert.Equal(t, ArchiveResult{}, res)
		assert.DirExists(t, archive)
	})
}

func TestArchive_Idempotent(t *testing.T) {
	clock := newClock()
	source, archive := newTree(t)
	writeAgedDays(t, clock, filepath.Join(source, "old.log"), 40)
	writeAgedDays(t, clock, filepath.Join(source, "project", "main.go"), 60)
	writeAgedDays(t, clock, filepath.Join(source, "new.txt"), 2)
	archiver := NewArchiver(testOptions(t, clock))

	first, err := archiver.Archive(context.Background(), source, archive, 30, testMapping, false)
	require.NoError(t, err)
	assert.Equal(t, ArchiveResult{Files: 1, Directories: 1}, first)

	second, err := archiver.Archive(context.Background(), source, archive, 30, testMapping, false)
	require.NoError(t, err)
	assert.Equal(t, ArchiveResult{}, second)

	entries, err := os.ReadDir(filepath.Join(archive, "logs"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "each entry is moved exactly once")
}

func TestArchive_DryRun(t *testing.T) {
	clock := newClock()
	source, archive := newTree(t)
	writeAgedDays(t, clock, filepath.Join(source, "old.log"), 40)
	writeAgedDays(t, clock, filepath.Join(source, "report.txt"), 50)
	writeAgedDays(t, clock, filepath.Join(source, "project", "main.go"), 60)
	writeAgedDays(t, clock, filepath.Join(source, "new.txt"), 2)
	writeAgedDays(t, clock, filepath.Join(archive, "documents", "report.txt"), 10)

	before := snapshot(t, source)
	dryRec := newRecorderSpy()
	opts := testOptions(t, clock)
	opts.Recorder = dryRec

	dry, err := NewArchiver(opts).Archive(context.Background(), source, archive, 30, testMapping, true)
	require.NoError(t, err)
	assert.Equal(t, before, snapshot(t, source), "a dry run must not touch the filesystem")

	wet, err := NewArchiver(testOptions(t, clock)).Archive(context.Background(), source, archive, 30, testMapping, false)
	require.NoError(t, err)

	assert.Equal(t, wet, dry, "a dry run reports what a real run does")
	assert.Equal(t, ArchiveResult{Files: 2, Directories: 1}, dry)
	assert.Equal(t, 2, dryRec.files)
	assert.Equal(t, 1, dryRec.dirs)
}

func TestArchive_CollisionSafety(t *testing.T) {
	clock := newClock()
	source, archive := newTree(t)
	existing := filepath.Join(archive, "documents", "report.txt")
	writeAgedDays(t, clock, existing, 100)
	archiver := NewArchiver(testOptions(t, clock))

	contents := []string{"first upload", "second upload"}
	for _, content := range contents {
		path := filepath.Join(source, "report.txt")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		now := clock.Now()
		require.NoError(t, os.Chtimes(path, now.Add(-days(40)), now.Add(-days(40))))

		res, err := archiver.Archive(context.Background(), source, archive, 30, testMapping, false)
		require.NoError(t, err)
		require.Equal(t, 1, res.Files)
	}

	entries, err := os.ReadDir(filepath.Join(archive, "documents"))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	found := map[string]bool{}
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(archive, "documents", e.Name()))
		require.NoError(t, err)
		found[string(data)] = true
		assert.True(t, strings.HasPrefix(e.Name(), "report") && strings.HasSuffix(e.Name(), ".txt"), e.Name())
	}
	assert.True(t, found["report.txt"], "original archived file survives")
	for _, content := range contents {
		assert.True(t, found[content], "%q must be retrievable", content)
	}
}

// vanishingIgnorer deletes entries as the sweep reaches them, simulating a
// path that disappears between listing and stat.
type vanishingIgnorer struct {
	t    *testing.T
	name string
}

func (v vanishingIgnorer) Match(path string, isDir bool) bool {
	if filepath.Base(path) == v.name {
		require.NoError(v.t, os.RemoveAll(path))
	}
	return false
}

func TestArchive_SkipsFailingEntries(t *testing.T) {
	clock := newClock()
	source, archive := newTree(t)
	writeAgedDays(t, clock, filepath.Join(source, "a.log"), 40)
	writeAgedDays(t, clock, filepath.Join(source, "b.log"), 40)
	writeAgedDays(t, clock, filepath.Join(source, "c.log"), 40)

	rec := newRecorderSpy()
	opts := testOptions(t, clock)
	opts.Recorder = rec
	opts.Ignore = vanishingIgnorer{t: t, name: "b.log"}

	res, err := NewArchiver(opts).Archive(context.Background(), source, archive, 30, testMapping, false)
	require.NoError(t, err, "one bad entry must not abort the sweep")
	assert.Equal(t, ArchiveResult{Files: 2, Skipped: 1}, res)
	assert.Equal(t, 1, rec.skipped[PhaseArchive])
	assert.FileExists(t, filepath.Join(archive, "logs", "a.log"))
	assert.FileExists(t, filepath.Join(archive, "logs", "c.log"))
}

func TestArchive_CollisionExhaustedLeavesEntry(t *testing.T) {
	clock := newClock()
	source, archive := newTree(t)
	writeAgedDays(t, clock, filepath.Join(source, "x.log"), 40)
	date := clock.Now().Format(dateSuffixLayout)
	touch(t, filepath.Join(archive, "logs", "x.log"))
	touch(t, filepath.Join(archive, "logs", "x_"+date+".log"))
	for i := 1; i <= maxCollisionSuffix; i++ {
		touch(t, filepath.Join(archive, "logs", fmt.Sprintf("x_%s-%d.log", date, i)))
	}

	res, err := NewArchiver(testOptions(t, clock)).Archive(context.Background(), source, archive, 30, testMapping, false)
	require.NoError(t, err)
	assert.Equal(t, ArchiveResult{Skipped: 1}, res)
	assert.FileExists(t, filepath.Join(source, "x.log"))
}

func TestArchive_IgnoreFile(t *testing.T) {
	clock := newClock()
	source, archive := newTree(t)
	writeAgedDays(t, clock, filepath.Join(source, "keep.log"), 40)
	writeAgedDays(t, clock, filepath.Join(source, "pinned", "notes.txt"), 40)
	writeAgedDays(t, clock, filepath.Join(source, "drop.log"), 40)

	opts := testOptions(t, clock)
	opts.Ignore = gitignore.NewGitIgnoreFromReader(source, strings.NewReader("keep.log\npinned/\n"))

	res, err := NewArchiver(opts).Archive(context.Background(), source, archive, 30, testMapping, false)
	require.NoError(t, err)
	assert.Equal(t, ArchiveResult{Files: 1}, res)
	assert.FileExists(t, filepath.Join(source, "keep.log"))
	assert.DirExists(t, filepath.Join(source, "pinned"))
	assert.FileExists(t, filepath.Join(archive, "logs", "drop.log"))
}

func TestArchive_MissingSource(t *testing.T) {
	root := t.TempDir()
	_, err := NewArchiver(Options{}).Archive(context.Background(), filepath.Join(root, "nope"), root, 30, nil, false)
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestArchive_Canceled(t *testing.T) {
	clock := newClock()
	source, archive := newTree(t)
	writeAgedDays(t, clock, filepath.Join(source, "old.log"), 40)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewArchiver(testOptions(t, clock)).Archive(ctx, source, archive, 30, testMapping, false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.FileExists(t, filepath.Join(source, "old.log"))
}
