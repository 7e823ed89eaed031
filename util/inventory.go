package util

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/dendrascience/tidydir/tidy"
)

// CategoryStats summarises one category directory of an archive. Ages are in
// days; an entry with no files inside has no age and is left out of
// Youngest and Oldest.
type CategoryStats struct {
	Name     string
	Entries  int
	Files    int
	Youngest float64
	Oldest   float64
	Unaged   int
}

// CountFiles returns the number of non-directory entries below path.
func CountFiles(path string) (count int, err error) {
	var info os.FileInfo
	info, err = os.Lstat(path)
	if err != nil {
		return
	}
	if !info.IsDir() {
		return 1, nil
	}
	var files []os.DirEntry
	files, err = os.ReadDir(path)
	if err != nil {
		return
	}
	for _, f := range files {
		if !f.IsDir() {
			count++
			continue
		}
		c, e := CountFiles(filepath.Join(path, f.Name()))
		count += c
		if e != nil {
			return count, e
		}
	}
	return
}

// Inventory reports every category directory of archiveDir, sorted by name.
// Loose files at the top of the archive are not categories and are skipped,
// as are staging copies of moves still in progress.
func Inventory(archiveDir string, ages *tidy.AgeResolver) ([]CategoryStats, error) {
	info, err := os.Stat(archiveDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, archiveDir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrExpectedDirectory, archiveDir)
	}

	dirs, err := os.ReadDir(archiveDir)
	if err != nil {
		return nil, err
	}
	var stats []CategoryStats
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		s, err := categoryStats(filepath.Join(archiveDir, d.Name()), ages)
		if err != nil {
			return stats, err
		}
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats, nil
}

func categoryStats(dir string, ages *tidy.AgeResolver) (CategoryStats, error) {
	s := CategoryStats{Name: filepath.Base(dir), Youngest: math.Inf(1), Oldest: math.Inf(-1)}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return s, err
	}
	for _, e := range entries {
		if tidy.IsStagingName(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		s.Entries++

		var age float64
		if e.IsDir() {
			n, err := CountFiles(path)
			if err != nil {
				return s, err
			}
			s.Files += n
			age, err = ages.DirectoryAge(path)
			if err != nil {
				return s, err
			}
		} else {
			s.Files++
			age, err = ages.FileAge(path)
			if err != nil {
				return s, err
			}
		}

		if math.IsInf(age, 1) {
			s.Unaged++
			continue
		}
		s.Youngest = math.Min(s.Youngest, age)
		s.Oldest = math.Max(s.Oldest, age)
	}
	if s.Entries == s.Unaged {
		s.Youngest, s.Oldest = 0, 0
	}
	return s, nil
}
