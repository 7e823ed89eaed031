package tidy

import (
	"io/fs"
	"math"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
)

// Day is the unit ages are expressed in.
const Day = 24 * time.Hour

// AgeResolver computes how long ago an entry was last touched.
type AgeResolver struct {
	clock clockwork.Clock
}

// NewAgeResolver returns a resolver measuring ages against clock.
// A nil clock means the real wall clock.
func NewAgeResolver(clock clockwork.Clock) *AgeResolver {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AgeResolver{clock: clock}
}

// FileAge returns the age of path in days: the smaller of the time since its
// last access and the time since its last modification. Symlinks are not
// followed, the link itself is measured.
func (r *AgeResolver) FileAge(path string) (float64, error) {
	atime, mtime, err := entryTimes(path)
	if err != nil {
		return 0, IOError(path, err)
	}
	return r.ageOf(atime, mtime), nil
}

// DirectoryAge returns the age of the youngest file anywhere beneath path.
// Symlinked directories are not descended into. A tree without any file has
// an age of +Inf.
func (r *AgeResolver) DirectoryAge(path string) (float64, error) {
	youngest := math.Inf(1)
	err := filepath.WalkDir(path, func(subpath string, d fs.DirEntry, err error) error {
		if err != nil {
			return IOError(subpath, err)
		}
		if d.IsDir() {
			return nil
		}
		age, err := r.FileAge(subpath)
		if err != nil {
			return err
		}
		youngest = math.Min(youngest, age)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return youngest, nil
}

func (r *AgeResolver) ageOf(atime, mtime time.Time) float64 {
	now := r.clock.Now()
	accessAge := now.Sub(atime).Hours() / 24
	modifiedAge := now.Sub(mtime).Hours() / 24
	// timestamps in the future count as touched right now
	return math.Max(0, math.Min(accessAge, modifiedAge))
}
