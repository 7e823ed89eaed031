package tidy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
)

const (
	// DirectoryCategory holds every archived directory regardless of its name.
	DirectoryCategory = "directories"
	// DefaultCategory holds files whose extension is not mapped.
	DefaultCategory = "other"

	dateSuffixLayout = "20060102"
	// maxCollisionSuffix bounds the _YYYYMMDD-N search.
	maxCollisionSuffix = 999
)

// Mapping maps a file extension, leading dot included, to a category name.
type Mapping map[string]string

// CategoryFor returns the archive category of path. Directories always use
// DirectoryCategory; files are looked up by extension and fall back to
// DefaultCategory.
func CategoryFor(path string, isDir bool, mapping Mapping) string {
	if isDir {
		return DirectoryCategory
	}
	_, ext := SplitExt(filepath.Base(path))
	if category, ok := mapping[ext]; ok && category != "" {
		return category
	}
	return DefaultCategory
}

// SplitExt splits name into stem and extension at the last dot. Leading dots
// do not start an extension, so ".bashrc" has none and "a.tar.gz" has ".gz".
func SplitExt(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || strings.TrimLeft(name[:i], ".") == "" {
		return name, ""
	}
	return name[:i], name[i:]
}

// Namer picks archive destinations. It remembers every name it hands out, so
// two entries that would collide in a dry run are reported with the names a
// real run would give them. Use one Namer per sweep.
type Namer struct {
	clock   clockwork.Clock
	claimed map[string]struct{}
}

// NewNamer returns a Namer dating collision suffixes with clock.
func NewNamer(clock clockwork.Clock) *Namer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Namer{
		clock:   clock,
		claimed: make(map[string]struct{}),
	}
}

// DestinationFor returns archiveRoot/category/basename(source). When that name
// is taken, a date suffix is inserted between stem and extension (appended for
// directories), followed by -1, -2, ... until a free name is found.
func (n *Namer) DestinationFor(archiveRoot, category, source string, isDir bool) (string, error) {
	dir := filepath.Join(archiveRoot, category)
	base := filepath.Base(source)

	candidate := filepath.Join(dir, base)
	if !n.taken(candidate) {
		n.claimed[candidate] = struct{}{}
		return candidate, nil
	}

	stem, ext := base, ""
	if !isDir {
		stem, ext = SplitExt(base)
	}
	date := n.clock.Now().Format(dateSuffixLayout)

	for i := 0; i <= maxCollisionSuffix; i++ {
		suffix := "_" + date
		if i > 0 {
			suffix = fmt.Sprintf("_%s-%d", date, i)
		}
		candidate = filepath.Join(dir, stem+suffix+ext)
		if !n.taken(candidate) {
			n.claimed[candidate] = struct{}{}
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrCollisionExhausted, filepath.Join(dir, base))
}

// taken reports whether path exists or was already handed out. A path that
// cannot be checked counts as taken.
func (n *Namer) taken(path string) bool {
	if _, ok := n.claimed[path]; ok {
		return true
	}
	_, err := os.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
