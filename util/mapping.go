package util

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Category is one top-level key of a mapping document and the extensions
// listed under it, in document order.
type Category struct {
	Name       string
	Extensions []string
}

// Conflict is an extension listed under more than one category. Winner is the
// category the extension resolves to.
type Conflict struct {
	Extension  string
	Categories []string
	Winner     string
}

// ParseMapping decodes a mapping document into its categories, keeping the
// order in which they appear. A category with a null or empty list is kept
// with no extensions.
func ParseMapping(data []byte) ([]Category, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidMapping, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: top level must be a mapping of category to extensions", ErrInvalidMapping, root.Line)
	}

	categories := make([]Category, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: category name must be a string", ErrInvalidMapping, key.Line)
		}
		if err := checkCategory(key.Value); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidMapping, key.Line, err)
		}

		category := Category{Name: key.Value}
		switch {
		case value.Kind == yaml.ScalarNode && value.ShortTag() == "!!null":
		case value.Kind == yaml.SequenceNode:
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("%w: line %d: extension under %q must be a string", ErrInvalidMapping, item.Line, key.Value)
				}
				category.Extensions = append(category.Extensions, item.Value)
			}
		default:
			return nil, fmt.Errorf("%w: line %d: %q must list extensions", ErrInvalidMapping, value.Line, key.Value)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// checkCategory rejects names that would not land in a direct child of the
// archive directory.
func checkCategory(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, name)
	}
	return nil
}

// Invert turns categories into an extension to category lookup. Later
// categories overwrite earlier ones for a shared extension. Extensions are
// used exactly as written.
func Invert(categories []Category) map[string]string {
	mapping := make(map[string]string)
	for _, c := range categories {
		for _, ext := range c.Extensions {
			mapping[ext] = c.Name
		}
	}
	return mapping
}

// MappingConflicts reports every extension listed under more than one
// category, in order of first appearance.
func MappingConflicts(categories []Category) []Conflict {
	owners := make(map[string][]string)
	var order []string
	for _, c := range categories {
		for _, ext := range c.Extensions {
			if _, ok := owners[ext]; !ok {
				order = append(order, ext)
			}
			owners[ext] = append(owners[ext], c.Name)
		}
	}

	var conflicts []Conflict
	for _, ext := range order {
		names := owners[ext]
		if len(names) < 2 {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Extension:  ext,
			Categories: names,
			Winner:     names[len(names)-1],
		})
	}
	return conflicts
}

// ReadMapping loads the categories of the mapping document at path.
func ReadMapping(fsys afero.Fs, path string) ([]Category, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: mapping file %s", ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("read mapping %s: %w", path, err)
	}
	categories, err := ParseMapping(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return categories, nil
}

// LoadMapping reads the mapping document at path and returns its extension to
// category lookup.
func LoadMapping(fsys afero.Fs, path string) (map[string]string, error) {
	categories, err := ReadMapping(fsys, path)
	if err != nil {
		return nil, err
	}
	return Invert(categories), nil
}
