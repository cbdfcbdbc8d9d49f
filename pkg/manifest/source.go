// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type (
	// DirSource finds external package descriptors on disk. For an external
	// package named N each directory is searched, in order, for N.<ext> and
	// then N/package.<ext>, trying every supported extension.
	DirSource struct {
		Dirs []string
	}

	// MapSource serves descriptors held in memory, keyed by external package name.
	MapSource map[string]*Package
)

// Find returns the descriptor for ext, or (nil, nil) when no directory
// contains one.
func (s DirSource) Find(ext ExternalPackage) (*Package, error) {
	for _, dir := range s.Dirs {
		for _, candidate := range candidatePaths(dir, ext.Name) {
			info, err := os.Stat(candidate)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, fmt.Errorf("failed to stat %s: %w", candidate, err)
			}
			if info.IsDir() {
				continue
			}
			return ParseFile(candidate)
		}
	}
	return nil, nil
}

// Find returns the descriptor registered under ext.Name, or (nil, nil).
func (s MapSource) Find(ext ExternalPackage) (*Package, error) {
	return s[ext.Name], nil
}

func candidatePaths(dir, name string) []string {
	var paths []string
	for _, f := range Formats() {
		for _, e := range f.Extensions() {
			paths = append(paths, filepath.Join(dir, name+e))
		}
	}
	for _, f := range Formats() {
		for _, e := range f.Extensions() {
			paths = append(paths, filepath.Join(dir, name, "package"+e))
		}
	}
	return paths
}
