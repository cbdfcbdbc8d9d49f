// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

var (
	//go:embed revisions/*.cue
	revisionFS embed.FS

	// ErrUnknownRevision is returned when no bundled descriptor has the requested number.
	ErrUnknownRevision = errors.New("unknown revision")
)

// RevisionNumbers returns the numbers of the bundled cpp-utils revisions, ascending.
func RevisionNumbers() []int {
	entries, err := fs.ReadDir(revisionFS, "revisions")
	if err != nil {
		return nil
	}
	var nums []int
	for _, e := range entries {
		name := strings.TrimSuffix(strings.TrimPrefix(e.Name(), "revision"), ".cue")
		n, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return nums
}

// RevisionSource returns the raw CUE text of a bundled revision.
func RevisionSource(n int) ([]byte, error) {
	data, err := revisionFS.ReadFile(revisionPath(n))
	if err != nil {
		return nil, fmt.Errorf("%w: %d (available: %v)", ErrUnknownRevision, n, RevisionNumbers())
	}
	return data, nil
}

// Revision parses the bundled cpp-utils revision n.
// Each call returns a freshly decoded Package.
func Revision(n int) (*Package, error) {
	data, err := RevisionSource(n)
	if err != nil {
		return nil, err
	}
	return Parse(data, revisionPath(n))
}

// Revisions parses every bundled revision in ascending order.
func Revisions() ([]*Package, error) {
	nums := RevisionNumbers()
	pkgs := make([]*Package, 0, len(nums))
	for _, n := range nums {
		pkg, err := Revision(n)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

func revisionPath(n int) string {
	return path.Join("revisions", fmt.Sprintf("revision%d.cue", n))
}
