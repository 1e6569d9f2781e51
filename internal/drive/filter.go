package drive

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter applies include/exclude globs to item paths. With no include
// patterns everything matches; exclude wins over include.
type PathFilter struct {
	include []string
	exclude []string
}

func NewPathFilter(include, exclude []string) (*PathFilter, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("drive: invalid glob pattern %q", p)
		}
	}
	return &PathFilter{include: include, exclude: exclude}, nil
}

func (f *PathFilter) Match(itemPath string) bool {
	itemPath = strings.TrimPrefix(itemPath, "/")

	for _, p := range f.exclude {
		if ok, _ := doublestar.Match(p, itemPath); ok {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}
	for _, p := range f.include {
		if ok, _ := doublestar.Match(p, itemPath); ok {
			return true
		}
	}
	return false
}
