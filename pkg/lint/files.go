package lint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast"
)

// FileFilter selects the files a Linter checks during discovery.
type FileFilter struct {
	// Extensions are the accepted file extensions, including the dot.
	Extensions []string
	// Exclude lists directory names that are never entered.
	Exclude []string
}

// CollectFiles expands the given paths into a sorted list of files to lint.
// Files named explicitly are always kept; directories are walked and filtered.
func CollectFiles(paths []string, filter FileFilter) ([]string, error) {
	var files []string

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			files = append(files, root)

			continue
		}

		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			skip, skipErr := filter.shouldSkip(root, path, entry, walkErr)
			if skip || skipErr != nil {
				return skipErr
			}

			files = append(files, path)

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

func (filter FileFilter) shouldSkip(root, path string, entry fs.DirEntry, walkErr error) (bool, error) {
	if walkErr != nil {
		if errors.Is(walkErr, fs.ErrPermission) || errors.Is(walkErr, fs.ErrNotExist) {
			if entry != nil && entry.IsDir() {
				return true, filepath.SkipDir
			}

			return true, nil
		}

		return false, walkErr
	}

	if entry == nil {
		return true, nil
	}

	if entry.IsDir() {
		if path == root {
			return true, nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		if slices.Contains(filter.Exclude, entry.Name()) || uast.IsVendored(rel+"/") {
			return true, filepath.SkipDir
		}

		return true, nil
	}

	return !filter.accepts(path), nil
}

func (filter FileFilter) accepts(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if len(filter.Extensions) == 0 {
		return uast.DetectLanguage(path, nil) != ""
	}

	return slices.ContainsFunc(filter.Extensions, func(candidate string) bool {
		return strings.EqualFold(candidate, ext)
	})
}
