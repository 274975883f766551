// pkg/build/staging.go
package build

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CheckStaging walks the staging root after the package hook ran,
// producing the file manifest of the package. It fails on an empty
// staging root and on symlinks pointing outside it; questionable modes
// are reported as warnings.
func CheckStaging(pkgdir string) ([]FileEntry, []string, error) {
	var entries []FileEntry
	var warnings []string

	root := filepath.Clean(pkgdir)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		entry := FileEntry{
			Path: rel,
			Mode: info.Mode(),
		}

		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			if filepath.IsAbs(link) {
				return fmt.Errorf("symlink %s targets absolute path %s", rel, link)
			}
			resolved := filepath.Join(filepath.Dir(path), link)
			if resolved != root && !strings.HasPrefix(resolved, root+string(os.PathSeparator)) {
				return fmt.Errorf("symlink %s escapes the staging root (-> %s)", rel, link)
			}
			entry.Link = link

		case info.Mode().IsRegular():
			entry.Size = info.Size()
			if info.Mode()&os.ModeSetuid != 0 {
				warnings = append(warnings, fmt.Sprintf("%s is setuid", rel))
			}
			if info.Mode().Perm()&0002 != 0 {
				warnings = append(warnings, fmt.Sprintf("%s is world-writable", rel))
			}

		case info.IsDir():
			// Recorded for the archive, nothing to check

		default:
			warnings = append(warnings, fmt.Sprintf("%s has unusual type %s", rel, info.Mode().Type()))
		}

		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if len(entries) == 0 {
		return nil, nil, fmt.Errorf("package hook staged no files under %s", pkgdir)
	}

	return entries, warnings, nil
}

// TotalSize sums the regular file sizes of a staged tree
func TotalSize(entries []FileEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	return total
}
