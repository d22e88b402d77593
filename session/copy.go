package session

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/moby/patternmatcher"

	"github.com/grovetools/arbor/errors"
)

// copyFile copies a regular file, preserving the given permission bits.
// The copy goes through a temp file and rename so readers never see a
// partial file.
func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to open source file").
			WithDetail("path", src)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create temporary file").
			WithDetail("path", dst)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to copy file").
			WithDetail("path", dst)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to close file").
			WithDetail("path", dst)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to set file mode").
			WithDetail("path", dst)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to place file").
			WithDetail("path", dst)
	}

	return nil
}

// copyUserFiles copies everything under src into dst, always preferring the
// source's (user's) version of a file. Symbolic links are recreated, not
// dereferenced, and permission bits are preserved. Entries matching the
// exclude patterns (plus version-control files, always) are skipped.
// Individual failures are reported through warn and do not stop the walk.
func copyUserFiles(src, dst string, excludePatterns []string, warn WarningFunc) {
	patterns := append([]string{".git"}, excludePatterns...)
	matcher, err := patternmatcher.New(patterns)
	if err != nil {
		warn(fmt.Sprintf("invalid exclude patterns %v: %v", excludePatterns, err))
		matcher, _ = patternmatcher.New([]string{".git"})
	}

	walkErr := filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			warn(fmt.Sprintf("cannot read %s: %v", path, err))
			return nil
		}
		if path == src {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			warn(fmt.Sprintf("cannot resolve %s: %v", path, err))
			return nil
		}

		matched, err := matcher.MatchesOrParentMatches(rel)
		if err == nil && matched {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)

		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				warn(fmt.Sprintf("cannot read link %s: %v", rel, err))
				return nil
			}
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				warn(fmt.Sprintf("cannot replace %s: %v", rel, err))
				return nil
			}
			if err := os.Symlink(link, target); err != nil {
				warn(fmt.Sprintf("cannot recreate link %s: %v", rel, err))
			}

		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				warn(fmt.Sprintf("cannot stat %s: %v", rel, err))
				return nil
			}
			if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
				warn(fmt.Sprintf("cannot create directory %s: %v", rel, err))
				return filepath.SkipDir
			}

		default:
			info, err := entry.Info()
			if err != nil {
				warn(fmt.Sprintf("cannot stat %s: %v", rel, err))
				return nil
			}
			if err := copyFile(path, target, info.Mode().Perm()); err != nil {
				warn(fmt.Sprintf("cannot copy %s: %v", rel, err))
			}
		}

		return nil
	})

	if walkErr != nil {
		warn(fmt.Sprintf("copy from %s did not complete: %v", src, walkErr))
	}
}
