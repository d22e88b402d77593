package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetools/arbor/agent"
	"github.com/grovetools/arbor/errors"
)

// PropagateLocalSettings carries the descriptor-declared local settings
// files from the base repository into a fresh worktree, either by copying or
// by symlinking back to the originals. Missing sources are skipped; the
// first hard failure is returned so the caller can surface it as a warning.
func PropagateLocalSettings(baseRepoPath, worktreePath, mode string, d agent.Descriptor) error {
	if mode == "" {
		mode = "copy"
	}
	if mode != "copy" && mode != "symlink" {
		return errors.InvalidInput("propagation mode", fmt.Sprintf("unknown mode %q", mode))
	}

	for _, lsf := range d.LocalSettingsFiles() {
		src := filepath.Join(baseRepoPath, lsf.Dir, lsf.File)
		dst := filepath.Join(worktreePath, lsf.Dir, lsf.File)

		info, err := os.Lstat(src)
		if err != nil {
			continue // nothing to propagate
		}
		if !info.Mode().IsRegular() {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to create settings directory").
				WithDetail("path", filepath.Dir(dst))
		}

		switch mode {
		case "symlink":
			// Replace any file the worktree checkout brought along
			if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to replace settings file").
					WithDetail("path", dst)
			}
			if err := os.Symlink(src, dst); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to link settings file").
					WithDetail("path", dst)
			}
		default:
			if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
				return err
			}
		}
	}

	return nil
}
