package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/grovetools/arbor/errors"
)

// backupDirPattern matches the timestamped directories Repair renames broken
// worktrees to before recreating them.
var backupDirPattern = regexp.MustCompile(`\.backup-\d{8}-\d{6}$`)

// RepairResult accumulates the outcome of a batch repair.
type RepairResult struct {
	Repaired int
	Failures []RepairFailure
}

// RepairFailure records one worktree the batch could not fix.
type RepairFailure struct {
	SessionName string
	Err         error
}

// DetectBroken scans the worktrees folder for directories whose git link
// file points at metadata that no longer exists. The scan mutates nothing;
// running it twice without filesystem changes yields the same list.
func (m *Manager) DetectBroken(worktreesFolder string) ([]BrokenWorktree, error) {
	entries, err := os.ReadDir(worktreesFolder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan worktrees folder").
			WithDetail("path", worktreesFolder)
	}

	var broken []BrokenWorktree
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		// Defensive: directory names straight from ReadDir should never
		// contain these, but the name becomes a branch ref below.
		if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
			continue
		}

		// A backup left behind when cleanup failed still carries a stale
		// git link; it is preserved user data, not a session.
		if backupDirPattern.MatchString(name) {
			continue
		}

		path := filepath.Join(worktreesFolder, name)
		target, ok := worktreeLinkTarget(path)
		if !ok {
			continue
		}

		if _, err := os.Stat(target); os.IsNotExist(err) {
			broken = append(broken, BrokenWorktree{
				Path:           path,
				SessionName:    name,
				ExpectedBranch: name,
			})
		}
	}

	return broken, nil
}

// worktreeLinkTarget reads the worktree's .git link file and returns the
// metadata path it points to. Returns false for full .git directories and
// anything unparsable.
func worktreeLinkTarget(worktreePath string) (string, bool) {
	gitPath := filepath.Join(worktreePath, ".git")

	info, err := os.Lstat(gitPath)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	data, err := os.ReadFile(gitPath)
	if err != nil {
		return "", false
	}

	line := strings.TrimSpace(string(data))
	target, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return "", false
	}

	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(worktreePath, target)
	}
	return filepath.Clean(target), true
}

// Repair fixes one broken worktree by renaming it aside, recreating a fresh
// worktree for the expected branch, and copying the user's files back.
// User files survive every failure mode: either the original directory is
// restored, or the error names the backup location explicitly.
func (m *Manager) Repair(ctx context.Context, repoRoot string, bw BrokenWorktree, onWarning WarningFunc) error {
	warn := warnFunc(onWarning)

	// Precondition check happens before any filesystem mutation
	exists, err := m.gateway.BranchExists(ctx, repoRoot, bw.ExpectedBranch)
	if err != nil {
		return err
	}
	if !exists {
		return errors.BranchMissing(bw.SessionName, bw.ExpectedBranch)
	}

	backupPath := fmt.Sprintf("%s.backup-%s", bw.Path, time.Now().Format("20060102-150405"))
	if err := os.Rename(bw.Path, backupPath); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to move broken worktree aside").
			WithDetail("path", bw.Path).
			WithDetail("backupPath", backupPath)
	}

	if err := m.gateway.AddWorktree(ctx, repoRoot, bw.Path, bw.ExpectedBranch, false, ""); err != nil {
		// Recreate failed; try to put the original back
		if restoreErr := os.Rename(backupPath, bw.Path); restoreErr != nil {
			// The backup holds the user's files and its location is
			// in the error
			return errors.RepairIncomplete(bw.SessionName, backupPath, err)
		}
		return errors.Wrap(err, errors.ErrCodeGitOperationFailed, "failed to recreate worktree; original directory restored").
			WithDetail("sessionName", bw.SessionName).
			WithDetail("branch", bw.ExpectedBranch)
	}

	// The worktree is structurally fixed from here; file copy and cleanup
	// problems degrade to warnings
	copyUserFiles(backupPath, bw.Path, m.repairExcludes, warn)

	if err := os.RemoveAll(backupPath); err != nil {
		warn(fmt.Sprintf("repaired worktree but could not remove backup %s: %v", backupPath, err))
		return nil
	}

	m.log.WithFields(map[string]interface{}{
		"session":  bw.SessionName,
		"worktree": bw.Path,
	}).Info("Repaired worktree")

	return nil
}

// RepairAll applies Repair to every detected broken worktree independently.
// One worktree's failure never aborts the batch.
func (m *Manager) RepairAll(ctx context.Context, repoRoot, worktreesFolder string, onWarning WarningFunc) (*RepairResult, error) {
	broken, err := m.DetectBroken(worktreesFolder)
	if err != nil {
		return nil, err
	}

	result := &RepairResult{}
	for _, bw := range broken {
		if err := m.Repair(ctx, repoRoot, bw, onWarning); err != nil {
			result.Failures = append(result.Failures, RepairFailure{
				SessionName: bw.SessionName,
				Err:         err,
			})
			continue
		}
		result.Repaired++
	}

	return result, nil
}
