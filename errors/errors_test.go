package errors

import (
	"fmt"
	"testing"
)

func TestArborError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeBranchMissing, "branch missing")
	if err.Code != ErrCodeBranchMissing {
		t.Errorf("expected code %s, got %s", ErrCodeBranchMissing, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeGitOperationFailed, "git failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeGitOperationFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeBranchMissing) {
		t.Error("Is should return false for non-matching code")
	}

	// Test Is through a wrapping fmt error
	doubleWrapped := fmt.Errorf("outer: %w", wrapped)
	if !Is(doubleWrapped, ErrCodeGitOperationFailed) {
		t.Error("Is should unwrap nested errors")
	}

	// Test WithDetail
	detailed := err.WithDetail("branch", "feature-x").WithDetail("sessionName", "feature-x")
	if detailed.Details["branch"] != "feature-x" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := BranchAlreadyInUse("feature-x", "/repo/.arbor-worktrees/feature-x")
	if err.Code != ErrCodeBranchAlreadyInUse {
		t.Errorf("expected code %s, got %s", ErrCodeBranchAlreadyInUse, err.Code)
	}
	if err.Details["branch"] != "feature-x" {
		t.Error("BranchAlreadyInUse should include branch detail")
	}

	err = RepairIncomplete("feature-x", "/repo/.arbor-worktrees/feature-x.backup-20240101", nil)
	if err.Code != ErrCodeRepairIncomplete {
		t.Errorf("expected code %s, got %s", ErrCodeRepairIncomplete, err.Code)
	}
	if err.Details["backupPath"] == nil {
		t.Error("RepairIncomplete should include the backup path detail")
	}

	err = GitOperationFailed([]string{"worktree", "add", "x"}, 128, "fatal: not a git repository", nil)
	if err.Details["exitCode"] != 128 {
		t.Error("GitOperationFailed should include the exit code")
	}

	err = SettingsParse("/tmp/settings.toml", "toml", fmt.Errorf("bad toml"))
	if GetCode(err) != ErrCodeSettingsParse {
		t.Errorf("expected code %s, got %s", ErrCodeSettingsParse, GetCode(err))
	}
}
