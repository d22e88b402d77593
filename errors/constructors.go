package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *ArborError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *ArborError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// GitOperationFailed creates a git subprocess failure error carrying the
// command, exit code and captured stderr.
func GitOperationFailed(args []string, exitCode int, stderr string, cause error) *ArborError {
	return Wrap(cause, ErrCodeGitOperationFailed, fmt.Sprintf("git %v failed", args)).
		WithDetail("args", args).
		WithDetail("exitCode", exitCode).
		WithDetail("stderr", stderr)
}

// BranchAlreadyInUse creates an error for a branch checked out in another worktree
func BranchAlreadyInUse(branch, worktreePath string) *ArborError {
	return New(ErrCodeBranchAlreadyInUse,
		fmt.Sprintf("branch '%s' is already checked out at %s", branch, worktreePath)).
		WithDetail("branch", branch).
		WithDetail("worktreePath", worktreePath)
}

// SourceBranchNotFound creates an error for a missing source branch
func SourceBranchNotFound(branch string) *ArborError {
	return New(ErrCodeSourceBranchNotFound,
		fmt.Sprintf("source branch '%s' not found locally or on any remote", branch)).
		WithDetail("branch", branch)
}

// SessionCreationCancelled creates an error for a user-cancelled creation
func SessionCreationCancelled(sessionName string) *ArborError {
	return New(ErrCodeSessionCreationCancelled,
		fmt.Sprintf("creation of session '%s' was cancelled", sessionName)).
		WithDetail("sessionName", sessionName)
}

// BranchMissing creates a repair precondition error
func BranchMissing(sessionName, branch string) *ArborError {
	return New(ErrCodeBranchMissing,
		fmt.Sprintf("cannot repair session '%s': branch '%s' no longer exists", sessionName, branch)).
		WithDetail("sessionName", sessionName).
		WithDetail("branch", branch)
}

// RepairIncomplete creates an error for a repair that mutated the filesystem
// but could not be completed or rolled back. The backup path is part of the
// message so it is never lost even if only the text survives.
func RepairIncomplete(sessionName, backupPath string, cause error) *ArborError {
	return Wrap(cause, ErrCodeRepairIncomplete,
		fmt.Sprintf("repair of session '%s' failed after backup; user files are preserved at %s", sessionName, backupPath)).
		WithDetail("sessionName", sessionName).
		WithDetail("backupPath", backupPath)
}

// SettingsParse creates a settings parse error naming the path and format
func SettingsParse(path, format string, cause error) *ArborError {
	return Wrap(cause, ErrCodeSettingsParse,
		fmt.Sprintf("failed to parse %s settings file: %s", format, path)).
		WithDetail("path", path).
		WithDetail("format", format)
}

// InvalidSessionID creates an error for a resume id the backend cannot accept
func InvalidSessionID(agent, sessionID string) *ArborError {
	return New(ErrCodeInvalidSessionID,
		fmt.Sprintf("session id '%s' is not valid for agent '%s'", sessionID, agent)).
		WithDetail("agent", agent).
		WithDetail("sessionId", sessionID)
}

// UnknownAgent creates an error for an unregistered agent name
func UnknownAgent(name string) *ArborError {
	return New(ErrCodeUnknownAgent, fmt.Sprintf("unknown agent '%s'", name)).
		WithDetail("agent", name)
}

// InvalidInput creates a validation failure error
func InvalidInput(field, reason string) *ArborError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetail("field", field)
}
