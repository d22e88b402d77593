package cli

import (
	"fmt"
	"os"

	"github.com/grovetools/arbor/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ Configuration not found. Create an arbor.yml in your repository root.\n")
		return err

	case errors.ErrCodeBranchAlreadyInUse:
		if arbErr, ok := err.(*errors.ArborError); ok {
			fmt.Fprintf(os.Stderr, "❌ Branch '%s' is already checked out at %s\n",
				arbErr.Details["branch"], arbErr.Details["worktreePath"])
			fmt.Fprintf(os.Stderr, "Pick a different session name or remove the other worktree first.\n")
		}
		return err

	case errors.ErrCodeSourceBranchNotFound:
		if arbErr, ok := err.(*errors.ArborError); ok {
			fmt.Fprintf(os.Stderr, "❌ Source branch '%s' not found locally or on the remote\n",
				arbErr.Details["branch"])
			fmt.Fprintf(os.Stderr, "Run 'git branch -a' to see available branches.\n")
		}
		return err

	case errors.ErrCodeBranchMissing:
		if arbErr, ok := err.(*errors.ArborError); ok {
			fmt.Fprintf(os.Stderr, "❌ Cannot repair session '%s': branch '%s' no longer exists\n",
				arbErr.Details["sessionName"], arbErr.Details["branch"])
			fmt.Fprintf(os.Stderr, "Recreate the branch or remove the worktree directory manually.\n")
		}
		return err

	case errors.ErrCodeRepairIncomplete:
		if arbErr, ok := err.(*errors.ArborError); ok {
			fmt.Fprintf(os.Stderr, "❌ Repair of session '%s' did not complete\n",
				arbErr.Details["sessionName"])
			fmt.Fprintf(os.Stderr, "Your files are preserved at: %s\n", arbErr.Details["backupPath"])
		}
		return err

	case errors.ErrCodeUnknownAgent:
		if arbErr, ok := err.(*errors.ArborError); ok {
			if agent, ok := arbErr.Details["agent"]; ok {
				fmt.Fprintf(os.Stderr, "❌ Unknown agent '%s'\n", agent)
			} else {
				fmt.Fprintf(os.Stderr, "❌ No agent session found in this worktree\n")
			}
			fmt.Fprintf(os.Stderr, "Pass --agent to choose one explicitly.\n")
		}
		return err

	case errors.ErrCodeSessionCreationCancelled:
		fmt.Fprintf(os.Stderr, "Session creation cancelled.\n")
		return err

	default:
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		if h.Verbose {
			if arbErr, ok := err.(*errors.ArborError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", arbErr.ToJSON())
			}
		}
		return err
	}
}
