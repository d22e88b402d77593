package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/grovetools/arbor/agent"
	"github.com/grovetools/arbor/errors"
)

// Metadata is the persisted per-session record inside a workspace. It is the
// single source of truth read back on every relaunch.
type Metadata struct {
	AgentName      string    `json:"agentName"`
	Timestamp      time.Time `json:"timestamp"`
	SessionID      string    `json:"sessionId,omitempty"`
	Workflow       string    `json:"workflow,omitempty"`
	PermissionMode string    `json:"permissionMode,omitempty"`

	// Terminal records the execution surface for backends without
	// lifecycle hooks; there is no other way to infer it later.
	Terminal string `json:"terminal,omitempty"`
}

// MetadataPath returns the session metadata file location inside a worktree
// for the given agent.
func MetadataPath(worktreePath string, d agent.Descriptor) string {
	return filepath.Join(worktreePath, d.DataDirectory(), d.SessionFileName())
}

// ReadMetadata loads a session's metadata. A missing file returns (nil, nil).
func ReadMetadata(worktreePath string, d agent.Descriptor) (*Metadata, error) {
	path := MetadataPath(worktreePath, d)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read session metadata").
			WithDetail("path", path)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSettingsParse, "failed to parse session metadata").
			WithDetail("path", path)
	}

	return &meta, nil
}

// WriteMetadata persists a session's metadata atomically (temp file plus
// rename) so a concurrent reader never sees a half-written record.
func WriteMetadata(worktreePath string, d agent.Descriptor, meta *Metadata) error {
	path := MetadataPath(worktreePath, d)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create session metadata directory").
			WithDetail("path", filepath.Dir(path))
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode session metadata")
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create temporary metadata file").
			WithDetail("path", path)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write session metadata").
			WithDetail("path", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to close session metadata").
			WithDetail("path", path)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to set metadata file mode").
			WithDetail("path", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to replace session metadata").
			WithDetail("path", path)
	}

	return nil
}

// ResolveAgent finds the descriptor owning a worktree by locating its
// persisted metadata. The agent is decided once at creation and recovered
// from the record, never guessed from file contents.
func ResolveAgent(worktreePath string) (agent.Descriptor, *Metadata, error) {
	for _, name := range agent.Names() {
		d, err := agent.Resolve(name)
		if err != nil {
			continue
		}

		meta, err := ReadMetadata(worktreePath, d)
		if err != nil {
			return nil, nil, err
		}
		if meta == nil {
			continue
		}

		// The record names the owning agent; trust it over the file
		// location in case data directories are shared.
		owner, err := agent.Resolve(meta.AgentName)
		if err != nil {
			return nil, nil, err
		}
		return owner, meta, nil
	}

	return nil, nil, errors.New(errors.ErrCodeUnknownAgent,
		"no session metadata found in worktree").
		WithDetail("worktreePath", worktreePath)
}

// GetSessionAgent returns the name of the agent owning a worktree, or empty.
func GetSessionAgent(worktreePath string) string {
	d, _, err := ResolveAgent(worktreePath)
	if err != nil {
		return ""
	}
	return d.Name()
}

// GetSessionID returns the resumable session identifier recorded for a
// worktree, or empty.
func GetSessionID(worktreePath string, d agent.Descriptor) string {
	meta, err := ReadMetadata(worktreePath, d)
	if err != nil || meta == nil {
		return ""
	}
	return meta.SessionID
}

// GetSessionPermissionMode returns the persisted permission mode, or empty.
func GetSessionPermissionMode(worktreePath string, d agent.Descriptor) string {
	meta, err := ReadMetadata(worktreePath, d)
	if err != nil || meta == nil {
		return ""
	}
	return meta.PermissionMode
}

// GetSessionWorkflow returns the persisted workflow reference, or empty.
func GetSessionWorkflow(worktreePath string, d agent.Descriptor) string {
	meta, err := ReadMetadata(worktreePath, d)
	if err != nil || meta == nil {
		return ""
	}
	return meta.Workflow
}
