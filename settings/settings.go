// Package settings reads and writes agent settings files as JSON, JSONC or
// TOML, selected by file-extension convention.
package settings

import (
	"os"
	"path/filepath"

	"github.com/grovetools/arbor/errors"
)

// Read parses the settings file at path into a generic object. The format is
// chosen from the file extension. Malformed content produces a
// SETTINGS_PARSE error naming the path and format.
func Read(path string) (map[string]interface{}, error) {
	format := FormatForPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSettingsParse, "failed to read settings file").
			WithDetail("path", path).
			WithDetail("format", string(format))
	}

	obj := make(map[string]interface{})
	if err := codecFor(format).Unmarshal(data, &obj); err != nil {
		return nil, errors.SettingsParse(path, string(format), err)
	}

	return obj, nil
}

// ReadOrEmpty is Read, except a missing file yields an empty object.
func ReadOrEmpty(path string) (map[string]interface{}, error) {
	obj, err := Read(path)
	if err != nil {
		if arborErr, ok := err.(*errors.ArborError); ok {
			if cause := arborErr.Unwrap(); cause != nil && os.IsNotExist(cause) {
				return make(map[string]interface{}), nil
			}
		}
		return nil, err
	}
	return obj, nil
}

// Write serializes obj to path in the format chosen from the extension.
// The write goes to a temporary file in the same directory followed by a
// rename, so a concurrent reader never observes a half-written file.
func Write(path string, obj map[string]interface{}) error {
	format := FormatForPath(path)

	data, err := codecFor(format).Marshal(obj)
	if err != nil {
		return errors.SettingsParse(path, string(format), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create settings directory").
			WithDetail("path", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create temporary settings file").
			WithDetail("path", path)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write settings file").
			WithDetail("path", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to close settings file").
			WithDetail("path", path)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to set settings file mode").
			WithDetail("path", path)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to replace settings file").
			WithDetail("path", path)
	}

	return nil
}
