// Package workflow discovers workflow templates available to a repository.
package workflow

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grovetools/arbor/util/frontmatter"
	"github.com/grovetools/arbor/util/pathutil"
)

// DefaultFolder is the repository-relative directory scanned for templates.
const DefaultFolder = ".arbor/workflows"

// Template is a discovered workflow template.
type Template struct {
	Name string
	Path string
}

// Discover scans the repository's workflow folder plus any extra folders for
// markdown templates. The display name comes from the template's YAML
// frontmatter, falling back to the file stem. Results are sorted by name;
// later folders do not shadow earlier ones, duplicates keep the first hit.
func Discover(repoRoot string, extraFolders []string) ([]Template, error) {
	folders := []string{filepath.Join(repoRoot, DefaultFolder)}
	for _, folder := range extraFolders {
		switch {
		case strings.HasPrefix(folder, "~") || strings.Contains(folder, "$"):
			expanded, err := pathutil.Expand(folder)
			if err != nil {
				continue
			}
			folder = expanded
		case !filepath.IsAbs(folder):
			folder = filepath.Join(repoRoot, folder)
		}
		folders = append(folders, folder)
	}

	seen := make(map[string]bool)
	var templates []Template

	for _, folder := range folders {
		entries, err := os.ReadDir(folder)
		if err != nil {
			// A missing folder simply contributes nothing
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}

			path := filepath.Join(folder, entry.Name())
			name := templateName(path)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			templates = append(templates, Template{Name: name, Path: path})
		}
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})

	return templates, nil
}

// FindByName discovers templates and returns the one matching name, or nil.
func FindByName(repoRoot string, extraFolders []string, name string) (*Template, error) {
	templates, err := Discover(repoRoot, extraFolders)
	if err != nil {
		return nil, err
	}

	for i := range templates {
		if templates[i].Name == name {
			return &templates[i], nil
		}
	}

	return nil, nil
}

func templateName(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()

	meta, err := frontmatter.Parse(file)
	if err == nil && meta.Name != "" {
		return meta.Name
	}

	return strings.TrimSuffix(filepath.Base(path), ".md")
}
