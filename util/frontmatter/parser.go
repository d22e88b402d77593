// Package frontmatter provides lightweight YAML frontmatter parsing for
// markdown workflow templates. This avoids pulling a full markdown stack in
// for simple metadata extraction.
package frontmatter

import (
	"bufio"
	"io"
	"strings"
)

// TemplateMetadata represents common fields found in workflow template
// frontmatter.
type TemplateMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Agent       string `json:"agent"`
}

// Parse extracts metadata from YAML frontmatter in a markdown reader.
// It stops reading after the closing '---' separator.
func Parse(r io.Reader) (TemplateMetadata, error) {
	scanner := bufio.NewScanner(r)
	var meta TemplateMetadata

	inFrontmatter := false
	lineCount := 0

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "---" {
			if !inFrontmatter {
				inFrontmatter = true
				continue
			}
			break // End of frontmatter
		}

		if !inFrontmatter {
			// Stop if we haven't found frontmatter in the first few lines
			lineCount++
			if lineCount > 5 {
				break
			}
			continue
		}

		// Simple key: value parsing
		parts := strings.SplitN(trimmed, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		switch key {
		case "name":
			meta.Name = value
		case "description":
			meta.Description = value
		case "agent":
			meta.Agent = value
		}
	}

	return meta, scanner.Err()
}

// ParseString extracts metadata from a string containing markdown with frontmatter.
func ParseString(content string) (TemplateMetadata, error) {
	return Parse(strings.NewReader(content))
}
