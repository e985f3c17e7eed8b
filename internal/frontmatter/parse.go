// Package frontmatter reads and writes markdown documents that start with a YAML block.
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Document is a markdown document split into its frontmatter and body.
type Document struct {
	// Frontmatter is the raw YAML between the delimiters
	Frontmatter []byte
	// Body is the content after the closing delimiter
	Body string
}

// Split separates the YAML frontmatter from the markdown body.
func Split(content []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(content)
	if !bytes.HasPrefix(trimmed, []byte(delimiter)) {
		return nil, fmt.Errorf("invalid markdown format: missing opening frontmatter delimiter")
	}

	parts := bytes.SplitN(trimmed, []byte("\n"+delimiter), 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid markdown format: missing closing frontmatter delimiter")
	}

	return &Document{
		Frontmatter: bytes.TrimPrefix(parts[0], []byte(delimiter)),
		Body:        strings.TrimSpace(string(parts[1])),
	}, nil
}

// Decode unmarshals the frontmatter of content into v and returns the body.
func Decode(content []byte, v any) (string, error) {
	doc, err := Split(content)
	if err != nil {
		return "", err
	}
	if err := yaml.Unmarshal(doc.Frontmatter, v); err != nil {
		return "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return doc.Body, nil
}

// Encode writes v as a frontmatter block followed by body.
func Encode(v any, body string) ([]byte, error) {
	fm, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	buf.Write(fm)
	buf.WriteString(delimiter + "\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}
