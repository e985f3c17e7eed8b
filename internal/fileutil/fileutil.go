package fileutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const maxFilenameRunes = 50

// htmlTagPattern matches lowercase markup such as <b>, </i> or <br/>.
// Capitalised bracketed words like <Title> are left to the unsafe-character pass.
var htmlTagPattern = regexp.MustCompile(`</?[a-z][a-z0-9]*(?:\s[^<>]*)?/?>`)

var unsafeFilenameChars = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	`"`, "_",
	"/", "_",
	`\`, "_",
	"|", "_",
	"?", "_",
	"*", "_",
	"\n", "_",
	"\r", "_",
	"\t", "_",
)

// SanitizeFilename makes a title safe to use as part of a filename.
// Markup is removed, each unsafe character becomes an underscore, whitespace runs
// collapse to one space and the result is capped at 50 characters.
// An empty result becomes "unknown".
func SanitizeFilename(name string) string {
	name = htmlTagPattern.ReplaceAllString(name, "")
	name = unsafeFilenameChars.Replace(name)
	name = strings.Join(strings.Fields(name), " ")

	if runes := []rune(name); len(runes) > maxFilenameRunes {
		name = string(runes[:maxFilenameRunes])
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	return name
}

// CoverFilename returns the local filename for a book cover: "{isbn}_{title}.jpg".
// The extension is always .jpg whatever the remote image type is.
func CoverFilename(isbn, title string) string {
	return isbn + "_" + SanitizeFilename(title) + ".jpg"
}

// FileExists checks if a file exists at the given path
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false
	}
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// WriteFileWithOverwrite writes data to a file, respecting the overwrite flag
// Returns true if the file was written, false if it was skipped
func WriteFileWithOverwrite(filePath string, data []byte, perm os.FileMode, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		return false, nil
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, err
	}

	if err := os.WriteFile(filePath, data, perm); err != nil {
		return false, err
	}

	return true, nil
}

// MarshalJSON encodes data with two-space indentation, leaving non-ASCII text and
// HTML characters unescaped.
func MarshalJSON(data any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSONFile writes data as JSON to a file, respecting the overwrite flag
// Returns true if the file was written, false if it was skipped
func WriteJSONFile(data any, filePath string, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		slog.Info("JSON file already exists, skipping", "filename", filePath, "overwrite", overwrite)
		return false, nil
	}

	jsonData, err := MarshalJSON(data)
	if err != nil {
		return false, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	slog.Info("Writing JSON file", "filename", filePath, "overwrite", overwrite)
	written, err := WriteFileWithOverwrite(filePath, jsonData, 0644, true)
	if err != nil {
		return false, fmt.Errorf("failed to write JSON file: %w", err)
	}

	return written, nil
}

// ReadJSONFile decodes the JSON file at filePath into v
func ReadJSONFile(filePath string, v any) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse JSON file %s: %w", filePath, err)
	}
	return nil
}

// ReadTextFile reads a file and drops any invalid UTF-8 sequences instead of failing
func ReadTextFile(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
