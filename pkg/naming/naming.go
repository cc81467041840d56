// Package naming locates the context of a selected identifier in a document
// and replaces the selection with the generated name.
package naming

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrLineOutOfRange is returned for a line index outside the document.
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrSelectionNotFound is returned when the identifier is not on the line.
	ErrSelectionNotFound = errors.New("selection not found on line")
)

// splitLines splits doc on "\n", keeping any "\r" so documents round-trip.
func splitLines(doc string) []string {
	return strings.Split(doc, "\n")
}

// Paragraph returns the trimmed text of the 0-based line, which is the
// context sent alongside the identifier.
func Paragraph(doc string, line int) (string, error) {
	lines := splitLines(doc)
	if line < 0 || line >= len(lines) {
		return "", fmt.Errorf("%w: %d (document has %d lines)", ErrLineOutOfRange, line, len(lines))
	}
	return strings.TrimSpace(lines[line]), nil
}

// FindLine returns the first 0-based line containing identifier.
func FindLine(doc, identifier string) (int, error) {
	if identifier == "" {
		return 0, ErrSelectionNotFound
	}
	for i, l := range splitLines(doc) {
		if strings.Contains(l, identifier) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrSelectionNotFound, identifier)
}

// ReplaceOnLine replaces the first occurrence of old on the 0-based line with
// replacement and returns the updated document.
func ReplaceOnLine(doc string, line int, old, replacement string) (string, error) {
	lines := splitLines(doc)
	if line < 0 || line >= len(lines) {
		return "", fmt.Errorf("%w: %d (document has %d lines)", ErrLineOutOfRange, line, len(lines))
	}
	if old == "" || !strings.Contains(lines[line], old) {
		return "", fmt.Errorf("%w: %q on line %d", ErrSelectionNotFound, old, line)
	}

	lines[line] = strings.Replace(lines[line], old, replacement, 1)
	return strings.Join(lines, "\n"), nil
}

// ReplaceInFile applies ReplaceOnLine to the file at path, keeping its mode.
func ReplaceInFile(path string, line int, old, replacement string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	updated, err := ReplaceOnLine(string(data), line, old, replacement)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
