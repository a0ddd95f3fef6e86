// source.go — immutable source text with an optional originating path.
package quill

import (
	"os"
	"strings"
)

// Source is the text of one module plus where it came from. The path is
// optional: in-memory sources (REPL input, tests) have none. When present it
// is used for diagnostics and for resolving relative imports.
type Source struct {
	content string
	path    string
}

// NewSource wraps an in-memory string.
func NewSource(content string) *Source {
	return &Source{content: content}
}

// NewSourceFromBytes wraps a byte buffer.
func NewSourceFromBytes(b []byte) *Source {
	return &Source{content: string(b)}
}

// LoadSource reads a file and associates its path.
func LoadSource(path string) (*Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Source{content: string(b), path: path}, nil
}

// WithPath returns a copy with the originating path set.
func (s *Source) WithPath(path string) *Source {
	return &Source{content: s.content, path: path}
}

// Content returns the full text.
func (s *Source) Content() string { return s.content }

// Path returns the originating file path, or "" for in-memory sources.
func (s *Source) Path() string { return s.path }

// Len returns the byte length of the text.
func (s *Source) Len() int { return len(s.content) }

// At returns the byte at index i. Callers must stay in bounds.
func (s *Source) At(i int) byte { return s.content[i] }

// Slice returns content[start:end].
func (s *Source) Slice(start, end int) string { return s.content[start:end] }

// Lines splits the content into lines without trailing newlines.
func (s *Source) Lines() []string {
	return strings.Split(strings.ReplaceAll(s.content, "\r\n", "\n"), "\n")
}
