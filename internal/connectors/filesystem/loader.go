// Package filesystem loads source documents from a local directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// DefaultMaxFileSize is the largest file read into memory.
const DefaultMaxFileSize = 32 << 20

// ErrFileTooLarge indicates a file above the loader's size limit.
var ErrFileTooLarge = errors.New("file too large")

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader reads the regular files directly inside a directory.
// Subdirectories and hidden files are ignored.
type Loader struct {
	maxFileSize int64
}

// New creates a loader with DefaultMaxFileSize.
func New() *Loader {
	return &Loader{maxFileSize: DefaultMaxFileSize}
}

// WithMaxFileSize returns a copy of the loader with a different size limit.
func (l *Loader) WithMaxFileSize(n int64) *Loader {
	return &Loader{maxFileSize: n}
}

// Load reads every visible regular file in dir, sorted by name.
func (l *Loader) Load(ctx context.Context, dir string) ([]driven.LoadResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("docs directory %s does not exist: %w", dir, err)
		}
		return nil, fmt.Errorf("reading docs directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", dir, domain.ErrInvalidInput)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading docs directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	results := make([]driven.LoadResult, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		name := entry.Name()
		if isHidden(name) || !entry.Type().IsRegular() {
			continue
		}

		raw, err := l.readFile(filepath.Join(dir, name))
		results = append(results, driven.LoadResult{Filename: name, Raw: raw, Err: err})
	}
	return results, nil
}

func (l *Loader) readFile(path string) (*domain.RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if l.maxFileSize > 0 && info.Size() > l.maxFileSize {
		return nil, fmt.Errorf("%d bytes exceeds %d: %w", info.Size(), l.maxFileSize, ErrFileTooLarge)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	name := filepath.Base(path)
	return &domain.RawDocument{
		Filename: name,
		URI:      abs,
		MIMEType: detectMIMEType(name),
		Content:  content,
		Metadata: map[string]any{
			"filename":    name,
			"extension":   strings.ToLower(filepath.Ext(name)),
			"size":        info.Size(),
			"modified_at": info.ModTime().UTC(),
		},
	}, nil
}

// extensionTypes covers extensions the platform MIME table often lacks.
var extensionTypes = map[string]string{
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".mdown":    "text/markdown",
	".pdf":      "application/pdf",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// detectMIMEType maps a filename to a MIME type by extension.
// Files without an extension are opaque and end up skipped.
func detectMIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "application/octet-stream"
	}
	if mt, ok := extensionTypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = mt[:i]
		}
		return strings.TrimSpace(mt)
	}
	return "application/octet-stream"
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
