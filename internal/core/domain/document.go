package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Document represents a normalised source file.
// It is created once during ingestion and is not retained by the retrieval store.
type Document struct {
	// ID is derived from the filename, see DocumentID.
	ID string

	// Filename is the base name of the source file.
	Filename string

	// URI is the original location on disk.
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full text content after normalisation.
	// This is the complete document text before chunking.
	Content string

	// Chunks holds the ordered chunks produced from Content.
	Chunks []Chunk

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// ChunkMetadata describes where a chunk came from.
type ChunkMetadata struct {
	// Filename is the source file the chunk was cut from.
	Filename string

	// Section is the label "chunk_<position>".
	Section string
}

// Chunk represents a searchable unit within a document.
// A chunk is mutated exactly once per embedding pass to attach its vector.
type Chunk struct {
	// ID is "<documentId>_chunk_<position>".
	ID string

	// DocumentID links back to the parent Document.
	DocumentID string

	// Content is the trimmed text of this chunk.
	Content string

	// Position is the zero-based ordinal within the document.
	Position int

	// Vector is the term-frequency embedding. Nil until embedded.
	Vector *Vector

	// Metadata carries the source filename and section label.
	Metadata ChunkMetadata
}

// IsEmbedded reports whether the chunk carries a vector.
func (c Chunk) IsEmbedded() bool {
	return c.Vector != nil
}

// DocumentID derives a document identity from a filename.
// Every character outside [a-zA-Z0-9] becomes an underscore and the result is lowercased.
func DocumentID(filename string) string {
	var b strings.Builder
	b.Grow(len(filename))
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.ToLower(b.String())
}

// ChunkID returns the identity of the chunk at position within a document.
func ChunkID(documentID string, position int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, position)
}

// SectionLabel returns the section label for the chunk at position.
func SectionLabel(position int) string {
	return fmt.Sprintf("chunk_%d", position)
}

// NewDocument builds a Document from a raw file and its extracted text.
// Metadata is copied from raw and annotated with the MIME type.
func NewDocument(raw *RawDocument, title, content string) Document {
	meta := make(map[string]any, len(raw.Metadata)+1)
	for k, v := range raw.Metadata {
		meta[k] = v
	}
	meta["mime_type"] = raw.MIMEType

	if title == "" {
		title = TitleFromFilename(raw.Filename)
	}

	return Document{
		ID:        DocumentID(raw.Filename),
		Filename:  raw.Filename,
		URI:       raw.URI,
		Title:     title,
		Content:   content,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}
}

// TitleFromFilename turns "getting-started_guide.md" into "getting started guide".
func TitleFromFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}
