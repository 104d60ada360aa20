package domain

// RawDocument represents opaque bytes read from the docs directory.
// It is the loader's output before normalisation.
type RawDocument struct {
	// Filename is the base name of the file.
	Filename string

	// URI is the original location (file path).
	URI string

	// MIMEType is the content type derived from the extension (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains loader-specific key-value pairs.
	Metadata map[string]any
}
