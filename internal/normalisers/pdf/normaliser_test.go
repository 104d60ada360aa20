package pdf

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error

	name string
	args []string
	seen []byte
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	if len(args) >= 2 {
		m.seen, _ = os.ReadFile(args[len(args)-2])
	}
	return m.output, m.err
}

func rawPDF() *domain.RawDocument {
	return &domain.RawDocument{
		Filename: "manual.pdf",
		URI:      "/srv/docs/manual.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.4 fake pdf content"),
	}
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.Equal(t, []string{"application/pdf"}, normaliser.SupportedMIMETypes())
	assert.Equal(t, 50, normaliser.Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_WithMockRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("PDF Title\f\r\nThis is the content of the PDF.\n")}

	result, err := NewWithRunner(runner).Normalise(context.Background(), rawPDF())
	require.NoError(t, err)
	require.NotNil(t, result)

	doc := result.Document
	assert.Equal(t, "manual_pdf", doc.ID)
	assert.Equal(t, "/srv/docs/manual.pdf", doc.URI)
	assert.Equal(t, "PDF Title", doc.Title)
	assert.Equal(t, "PDF Title\n\nThis is the content of the PDF.", doc.Content)
	assert.Equal(t, "application/pdf", doc.Metadata["mime_type"])
	assert.Equal(t, "pdf", doc.Metadata["format"])

	assert.Equal(t, "pdftotext", runner.name)
	assert.Equal(t, "-", runner.args[len(runner.args)-1])
	assert.Equal(t, []byte("%PDF-1.4 fake pdf content"), runner.seen)
}

func TestNormalise_TempFileRemoved(t *testing.T) {
	runner := &mockRunner{output: []byte("text")}

	_, err := NewWithRunner(runner).Normalise(context.Background(), rawPDF())
	require.NoError(t, err)

	_, statErr := os.Stat(runner.args[len(runner.args)-2])
	assert.True(t, os.IsNotExist(statErr))
}

func TestNormalise_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("pdftotext crashed")}

	result, err := NewWithRunner(runner).Normalise(context.Background(), rawPDF())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext failed")
	assert.Nil(t, result)
}

func TestNormalise_ToolMissing(t *testing.T) {
	n := NewWithRunner(&mockRunner{})
	n.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	_, err := n.Normalise(context.Background(), rawPDF())
	assert.ErrorIs(t, err, ErrPDFToolNotFound)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"first line as title", "Document Title\n\nSome content here.", "Document Title"},
		{"skip empty lines", "\n\n\nActual Title\nContent", "Actual Title"},
		{"empty content", "", ""},
		{"skip very long first line", strings.Repeat("x", 250) + "\nShort Title\nContent", "Short Title"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractTitle(tc.content))
		})
	}
}

func TestNormalise_EmptyOutputFallsBackToFilename(t *testing.T) {
	result, err := NewWithRunner(&mockRunner{}).Normalise(context.Background(), rawPDF())
	require.NoError(t, err)
	assert.Equal(t, "manual", result.Document.Title)
	assert.Empty(t, result.Document.Content)
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

// Integration test - only runs if pdftotext is available.
func TestCheckAvailable(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		assert.ErrorIs(t, err, ErrPDFToolNotFound)
		t.Skip("pdftotext not available")
	}
}
