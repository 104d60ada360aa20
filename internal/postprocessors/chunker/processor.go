// Package chunker provides a sentence-aware text chunking processor.
package chunker

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultMaxChunkSize

// DefaultChunkOverlap is the default overlap budget.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// wordsPerOverlapUnit converts the overlap budget into carried words.
const wordsPerOverlapUnit = 10

const sentenceJoin = ". "

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// Processor splits document content into chunks along sentence boundaries.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap budget. floor(overlap/10) trailing words of
// each sealed chunk are repeated at the start of the next one.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// CarryWords returns how many trailing words seed each following chunk.
func (p *Processor) CarryWords() int {
	return p.overlap / wordsPerOverlapUnit
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
//
// Sentence units are accumulated into a buffer joined by ". ". When the next
// unit would push the buffer past the chunk size, the buffer is sealed and the
// next one starts with its trailing words followed by that unit.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	units := splitUnits(doc.Content)
	if len(units) == 0 {
		// Empty or punctuation-only content produces no chunks
		return nil, nil
	}

	carry := p.CarryWords()
	var chunks []domain.Chunk
	current := ""

	for _, unit := range units {
		candidate := unit
		if current != "" {
			candidate = current + sentenceJoin + unit
		}

		if utf8.RuneCountInString(candidate) > p.chunkSize && current != "" {
			chunks = append(chunks, newChunk(doc, len(chunks), current))

			words := trailingWords(current, carry)
			if len(words) > 0 {
				current = strings.Join(words, " ") + sentenceJoin + unit
			} else {
				current = unit
			}
			continue
		}

		current = candidate
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, newChunk(doc, len(chunks), current))
	}

	return chunks, nil
}

// splitUnits splits text on runs of sentence terminators and drops blank units.
func splitUnits(text string) []string {
	parts := sentenceBreak.Split(text, -1)
	units := make([]string, 0, len(parts))
	for _, part := range parts {
		if unit := strings.TrimSpace(part); unit != "" {
			units = append(units, unit)
		}
	}
	return units
}

// trailingWords returns the last n space-separated words of s.
func trailingWords(s string, n int) []string {
	if n <= 0 {
		return nil
	}
	words := strings.Split(s, " ")
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return words
}

func newChunk(doc *domain.Document, position int, content string) domain.Chunk {
	return domain.Chunk{
		ID:         domain.ChunkID(doc.ID, position),
		DocumentID: doc.ID,
		Content:    strings.TrimSpace(content),
		Position:   position,
		Metadata: domain.ChunkMetadata{
			Filename: doc.Filename,
			Section:  domain.SectionLabel(position),
		},
	}
}
