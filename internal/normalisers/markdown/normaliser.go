package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise converts markdown to plain prose.
// The title comes from the first H1 heading, falling back to the filename.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")

	doc := domain.NewDocument(raw, extractTitle(source), stripMarkdown(source))
	doc.Metadata["format"] = "markdown"

	return &driven.NormaliseResult{Document: doc}, nil
}

// extractTitle returns the text of the first "# " heading, or "".
func extractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

var (
	reCodeBlock    = regexp.MustCompile("(?s)```.*?```")
	reInlineCode   = regexp.MustCompile("`([^`]+)`")
	reImage        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	reLink         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reHeading      = regexp.MustCompile(`(?m)^#{1,6}[ \t]+(.+?)[ \t]*#*[ \t]*$`)
	reStrong       = regexp.MustCompile(`(\*\*|__)([^*_\n]+)(\*\*|__)`)
	reEmphasis     = regexp.MustCompile(`(^|[^\w*])[*_]([^*_\n]+)[*_]`)
	reBlockquote   = regexp.MustCompile(`(?m)^>[ \t]?`)
	reRule         = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	reBullet       = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	reNumbered     = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`)
	reHTMLTag      = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	reManyNewlines = regexp.MustCompile(`\n{3,}`)
	reTerminated   = regexp.MustCompile(`[.!?:]$`)
)

// stripMarkdown removes markdown syntax and keeps the prose.
// Headings gain a trailing period so they form their own sentence.
func stripMarkdown(content string) string {
	content = reCodeBlock.ReplaceAllString(content, "")
	content = reImage.ReplaceAllString(content, "")
	content = reLink.ReplaceAllString(content, "$1")
	content = reInlineCode.ReplaceAllString(content, "$1")
	content = reHTMLTag.ReplaceAllString(content, "")
	content = reRule.ReplaceAllString(content, "")
	content = reHeading.ReplaceAllStringFunc(content, func(m string) string {
		heading := reHeading.FindStringSubmatch(m)[1]
		if reTerminated.MatchString(heading) {
			return heading
		}
		return heading + "."
	})
	content = reStrong.ReplaceAllString(content, "$2")
	content = reEmphasis.ReplaceAllString(content, "$1$2")
	content = reBlockquote.ReplaceAllString(content, "")
	content = reBullet.ReplaceAllString(content, "")
	content = reNumbered.ReplaceAllString(content, "")
	content = reManyNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
