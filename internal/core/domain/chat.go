package domain

import "time"

// Canonical answers returned instead of model output.
const (
	// FallbackNoContextText is returned when no chunk clears the relevance threshold.
	FallbackNoContextText = "I don't know. The information you're asking about is not available in the provided documentation."

	// FallbackModelErrorText is returned when the generative model call fails.
	FallbackModelErrorText = "I don't know. There was an error processing your request."

	// FallbackUnreadableText is returned when the model reply carries no text.
	FallbackUnreadableText = "I don't know. Unable to process the response."
)

// FallbackReason explains why a canonical answer replaced model output.
type FallbackReason string

// Fallback reasons. FallbackNone means the model answered.
const (
	FallbackNone       FallbackReason = ""
	FallbackNoContext  FallbackReason = "no_context"
	FallbackModelError FallbackReason = "model_error"
	FallbackUnreadable FallbackReason = "unreadable_response"
)

// Text returns the canonical answer for the reason.
func (r FallbackReason) Text() string {
	switch r {
	case FallbackNoContext:
		return FallbackNoContextText
	case FallbackModelError:
		return FallbackModelErrorText
	case FallbackUnreadable:
		return FallbackUnreadableText
	default:
		return ""
	}
}

// ChatResponse is the answer to a single question.
type ChatResponse struct {
	// Response is the model answer or a canonical fallback.
	Response string

	// Sources are the filenames of the chunks used as context.
	Sources []string

	// Timestamp is when the answer was produced.
	Timestamp time.Time

	// Fallback is set when Response is a canonical answer.
	Fallback FallbackReason
}

// IsFallback reports whether the response is a canonical "I don't know" answer.
func (r *ChatResponse) IsFallback() bool {
	return r.Fallback != FallbackNone
}

// Exchange is one question and answer recorded in the chat log.
type Exchange struct {
	ID        string
	Question  string
	Response  string
	Sources   []string
	Fallback  FallbackReason
	CreatedAt time.Time
}

// AnswerPromptTemplate is the built-in answer prompt. The first %s receives
// the retrieved context, the second the user's question.
const AnswerPromptTemplate = `You are a helpful customer support assistant. Answer the user's question based ONLY on the provided context from the documentation. If the information is not available in the context, respond with "I don't know."

Context from documentation:
%s

User Question: %s

Instructions:
- Only use information from the provided context
- If the answer is not in the context, say "I don't know"
- Be helpful and provide specific details when available
- Do not provide sources

Answer:`
