package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackReason_Text(t *testing.T) {
	assert.Equal(t,
		"I don't know. The information you're asking about is not available in the provided documentation.",
		FallbackNoContext.Text())
	assert.Equal(t, "I don't know. There was an error processing your request.", FallbackModelError.Text())
	assert.Equal(t, "I don't know. Unable to process the response.", FallbackUnreadable.Text())
	assert.Empty(t, FallbackNone.Text())
}

func TestChatResponse_IsFallback(t *testing.T) {
	assert.False(t, (&ChatResponse{Response: "Use the reset link."}).IsFallback())
	assert.True(t, (&ChatResponse{Response: FallbackNoContextText, Fallback: FallbackNoContext}).IsFallback())
}
