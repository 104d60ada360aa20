// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AnswerReceived carries the answer to a submitted question.
type AnswerReceived struct {
	Question string
	Response *domain.ChatResponse
	Err      error
}

// SearchCompleted carries chunk search results back to the model.
type SearchCompleted struct {
	Query  string
	Result *domain.QueryResult
	Err    error
}

// StatsLoaded carries corpus statistics.
type StatsLoaded struct {
	Stats *domain.Stats
	Err   error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the question and answer transcript.
	ViewChat ViewType = iota
	// ViewSearch shows raw chunk matches with similarity scores.
	ViewSearch
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Next returns the view that tab switches to.
func (v ViewType) Next() ViewType {
	if v == ViewChat {
		return ViewSearch
	}
	return ViewChat
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
