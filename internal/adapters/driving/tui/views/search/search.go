// Package search provides the chunk search view for the TUI.
// It shows raw retrieval matches with their similarity scores.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	prompt    *input.Prompt
	list      *list.ResultList
	statusbar *status.Bar

	retrievalService driving.RetrievalService
	ctx              context.Context

	query  string
	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	retrievalService driving.RetrievalService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:           s,
		keymap:           km,
		prompt:           input.NewPrompt(s, "Search", "Enter text to match against chunks..."),
		list:             list.NewResultList(s),
		statusbar:        status.NewBar(s, km),
		retrievalService: retrievalService,
		ctx:              context.Background(),
		width:            80,
		height:           24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.prompt.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}

	case keymap.Matches(k, v.keymap.Submit):
		query := v.prompt.Submit()
		if query == "" {
			return v, nil
		}
		v.query = query
		v.statusbar.SetState(status.StateSearching)
		return v, v.performSearch(query)

	case keymap.Matches(k, v.keymap.Up):
		v.list.MoveUp()
		return v, nil

	case keymap.Matches(k, v.keymap.Down):
		v.list.MoveDown()
		return v, nil

	case keymap.Matches(k, v.keymap.Clear):
		v.Reset()
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

// performSearch runs the query with the configured limit and threshold.
func (v *View) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if v.retrievalService == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}

		result, err := v.retrievalService.Search(v.ctx, query, domain.SearchOptions{})
		return messages.SearchCompleted{Query: query, Result: result, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.list.SetMatches(nil)
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	matches := list.MatchesFrom(msg.Result)
	v.list.SetMatches(matches)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(matches))
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("docchat search"), "", v.prompt.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	} else if v.query != "" {
		sections = append(sections, v.styles.Muted.Render("Query: "+v.query), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.prompt.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, prompt, query line, status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the last submitted query.
func (v *View) Query() string {
	return v.query
}

// Matches returns the current matches.
func (v *View) Matches() []list.Match {
	return v.list.Matches()
}

// SelectedIndex returns the index of the selected match.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}

// Reset clears the query, results and error.
func (v *View) Reset() {
	v.query = ""
	v.prompt.SetValue("")
	v.prompt.Focus()
	v.list.SetMatches(nil)
	v.err = nil
	v.statusbar.Clear()
}
