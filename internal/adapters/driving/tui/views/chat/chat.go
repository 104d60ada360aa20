// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Entry is one question and its outcome in the transcript.
type Entry struct {
	Question string
	Response *domain.ChatResponse
	Err      error
}

// View is the chat transcript with a prompt and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	prompt    *input.Prompt
	viewport  viewport.Model
	spinner   spinner.Model
	statusbar *status.Bar

	chatService driving.ChatService
	ctx         context.Context

	entries  []Entry
	pending  string
	thinking bool

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Muted

	v := &View{
		styles:      s,
		keymap:      km,
		prompt:      input.NewPrompt(s, "Ask", "How do I reset my password?"),
		viewport:    viewport.New(80, 16),
		spinner:     sp,
		statusbar:   status.NewBar(s, km),
		chatService: chatService,
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
	v.refresh()
	return v
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

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.StatsLoaded:
		if msg.Err == nil {
			v.statusbar.SetStats(msg.Stats)
		}
		return v, nil

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.refresh()
		return v, cmd

	case messages.ErrorOccurred:
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
	case keymap.Matches(k, v.keymap.Submit):
		if v.thinking {
			return v, nil
		}
		question := v.prompt.Submit()
		if question == "" {
			return v, nil
		}
		v.thinking = true
		v.pending = question
		v.statusbar.SetState(status.StateThinking)
		v.statusbar.SetMessage("")
		v.refresh()
		return v, tea.Batch(v.ask(question), v.spinner.Tick)

	case keymap.Matches(k, v.keymap.Clear):
		if v.thinking {
			return v, nil
		}
		v.entries = nil
		v.statusbar.Clear()
		v.refresh()
		return v, nil

	case keymap.Matches(k, v.keymap.Up), keymap.Matches(k, v.keymap.Down),
		keymap.Matches(k, v.keymap.PageUp), keymap.Matches(k, v.keymap.PageDown):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

// ask runs the question against the chat service off the update loop.
func (v *View) ask(question string) tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoChatService}
		}
		resp, err := v.chatService.Ask(v.ctx, question)
		return messages.AnswerReceived{Question: question, Response: resp, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.thinking = false
	v.pending = ""
	v.entries = append(v.entries, Entry{Question: msg.Question, Response: msg.Response, Err: msg.Err})

	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else {
		v.statusbar.Clear()
	}
	v.refresh()
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	if len(v.entries) == 0 && !v.thinking {
		return v.styles.Muted.Render("Ask a question about the documentation.")
	}

	wrap := lipgloss.NewStyle().Width(v.viewport.Width)
	blocks := make([]string, 0, len(v.entries)+1)
	for i := range v.entries {
		blocks = append(blocks, wrap.Render(v.renderEntry(&v.entries[i])))
	}
	if v.thinking {
		blocks = append(blocks, wrap.Render(
			v.styles.Question.Render("> "+v.pending)+"\n"+v.spinner.View()+v.styles.Muted.Render(" thinking"),
		))
	}
	return strings.Join(blocks, "\n\n")
}

func (v *View) renderEntry(e *Entry) string {
	var b strings.Builder
	b.WriteString(v.styles.Question.Render("> " + e.Question))
	b.WriteString("\n")

	switch {
	case e.Err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + e.Err.Error()))
	case e.Response == nil:
		b.WriteString(v.styles.Error.Render("Error: empty response"))
	case e.Response.IsFallback():
		b.WriteString(v.styles.Fallback.Render(e.Response.Response))
	default:
		b.WriteString(v.styles.Answer.Render(e.Response.Response))
	}

	if e.Response != nil && len(e.Response.Sources) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Source.Render("Sources: " + strings.Join(e.Response.Sources, ", ")))
	}
	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("docchat"),
		"",
		v.viewport.View(),
		"",
		v.prompt.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Title, spacers, bordered prompt and status bar.
	vh := height - 8
	if vh < 3 {
		vh = 3
	}
	v.viewport.Width = width
	v.viewport.Height = vh
	v.prompt.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refresh()
}

// Entries returns the transcript.
func (v *View) Entries() []Entry {
	return v.entries
}

// Thinking reports whether a question is awaiting an answer.
func (v *View) Thinking() bool {
	return v.thinking
}

// Prompt returns the prompt component.
func (v *View) Prompt() *input.Prompt {
	return v.prompt
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
