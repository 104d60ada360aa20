package cli

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

var (
	_ driving.ChatService      = (*mockChatService)(nil)
	_ driving.RetrievalService = (*mockRetrievalService)(nil)
	_ driving.IngestService    = (*mockIngestService)(nil)
	_ driving.SettingsService  = (*mockSettingsService)(nil)
)

var errServiceFailed = errors.New("service failed")

type mockChatService struct {
	AskFunc     func(ctx context.Context, message string) (*domain.ChatResponse, error)
	HistoryFunc func(ctx context.Context, limit int) ([]domain.Exchange, error)
	questions   []string
}

func (m *mockChatService) Ask(ctx context.Context, message string) (*domain.ChatResponse, error) {
	m.questions = append(m.questions, message)
	if m.AskFunc != nil {
		return m.AskFunc(ctx, message)
	}
	return &domain.ChatResponse{
		Response:  "Go to Settings and click Reset Password.",
		Sources:   []string{"account.md"},
		Timestamp: time.Now(),
	}, nil
}

func (m *mockChatService) History(ctx context.Context, limit int) ([]domain.Exchange, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, limit)
	}
	return []domain.Exchange{}, nil
}

type mockRetrievalService struct {
	SearchFunc func(ctx context.Context, query string, opts domain.SearchOptions) (*domain.QueryResult, error)
	StatsFunc  func(ctx context.Context) (*domain.Stats, error)
	lastOpts   domain.SearchOptions
}

func (m *mockRetrievalService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.QueryResult, error) {
	m.lastOpts = opts
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, opts)
	}
	return &domain.QueryResult{
		Chunks: []domain.Chunk{{
			ID:         "account.md#0",
			DocumentID: "account.md",
			Content:    "To reset your password, go to Settings and click Reset Password.",
			Metadata:   domain.ChunkMetadata{Filename: "account.md", Section: "chunk_0"},
		}},
		Scores:  []float64{0.4472},
		Sources: []string{"account.md"},
	}, nil
}

func (m *mockRetrievalService) Stats(ctx context.Context) (*domain.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &domain.Stats{
		DocumentsProcessed: 2,
		ChunksStored:       3,
		VocabularySize:     17,
		State:              domain.StoreReady,
		Exchanges:          4,
	}, nil
}

func (m *mockRetrievalService) Documents(_ context.Context) ([]domain.DocumentSummary, error) {
	return []domain.DocumentSummary{
		{ID: "account.md", Filename: "account.md", Chunks: 2},
		{ID: "billing.md", Filename: "billing.md", Chunks: 1},
	}, nil
}

func (m *mockRetrievalService) Ready() bool { return true }

type mockIngestService struct {
	IngestFunc func(ctx context.Context, dir string) (*domain.IngestReport, error)
	dirs       []string
	last       *domain.IngestReport
}

func (m *mockIngestService) Ingest(ctx context.Context, dir string) (*domain.IngestReport, error) {
	m.dirs = append(m.dirs, dir)
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, dir)
	}
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.last = &domain.IngestReport{
		RunID: "run-1",
		Dir:   dir,
		Results: []domain.IngestResult{
			{Filename: "account.md", DocumentID: "account.md", Chunks: 2, Status: domain.IngestOK},
			{Filename: "logo.png", Status: domain.IngestSkipped, Err: domain.ErrUnsupportedType},
		},
		StartedAt:  start,
		FinishedAt: start.Add(42 * time.Millisecond),
	}
	return m.last, nil
}

func (m *mockIngestService) LastReport() *domain.IngestReport { return m.last }

type mockSettingsService struct {
	settings       domain.Settings
	validateErr    error
	savedProvider  domain.AIProvider
	savedModel     string
	savedRetrieval *domain.RetrievalSettings
}

func newMockSettingsService() *mockSettingsService {
	s := domain.DefaultSettings()
	s.DocsDir = "testdata/docs"
	s.Server.Port = 0
	s.LLM.APIKey = "sk-ant-1234567890abcdef"
	return &mockSettingsService{settings: s}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.Settings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model string) error {
	m.savedProvider = provider
	m.savedModel = model
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	return nil
}

func (m *mockSettingsService) SetRetrieval(retrieval domain.RetrievalSettings) error {
	if err := retrieval.Validate(); err != nil {
		return err
	}
	m.savedRetrieval = &retrieval
	m.settings.Retrieval = retrieval
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }

func (m *mockSettingsService) ConfigPath() string { return "/tmp/docchat/config.toml" }

type testServices struct {
	chat      *mockChatService
	retrieval *mockRetrievalService
	ingest    *mockIngestService
	settings  *mockSettingsService
}

// setupTestServices installs fresh mocks and returns a cleanup that restores
// the previous services and every flag default.
func setupTestServices() func() {
	cleanup, _ := setupTestServicesWithMocks()
	return cleanup
}

func setupTestServicesWithMocks() (func(), *testServices) {
	old := Services{
		Chat:        chatService,
		Retrieval:   retrievalService,
		Ingest:      ingestService,
		Settings:    settingsService,
		Metrics:     appMetrics,
		ValidateLLM: llmValidator,
	}

	ts := &testServices{
		chat:      &mockChatService{},
		retrieval: &mockRetrievalService{},
		ingest:    &mockIngestService{},
		settings:  newMockSettingsService(),
	}
	SetServices(Services{
		Chat:      ts.chat,
		Retrieval: ts.retrieval,
		Ingest:    ts.ingest,
		Settings:  ts.settings,
	})

	return func() {
		SetServices(old)
		resetFlags(rootCmd)
	}, ts
}

// resetFlags restores every flag on cmd and its children to its default and
// clears the subcommand contexts. Cobra keeps parsed flag values between
// Execute calls, and only hands the root context to a subcommand whose own
// context is nil.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		c.SetContext(nil) //nolint:staticcheck
		resetFlags(c)
	}
}

// execute runs rootCmd with args and returns combined output.
func execute(args ...string) (string, error) {
	return executeWithInput("", args...)
}

// executeWithInput runs rootCmd with args, feeding input on stdin.
func executeWithInput(input string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
