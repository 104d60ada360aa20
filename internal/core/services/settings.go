package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDocsDir             = "docs_dir"
	keyMaxChunkSize        = "retrieval.max_chunk_size"
	keyChunkOverlap        = "retrieval.chunk_overlap"
	keyMaxRelevantChunks   = "retrieval.max_relevant_chunks"
	keySimilarityThreshold = "retrieval.similarity_threshold"
	keyLLMProvider         = "llm.provider"
	keyLLMModel            = "llm.model"
	keyLLMBaseURL          = "llm.base_url"
	keyLLMMaxTokens        = "llm.max_tokens"
	keyLLMTimeout          = "llm.timeout_seconds"
	keyLLMRate             = "llm.requests_per_second"
	keyServerPort          = "server.port"
	keyServerStaticDir     = "server.static_dir"
	keyServerChatRate      = "server.chat_rate_limit"
	keyServerChatBurst     = "server.chat_burst"
	keyChatLogBackend      = "chat_log.backend"
	keyChatLogDataDir      = "chat_log.data_dir"
)

// Environment variables that override the config file.
const (
	EnvLLMProvider = "LLM_PROVIDER"
	EnvPort        = "PORT"
	EnvDocsDir     = "DOCS_DIR"
)

// SettingsService manages application settings.
// Values come from the config store, then environment overrides are applied.
// API keys only ever come from the environment.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading overrides from the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup. Used by tests and embedders.
func (s *SettingsService) WithEnv(lookup func(string) (string, bool)) *SettingsService {
	s.lookupEnv = lookup
	return s
}

// Get retrieves current application settings, with environment overrides applied.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		DocsDir: s.getString(keyDocsDir, defaults.DocsDir),
		Retrieval: domain.RetrievalSettings{
			MaxChunkSize:        s.getInt(keyMaxChunkSize, defaults.Retrieval.MaxChunkSize),
			ChunkOverlap:        s.getInt(keyChunkOverlap, defaults.Retrieval.ChunkOverlap),
			MaxRelevantChunks:   s.getInt(keyMaxRelevantChunks, defaults.Retrieval.MaxRelevantChunks),
			SimilarityThreshold: s.getFloat(keySimilarityThreshold, defaults.Retrieval.SimilarityThreshold),
		},
		LLM: domain.LLMSettings{
			Provider:          s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			BaseURL:           s.configStore.GetString(keyLLMBaseURL),
			MaxTokens:         s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
			Timeout:           s.getSeconds(keyLLMTimeout, defaults.LLM.Timeout),
			RequestsPerSecond: s.getFloat(keyLLMRate, defaults.LLM.RequestsPerSecond),
		},
		Server: domain.ServerSettings{
			Port:          s.getInt(keyServerPort, defaults.Server.Port),
			StaticDir:     s.getString(keyServerStaticDir, defaults.Server.StaticDir),
			ChatRateLimit: s.getFloat(keyServerChatRate, defaults.Server.ChatRateLimit),
			ChatBurst:     s.getInt(keyServerChatBurst, defaults.Server.ChatBurst),
		},
		ChatLog: domain.ChatLogSettings{
			Backend: s.getBackend(defaults.ChatLog.Backend),
			DataDir: s.configStore.GetString(keyChatLogDataDir),
		},
	}

	if err := s.applyEnv(settings); err != nil {
		return nil, err
	}

	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[settings.LLM.Provider])
	settings.LLM.APIKey = s.env(settings.LLM.Provider.APIKeyEnv())

	return settings, nil
}

// applyEnv overlays environment variables onto file settings.
func (s *SettingsService) applyEnv(settings *domain.Settings) error {
	if v := s.env(EnvLLMProvider); v != "" {
		provider := domain.AIProvider(strings.ToLower(v))
		if !provider.IsValid() {
			return fmt.Errorf("%w: %s=%q is not a known provider", domain.ErrInvalidInput, EnvLLMProvider, v)
		}
		settings.LLM.Provider = provider
	}
	if v := s.env(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", domain.ErrInvalidInput, EnvPort, v)
		}
		settings.Server.Port = port
	}
	if v := s.env(EnvDocsDir); v != "" {
		settings.DocsDir = v
	}
	return nil
}

// Save persists application settings. API keys are never written.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyDocsDir, settings.DocsDir},
		{keyMaxChunkSize, settings.Retrieval.MaxChunkSize},
		{keyChunkOverlap, settings.Retrieval.ChunkOverlap},
		{keyMaxRelevantChunks, settings.Retrieval.MaxRelevantChunks},
		{keySimilarityThreshold, settings.Retrieval.SimilarityThreshold},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyLLMTimeout, int(settings.LLM.Timeout / time.Second)},
		{keyLLMRate, settings.LLM.RequestsPerSecond},
		{keyServerPort, settings.Server.Port},
		{keyServerStaticDir, settings.Server.StaticDir},
		{keyServerChatRate, settings.Server.ChatRateLimit},
		{keyServerChatBurst, settings.Server.ChatBurst},
		{keyChatLogBackend, string(settings.ChatLog.Backend)},
		{keyChatLogDataDir, settings.ChatLog.DataDir},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetLLMProvider configures the LLM provider and model.
// An empty model selects the provider's default.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown LLM provider %q", domain.ErrInvalidInput, provider)
	}

	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	if err := s.configStore.Set(keyLLMProvider, provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}

	// Local providers need an endpoint; cloud providers use their default.
	baseURL := ""
	if provider == domain.AIProviderOllama {
		baseURL = s.getString(keyLLMBaseURL, "http://localhost:11434")
	}
	if err := s.configStore.Set(keyLLMBaseURL, baseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	return nil
}

// SetRetrieval updates the chunking and ranking settings.
func (s *SettingsService) SetRetrieval(retrieval domain.RetrievalSettings) error {
	if err := retrieval.Validate(); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Retrieval = retrieval
	return s.Save(settings)
}

// Validate checks current settings, including that required credentials are present.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := settings.Retrieval.Validate(); err != nil {
		return err
	}
	if settings.Server.Port <= 0 || settings.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", domain.ErrInvalidInput, settings.Server.Port)
	}
	if !settings.ChatLog.Backend.IsValid() {
		return fmt.Errorf("%w: unknown chat_log.backend %q", domain.ErrInvalidInput, settings.ChatLog.Backend)
	}
	if settings.LLM.Provider.RequiresAPIKey() && settings.LLM.APIKey == "" {
		return fmt.Errorf("%w: %s is not set", domain.ErrMissingCredential, settings.LLM.Provider.APIKeyEnv())
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// ConfigPath returns the configuration file path.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) env(key string) string {
	if key == "" || s.lookupEnv == nil {
		return ""
	}
	v, _ := s.lookupEnv(key)
	return strings.TrimSpace(v)
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getFloat treats an explicit zero as a real value; only a missing key uses the default.
func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	secs := s.configStore.GetInt(key)
	if secs <= 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.ChatLogBackend) domain.ChatLogBackend {
	val := s.configStore.GetString(keyChatLogBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.ChatLogBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
