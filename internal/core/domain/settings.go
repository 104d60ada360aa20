package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a generative model provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// APIKeyEnv returns the environment variable holding the provider's API key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// RetrievalSettings tunes chunking and ranking.
type RetrievalSettings struct {
	// MaxChunkSize is the maximum chunk length in characters.
	MaxChunkSize int

	// ChunkOverlap is the overlap budget. floor(ChunkOverlap/10) trailing
	// words of a sealed chunk seed the next one.
	ChunkOverlap int

	// MaxRelevantChunks caps the number of chunks returned by a query.
	MaxRelevantChunks int

	// SimilarityThreshold is the score a chunk must strictly exceed.
	SimilarityThreshold float64
}

// Validate checks the settings are usable.
func (r RetrievalSettings) Validate() error {
	switch {
	case r.MaxChunkSize <= 0:
		return invalidSetting("retrieval.max_chunk_size must be positive")
	case r.ChunkOverlap < 0:
		return invalidSetting("retrieval.chunk_overlap must not be negative")
	case r.MaxRelevantChunks <= 0:
		return invalidSetting("retrieval.max_relevant_chunks must be positive")
	case r.SimilarityThreshold < 0 || r.SimilarityThreshold >= 1:
		return invalidSetting("retrieval.similarity_threshold must be in [0, 1)")
	}
	return nil
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// MaxTokens caps the length of generated answers.
	MaxTokens int

	// Timeout bounds a single model call.
	Timeout time.Duration

	// RequestsPerSecond throttles outbound model calls. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ServerSettings configures the HTTP transport.
type ServerSettings struct {
	// Port is the listen port.
	Port int

	// StaticDir is served at / when it exists.
	StaticDir string

	// ChatRateLimit is the sustained chat requests per second. Zero disables limiting.
	ChatRateLimit float64

	// ChatBurst is the chat limiter burst size.
	ChatBurst int
}

// ChatLogBackend selects where exchanges are recorded.
type ChatLogBackend string

// Available chat log backends.
const (
	ChatLogMemory ChatLogBackend = "memory"
	ChatLogSQLite ChatLogBackend = "sqlite"
	ChatLogOff    ChatLogBackend = "off"
)

// IsValid returns true if the backend is recognised.
func (b ChatLogBackend) IsValid() bool {
	switch b {
	case ChatLogMemory, ChatLogSQLite, ChatLogOff:
		return true
	default:
		return false
	}
}

// ChatLogSettings configures the chat log.
type ChatLogSettings struct {
	// Backend is the storage backend.
	Backend ChatLogBackend

	// DataDir holds the SQLite database when Backend is sqlite.
	DataDir string
}

// Settings holds all application settings.
type Settings struct {
	// DocsDir is the directory ingested at startup.
	DocsDir string

	// Retrieval holds chunking and ranking settings.
	Retrieval RetrievalSettings

	// LLM holds generative model settings.
	LLM LLMSettings

	// Server holds HTTP settings.
	Server ServerSettings

	// ChatLog holds chat log settings.
	ChatLog ChatLogSettings
}

// Default values.
const (
	DefaultMaxChunkSize        = 1000
	DefaultChunkOverlap        = 200
	DefaultMaxRelevantChunks   = 5
	DefaultSimilarityThreshold = 0.1
	DefaultLLMModel            = "claude-3-7-sonnet-20250219"
	DefaultMaxTokens           = 1000
	DefaultLLMTimeout          = 60 * time.Second
	DefaultPort                = 3000
	DefaultDocsDir             = "docs"
	DefaultStaticDir           = "public"
)

// DefaultSettings returns settings with sensible defaults.
// The API key is left empty; it is read from the environment.
func DefaultSettings() Settings {
	return Settings{
		DocsDir: DefaultDocsDir,
		Retrieval: RetrievalSettings{
			MaxChunkSize:        DefaultMaxChunkSize,
			ChunkOverlap:        DefaultChunkOverlap,
			MaxRelevantChunks:   DefaultMaxRelevantChunks,
			SimilarityThreshold: DefaultSimilarityThreshold,
		},
		LLM: LLMSettings{
			Provider:          AIProviderAnthropic,
			Model:             DefaultLLMModel,
			MaxTokens:         DefaultMaxTokens,
			Timeout:           DefaultLLMTimeout,
			RequestsPerSecond: 5,
		},
		Server: ServerSettings{
			Port:          DefaultPort,
			StaticDir:     DefaultStaticDir,
			ChatRateLimit: 10,
			ChatBurst:     20,
		},
		ChatLog: ChatLogSettings{
			Backend: ChatLogMemory,
		},
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: DefaultLLMModel,
	}
}

type settingError string

func (e settingError) Error() string { return string(e) }

func (e settingError) Unwrap() error { return ErrInvalidInput }

func invalidSetting(msg string) error { return settingError(msg) }
