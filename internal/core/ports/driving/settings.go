package driving

import "github.com/custodia-labs/docchat/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with environment overrides applied.
	Get() (*domain.Settings, error)

	// Save persists application settings. API keys are never written.
	Save(settings *domain.Settings) error

	// SetLLMProvider configures the LLM provider and model.
	SetLLMProvider(provider domain.AIProvider, model string) error

	// SetRetrieval updates the chunking and ranking settings.
	SetRetrieval(retrieval domain.RetrievalSettings) error

	// Validate checks current settings, including that required credentials are present.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// ConfigPath returns the configuration file path.
	ConfigPath() string
}
