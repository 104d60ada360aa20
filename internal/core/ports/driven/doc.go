// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentLoader: Reads source files from the docs directory
//   - Normaliser: Transforms raw documents into text
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - PostProcessorPipeline: Chunks normalised documents
//   - RetrievalStore: Holds chunks and answers similarity queries
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Generative model. Without it every answer is a fallback.
//   - ChatLogStore: Records exchanges. Without it nothing is recorded.
//   - PromptStore: Customisable prompts. Without it built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
