// Package driven holds the interfaces the core services call to reach the
// outside world: files, the session database and the language model.
//
// Adapters under internal/adapters/driven and internal/extractors implement
// them. This package imports nothing but domain.
//
// Extractor, SessionStore, ConfigStore and PromptStore are always wired.
// LLMService and AIConfigValidator may be nil: without a model every
// question gets the fallback reply, and without a validator the settings
// check reports success.
package driven
