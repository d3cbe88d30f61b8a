// Package config provides configuration loading, merging, and path management
// for TaskHub.
//
// # Configuration Loading
//
// The Load function searches for and merges configuration from multiple
// sources in priority order:
//
//  1. Built-in defaults
//  2. Global config (~/.config/taskhub/ - XDG compatible)
//  3. Project config (taskhub.json/jsonc/yaml/yml in the working directory)
//  4. TASKHUB_CONFIG file
//  5. Environment variables
//
// More specific configurations override more general ones, and environment
// variables have the highest precedence. Non-zero fields win during merging;
// a file that only sets the port leaves every other setting intact.
//
// # Supported Formats
//
// Both JSON and JSONC (JSON with Comments, processed using tidwall/jsonc) are
// supported, alongside YAML:
//   - taskhub.json / taskhub.jsonc
//   - taskhub.yaml / taskhub.yml
//
// # Path Management
//
// The package provides XDG Base Directory Specification compliant path
// management through the Paths type:
//   - Data: ~/.local/share/taskhub (XDG_DATA_HOME)
//   - Config: ~/.config/taskhub (XDG_CONFIG_HOME)
//
// On Windows, these paths are adapted to use APPDATA as appropriate. The task
// database lives at Paths.DatabasePath unless overridden.
//
// # Environment Variable Overrides
//
// Several environment variables provide direct configuration overrides:
//   - TASKHUB_PORT, TASKHUB_LOG_LEVEL, TASKHUB_DB, TASKHUB_PROVIDER
//   - TASKHUB_SESSION_MAX, TASKHUB_SESSION_TTL
//   - TASKHUB_CONFIG - Path to a specific config file
//   - AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_DEPLOYMENT, AZURE_OPENAI_API_VERSION
//   - OPENAI_API_KEY, ANTHROPIC_API_KEY, ANTHROPIC_MODEL
//
// # Usage Example
//
//	// Load configuration from the current directory
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Get standard paths
//	paths := config.GetPaths()
//	err = paths.EnsurePaths() // Create directories if they don't exist
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
