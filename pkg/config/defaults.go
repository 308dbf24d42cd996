// Package config provides YAML-based project configuration for modcheck.
package config

// Default configuration values.
const (
	DefaultSourceType    = "auto"
	DefaultRuleSeverity  = "error"
	DefaultWorkers       = 0
	DefaultOutputFormat  = FormatText
	DefaultLoggingLevel  = "warn"
	DefaultLoggingFormat = "text"
)

// DefaultExtensions are the file extensions checked during discovery.
func DefaultExtensions() []string {
	return []string{".js", ".mjs", ".cjs", ".ts", ".mts", ".cts"}
}

// DefaultExclude are the directory names never entered during discovery.
func DefaultExclude() []string {
	return []string{"node_modules", ".git"}
}
