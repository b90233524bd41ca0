// Package config holds the process-wide, read-mostly settings the Event
// Controller and its subprocess adapters consult, per SPEC_FULL.md §9
// "Global state". Grounded on the teacher's plain-stdlib conventions
// (internal/packagemanager_orig/security_logging.go never reaches for a
// config/viper-style library, so this server doesn't either).
package config

import "sync"

// DecorationFormat selects which editor protocol the Decoration
// Dispatcher (internal/decoration) targets.
type DecorationFormat int

const (
	// DecorationInlayHints renders resolved versions as LSP inlay hints.
	DecorationInlayHints DecorationFormat = iota
	// DecorationCustomProtocol renders them via the editor's proprietary
	// decoration notification instead.
	DecorationCustomProtocol
)

// Config is the mutable global configuration, safe for concurrent
// many-reader/one-writer access.
type Config struct {
	mu sync.RWMutex

	decorationFormat DecorationFormat
	auditDisabled    bool
	cargoPath        string
}

// Default constructs a Config with the documented defaults: inlay-hint
// decorations, auditing enabled, and "orizon-pkg" resolved from PATH.
func Default() *Config {
	return &Config{
		decorationFormat: DecorationInlayHints,
		auditDisabled:    false,
		cargoPath:        "orizon-pkg",
	}
}

// DecorationFormat returns the current decoration format.
func (c *Config) DecorationFormat() DecorationFormat {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.decorationFormat
}

// SetDecorationFormat updates the decoration format, e.g. in response to a
// workspace/didChangeConfiguration notification.
func (c *Config) SetDecorationFormat(f DecorationFormat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decorationFormat = f
}

// AuditDisabled reports whether the audit task should stay dormant.
func (c *Config) AuditDisabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auditDisabled
}

// SetAuditDisabled toggles whether the audit task runs.
func (c *Config) SetAuditDisabled(disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auditDisabled = disabled
}

// CargoPath returns the configured orizon-pkg binary path or name.
func (c *Config) CargoPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cargoPath
}

// SetCargoPath updates the orizon-pkg binary path or name.
func (c *Config) SetCargoPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if path == "" {
		path = "orizon-pkg"
	}
	c.cargoPath = path
}
