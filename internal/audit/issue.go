// Package audit implements the Auditor Adapter of SPEC_FULL.md §4.6: a
// line-oriented parser for "orizon-pkg audit" text output, grounded on
// original_source/crates/audit-parser/src/{parser.rs,issue.rs}.
package audit

// Kind distinguishes a security vulnerability from an advisory warning
// (unmaintained, unsound, yanked).
type Kind int

const (
	KindVulnerability Kind = iota
	KindWarning
)

// Issue is one reported problem against a crate/package.
type Issue struct {
	PackageName string
	Version     string
	Title       string
	ID          string // advisory id, e.g. "RUSTSEC-2025-0024"
	URL         string
	Solution    string
	Severity    string
	Kind        Kind
	WarningType string // set only when Kind == KindWarning, e.g. "unsound"

	// DependencyPaths maps a direct dependency name (something the
	// workspace directly depends on) to the full path of "name version"
	// entries from the vulnerable package up to the workspace member.
	DependencyPaths map[string][]string
}

// IsVulnerability reports whether this issue is a security advisory rather
// than a lint-style warning.
func (i *Issue) IsVulnerability() bool { return i.Kind == KindVulnerability }
