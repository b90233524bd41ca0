package audit

import (
	"fmt"

	"github.com/orizon-lang/manifest-lsp/internal/diagnostic"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
)

// Diagnostics maps parsed Issues onto the declared dependencies that
// pulled them in, per §4.6/§4.8: an issue against a transitive package is
// attached to the direct dependency node recorded in its DependencyPaths,
// not to the (possibly absent) transitive package's own node.
func Diagnostics(byPackage map[string][]*Issue, deps *manifest.DependencyTree) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, issues := range byPackage {
		for _, issue := range issues {
			out = append(out, diagnosticsForIssue(issue, deps)...)
		}
	}
	return out
}

func diagnosticsForIssue(issue *Issue, deps *manifest.DependencyTree) []diagnostic.Diagnostic {
	sev := diagnostic.SeverityWarning
	if issue.IsVulnerability() {
		sev = diagnostic.SeverityError
	}

	if len(issue.DependencyPaths) == 0 {
		// No attributable direct dependency: still a declared package may
		// match the vulnerable crate itself.
		candidates := deps.ByPackageName(issue.PackageName)
		if len(candidates) == 0 {
			return nil
		}
		return []diagnostic.Diagnostic{diagnosticFor(candidates[0], issue, sev)}
	}

	var out []diagnostic.Diagnostic
	for directName := range issue.DependencyPaths {
		candidates := deps.ByPackageName(directName)
		if len(candidates) == 0 {
			continue
		}
		out = append(out, diagnosticFor(candidates[0], issue, sev))
	}
	return out
}

func diagnosticFor(d *manifest.Dependency, issue *Issue, sev diagnostic.Severity) diagnostic.Diagnostic {
	msg := issue.Title
	if issue.Kind == KindWarning {
		msg = fmt.Sprintf("%s (%s): %s", issue.PackageName, issue.WarningType, issue.Title)
	} else {
		msg = fmt.Sprintf("%s: %s (%s)", issue.PackageName, issue.Title, issue.ID)
	}
	return diagnostic.Diagnostic{
		ID:       d.ID + "." + issue.ID,
		NodeID:   d.NameKeyNode,
		Severity: sev,
		Message:  msg,
		Source:   "audit",
	}
}
