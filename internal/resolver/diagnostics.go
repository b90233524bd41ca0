package resolver

import (
	"fmt"

	"github.com/orizon-lang/manifest-lsp/internal/diagnostic"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
)

// Diagnostics turns a ClassifiedError into zero or more diagnostic.Diagnostic
// entries attached to the implicated dependency nodes, grounded on
// original_source/src/controller/cargo.rs's CargoError::diagnostic. When the
// classifier can't attribute the failure to a specific declared dependency
// (Other, CyclicDependency, or a PackageName that matches nothing in this
// document), the diagnostic is attached to the root document node instead.
func Diagnostics(cerr *ClassifiedError, deps *manifest.DependencyTree, rootNodeID string) []diagnostic.Diagnostic {
	switch cerr.Kind {
	case KindNoMatchingPackage:
		if d := findByPackageName(deps, cerr.PackageName); d != nil {
			return []diagnostic.Diagnostic{{
				ID:       d.ID,
				NodeID:   d.NameKeyNode,
				Severity: diagnostic.SeverityError,
				Message:  fmt.Sprintf("no matching package named `%s` found", cerr.PackageName),
				Source:   "orizon-pkg",
			}}
		}

	case KindVersionNotFound:
		if d := findByPackageName(deps, cerr.PackageName); d != nil {
			return []diagnostic.Diagnostic{{
				ID:       d.ID,
				NodeID:   versionNodeOrEntry(d),
				Severity: diagnostic.SeverityError,
				Message:  fmt.Sprintf("no version of `%s` matches the requirement `%s`", cerr.PackageName, cerr.RequirementText),
				Source:   "orizon-pkg",
			}}
		}

	case KindFailedToSelectVersion:
		if d := findByPackageName(deps, cerr.PackageName); d != nil {
			return []diagnostic.Diagnostic{{
				ID:       d.ID,
				NodeID:   d.NameKeyNode,
				Severity: diagnostic.SeverityError,
				Message:  fmt.Sprintf("failed to select a version for `%s`", cerr.PackageName),
				Source:   "orizon-pkg",
			}}
		}

	case KindCyclicDependency:
		return []diagnostic.Diagnostic{{
			ID:       "$root.cycle",
			NodeID:   rootNodeID,
			Severity: diagnostic.SeverityError,
			Message:  "cyclic package dependency detected",
			Source:   "orizon-pkg",
		}}
	}

	// Other, or an attributable kind whose package name isn't declared in
	// this document (e.g. the failure is in a transitive dependency):
	// surface it at the document root so it isn't silently dropped.
	return []diagnostic.Diagnostic{{
		ID:       "$root.resolve-error",
		NodeID:   rootNodeID,
		Severity: diagnostic.SeverityError,
		Message:  cerr.Raw,
		Source:   "orizon-pkg",
	}}
}

func findByPackageName(deps *manifest.DependencyTree, name string) *manifest.Dependency {
	if deps == nil || name == "" {
		return nil
	}
	if candidates := deps.ByPackageName(name); len(candidates) > 0 {
		return candidates[0]
	}
	if candidates := deps.ByName(name); len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}

func versionNodeOrEntry(d *manifest.Dependency) string {
	if fv, ok := d.Fields[manifest.FieldVersion]; ok {
		return fv.NodeID
	}
	return d.EntryNode
}
