package resolver

import (
	"context"
	"fmt"

	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/resolvertask"
	"github.com/orizon-lang/manifest-lsp/internal/semver"
)

// SourceKind mirrors document.SourceKind; duplicated here (rather than
// imported) would be wrong, so we reuse it directly.
type SourceKind = document.SourceKind

// Member is one workspace member manifest, per §4.5 step 1.
type Member struct {
	Name         string
	ManifestPath string
}

// DeclaredDependency is one dependency edge the external resolver reports
// for a workspace member, keyed back to the originating manifest node by
// DependencyID (the dotted id produced by the Manifest Walker).
type DeclaredDependency struct {
	DependencyID   string
	PackageName    string
	Requirement    string // raw requirement literal, "" if path/git dependency
	Source         SourceKind
	RegistryName   string // set only for SourceAlternateRegistry
}

// Installed is the version the external resolver actually picked for a
// declared dependency, per §4.5 step 3.
type Installed struct {
	Version  string
	Source   SourceKind
	Features map[string][]string
}

// WorkspaceGraph is everything the external resolver reports about one
// workspace, per §4.5 steps 1-3.
type WorkspaceGraph struct {
	Members   []Member
	Declared  []DeclaredDependency
	Installed map[string]Installed // keyed by DependencyID
}

// Client is the black-box boundary to "the package resolver" process,
// adapted in production by internal/resolverclient from
// internal/packagemanager_orig/resolver.go's backtracking Resolver, and
// faked in tests.
type Client interface {
	// OpenWorkspace runs dependency resolution for the workspace rooted at
	// rootManifestPath and reports the resulting graph. A non-nil error's
	// Error() text is the raw resolver message to run through Classify.
	OpenWorkspace(ctx context.Context, rootManifestPath string) (*WorkspaceGraph, error)

	// AvailableVersions lists every version the registry (or alternate
	// registry named by registryName, "" for the default) publishes for
	// packageName, per §4.5 step 2's batched registry query.
	AvailableVersions(ctx context.Context, registryName, packageName string) ([]*semver.Version, error)
}

// Output is the Resolution Index produced by a successful Run: a resolved
// document.ResolvedDependency per dependency id, ready for
// document.Document.ApplyResolved, plus the workspace member list.
type Output struct {
	ByDependencyID map[string]*document.ResolvedDependency
	MemberNames    []string
}

// Run executes the resolve protocol of §4.5 steps 1-4 against client for
// the workspace rooted at rootManifestPath. On a resolver failure it
// returns the classified error so the caller can turn it into diagnostics
// via Diagnostics.
func Run(ctx context.Context, client Client, rootManifestPath string) (*Output, *ClassifiedError, error) {
	graph, err := client.OpenWorkspace(ctx, rootManifestPath)
	if err != nil {
		return nil, Classify(err.Error()), nil
	}

	out := &Output{ByDependencyID: make(map[string]*document.ResolvedDependency)}
	for _, m := range graph.Members {
		out.MemberNames = append(out.MemberNames, m.Name)
	}

	// Step 2: batch one registry query per distinct (registry, package name)
	// pair actually referenced, fanned out across a bounded worker pool
	// (internal/resolvertask) and descending-sorted per §4.5's "sort
	// versions descending" step so LatestCompatible can early-exit.
	var requests []resolvertask.Request
	seen := make(map[resolvertask.Request]bool)
	for _, dep := range graph.Declared {
		if dep.Source != document.SourceRegistry && dep.Source != document.SourceAlternateRegistry {
			continue
		}
		req := resolvertask.Request{RegistryName: dep.RegistryName, PackageName: dep.PackageName}
		if !seen[req] {
			seen[req] = true
			requests = append(requests, req)
		}
	}
	versionsByRequest, err := resolvertask.FetchAll(ctx, client, requests)
	if err != nil {
		return nil, nil, fmt.Errorf("querying registry versions: %w", err)
	}
	versionsFor := func(registryName, packageName string) ([]*semver.Version, error) {
		return versionsByRequest[resolvertask.Request{RegistryName: registryName, PackageName: packageName}], nil
	}

	for _, dep := range graph.Declared {
		installed, hasInstalled := graph.Installed[dep.DependencyID]

		resolved := &document.ResolvedDependency{
			HasInstalled: hasInstalled,
			SourceKind:   dep.Source,
		}
		if hasInstalled {
			resolved.InstalledVersion = installed.Version
			resolved.Features = installed.Features
		}

		if dep.Source == document.SourceRegistry || dep.Source == document.SourceAlternateRegistry {
			versions, vErr := versionsFor(dep.RegistryName, dep.PackageName)
			if vErr != nil {
				return nil, nil, fmt.Errorf("querying versions for %s: %w", dep.PackageName, vErr)
			}
			resolved.AvailableVersions = versionStrings(versions)

			var installedVersion *semver.Version
			if hasInstalled {
				installedVersion, _ = semver.Parse(installed.Version)
			}
			if latest := semver.LatestMatchingPrerelease(versions, installedVersion); latest != nil {
				resolved.LatestAbsolute = latest.Original()
			}
			if dep.Requirement != "" {
				if constraint, cErr := semver.ParseRequirement(dep.Requirement); cErr == nil {
					if lc := semver.LatestCompatible(versions, constraint); lc != nil {
						resolved.LatestCompatible = lc.Original()
					}
				}
			}
		}

		out.ByDependencyID[dep.DependencyID] = resolved
	}

	return out, nil, nil
}

func versionStrings(vs []*semver.Version) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Original()
	}
	return out
}

// The composite (table, platform, name) key described by §4.5's Resolution
// Index is realized concretely by manifest.Dependency.ID: a dotted path
// already encoding table kind and platform, e.g.
// "target.cfg(windows).dependencies.serde". Output keys on that id
// directly rather than re-deriving the triple.
