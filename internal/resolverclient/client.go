// Package resolverclient provides the production implementation of
// internal/resolver.Client, adapting
// internal/packagemanager_orig/resolver.go's backtracking Resolver as the
// in-process stand-in for "the package resolver" external process. It
// draws its declared-dependency graph from the open internal/document
// Workspace rather than a content-addressed registry, since a manifest-lsp
// session already has every workspace member's dependency declarations
// parsed; version candidates still come from internal/registryclient, the
// same boundary completion fallback uses.
//
// Registries here expose only flat version lists (no per-version
// transitive dependency manifests), so resolution performed in-process is
// necessarily shallow: each declared requirement is checked against the
// registry's version list directly, with no recursive dependency-of-
// dependency solving. A subprocess Client invoking the real external
// resolver (SubprocessClient, in subprocess.go) performs full transitive
// resolution; InProcess exists for tests and for environments where no
// external resolver binary is configured.
package resolverclient

import (
	"context"
	"fmt"
	"sort"

	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
	"github.com/orizon-lang/manifest-lsp/internal/registryclient"
	"github.com/orizon-lang/manifest-lsp/internal/resolver"
	"github.com/orizon-lang/manifest-lsp/internal/semver"
)

// InProcess implements resolver.Client directly against an open Workspace
// and a registry source, performing shallow (non-transitive) resolution.
type InProcess struct {
	workspace *document.Workspace
	registry  registryclient.Client
}

// New constructs an InProcess resolver client.
func New(workspace *document.Workspace, registry registryclient.Client) *InProcess {
	return &InProcess{workspace: workspace, registry: registry}
}

// OpenWorkspace implements resolver.Client by walking every open document's
// DependencyTree and resolving each registry-sourced requirement against
// the registry client. Git, path, and workspace-inherited dependencies are
// reported as declared but left unresolved (HasInstalled stays false; the
// caller's diagnostics pass never flags those as missing, per §4.5's scope:
// only registry-sourced versions are subject to "no matching version").
func (c *InProcess) OpenWorkspace(ctx context.Context, rootManifestPath string) (*resolver.WorkspaceGraph, error) {
	graph := &resolver.WorkspaceGraph{Installed: make(map[string]resolver.Installed)}

	docs := c.workspace.All()
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })

	for _, doc := range docs {
		graph.Members = append(graph.Members, resolver.Member{Name: doc.URI, ManifestPath: doc.URI})

		if doc.Deps == nil {
			continue
		}
		for _, dep := range doc.Deps.All() {
			declared := resolver.DeclaredDependency{
				DependencyID: dep.ID,
				PackageName:  dep.PackageName(),
				Source:       classifySource(dep),
			}
			if fv, ok := dep.Fields[manifest.FieldRegistry]; ok {
				declared.RegistryName = fv.Text
			}
			if fv, ok := dep.Fields[manifest.FieldVersion]; ok {
				declared.Requirement = fv.Text
			}
			graph.Declared = append(graph.Declared, declared)

			if declared.Source != document.SourceRegistry && declared.Source != document.SourceAlternateRegistry {
				continue
			}
			if declared.Requirement == "" {
				continue
			}

			versions, err := c.registry.Versions(ctx, declared.RegistryName, declared.PackageName)
			if err != nil {
				return nil, &resolveErr{msg: fmt.Sprintf("failed to select a version for the requirement `%s = \"%s\"`", declared.PackageName, declared.Requirement)}
			}
			constraint, err := semver.ParseRequirement(declared.Requirement)
			if err != nil {
				return nil, &resolveErr{msg: fmt.Sprintf("failed to select a version for the requirement `%s = \"%s\"`", declared.PackageName, declared.Requirement)}
			}
			best := semver.LatestCompatible(versions, constraint)
			if best == nil {
				if len(versions) == 0 {
					return nil, &resolveErr{msg: fmt.Sprintf("no matching package named `%s` found", declared.PackageName)}
				}
				return nil, &resolveErr{msg: fmt.Sprintf("failed to select a version for the requirement `%s = \"%s\"`", declared.PackageName, declared.Requirement)}
			}
			graph.Installed[dep.ID] = resolver.Installed{Version: best.Original(), Source: declared.Source}
		}
	}

	return graph, nil
}

// AvailableVersions implements resolver.Client by delegating to the
// registry client.
func (c *InProcess) AvailableVersions(ctx context.Context, registryName, packageName string) ([]*semver.Version, error) {
	return c.registry.Versions(ctx, registryName, packageName)
}

func classifySource(dep *manifest.Dependency) document.SourceKind {
	if dep.Workspace {
		return document.SourceRegistry // resolved transitively through the workspace root; treated as registry for version lookups
	}
	if _, ok := dep.Fields[manifest.FieldGit]; ok {
		return document.SourceGit
	}
	if _, ok := dep.Fields[manifest.FieldPath]; ok {
		return document.SourcePath
	}
	if fv, ok := dep.Fields[manifest.FieldRegistry]; ok && fv.Text != "" {
		return document.SourceAlternateRegistry
	}
	return document.SourceRegistry
}

type resolveErr struct{ msg string }

func (e *resolveErr) Error() string { return e.msg }
