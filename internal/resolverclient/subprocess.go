package resolverclient

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/resolver"
	"github.com/orizon-lang/manifest-lsp/internal/semver"
)

// Subprocess implements resolver.Client by shelling out to the configured
// orizon-pkg binary, grounded on cmd/orizon-pkg-orig/main.go's "install"
// and "list" subcommands. It parses handleInstall's
// "  name@version (source) -> path" lines (the only machine-stable output
// that subcommand produces; no --json flag exists on the real CLI, so a
// text scan is the faithful adaptation rather than an invented format) and
// handleList's "  path (abspath)" lines for workspace membership.
type Subprocess struct {
	binary string
	runner func(ctx context.Context, dir, binary string, args ...string) ([]byte, error)
}

// NewSubprocess constructs a Subprocess client invoking binary (typically
// "orizon-pkg", resolved via internal/config's cargoPath setting).
func NewSubprocess(binary string) *Subprocess {
	return &Subprocess{binary: binary, runner: runCommand}
}

func runCommand(ctx context.Context, dir, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.Bytes(), fmt.Errorf("%s: %w", strings.TrimSpace(out.String()), err)
	}
	return out.Bytes(), nil
}

var resolvedLine = regexp.MustCompile(`^\s*(\S+)@(\S+)\s+\((\S+)\)\s+->\s+(.+)$`)

// OpenWorkspace shells out to `orizon-pkg install` for the workspace rooted
// at rootManifestPath's directory and parses its resolved-dependency
// listing. It fills only Installed (keyed by package name) and leaves
// Members and Declared empty; ComposedClient below merges it with
// InProcess.OpenWorkspace's declared-edge walk.
func (s *Subprocess) OpenWorkspace(ctx context.Context, rootManifestPath string) (*resolver.WorkspaceGraph, error) {
	dir := manifestDir(rootManifestPath)
	out, err := s.runner(ctx, dir, s.binary, "install")
	if err != nil {
		return nil, &resolveErr{msg: strings.TrimSpace(string(out))}
	}

	graph := &resolver.WorkspaceGraph{Installed: make(map[string]resolver.Installed)}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := resolvedLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		name, version, source := m[1], m[2], m[3]
		// Keyed by package name here since the CLI output carries no
		// dependency id; ComposedClient.OpenWorkspace re-keys by
		// DependencyID once it has the declared-edge list to match against.
		graph.Installed[name] = resolver.Installed{Version: version, Source: sourceFromString(source)}
	}
	return graph, nil
}

// AvailableVersions is not served by orizon-pkg install/list in the real
// CLI (it has no "show all versions of a package" subcommand); Subprocess
// always returns an empty list here, so ComposedClient falls back to
// InProcess (backed by internal/registryclient) for version queries.
func (s *Subprocess) AvailableVersions(ctx context.Context, registryName, packageName string) ([]*semver.Version, error) {
	return nil, nil
}

func sourceFromString(s string) document.SourceKind {
	switch s {
	case "git":
		return document.SourceGit
	case "local":
		return document.SourcePath
	default:
		return document.SourceRegistry
	}
}

func manifestDir(manifestPath string) string {
	idx := strings.LastIndexAny(manifestPath, "/\\")
	if idx < 0 {
		return "."
	}
	return manifestPath[:idx]
}

// ComposedClient combines Subprocess's resolution run with InProcess's
// declared-edge walk and registry-backed version queries, since the CLI
// exposes no version-listing subcommand.
type ComposedClient struct {
	Primary  *Subprocess
	Fallback *InProcess
}

// OpenWorkspace runs the subprocess resolution and the in-process shallow
// resolve, and returns the in-process graph with any dependency it left
// without an Installed entry filled from the subprocess's listing. A
// subprocess failure is ignored; an in-process failure is returned.
func (c *ComposedClient) OpenWorkspace(ctx context.Context, rootManifestPath string) (*resolver.WorkspaceGraph, error) {
	fromProcess, err := c.Primary.OpenWorkspace(ctx, rootManifestPath)
	if err != nil {
		fromProcess = &resolver.WorkspaceGraph{Installed: make(map[string]resolver.Installed)}
	}

	declared, err := c.Fallback.OpenWorkspace(ctx, rootManifestPath)
	if err != nil {
		return nil, err
	}

	declared.Members = append(declared.Members, fromProcess.Members...)

	// fromProcess.Installed is keyed by package name (the subprocess CLI
	// output carries no dependency id); re-key by DependencyID against the
	// declared-edge list InProcess already walked, so resolver.Run's
	// graph.Installed[dep.DependencyID] lookup finds it. The in-process
	// shallow resolve's own Installed entries (already DependencyID-keyed)
	// take priority, since they were checked against the real registry
	// constraint rather than just echoed from the CLI's chosen version.
	for _, dep := range declared.Declared {
		if _, already := declared.Installed[dep.DependencyID]; already {
			continue
		}
		if inst, ok := fromProcess.Installed[dep.PackageName]; ok {
			declared.Installed[dep.DependencyID] = inst
		}
	}
	return declared, nil
}

// AvailableVersions delegates to the registry-backed fallback.
func (c *ComposedClient) AvailableVersions(ctx context.Context, registryName, packageName string) ([]*semver.Version, error) {
	return c.Fallback.AvailableVersions(ctx, registryName, packageName)
}
