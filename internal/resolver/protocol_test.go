package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/semver"
)

type fakeClient struct {
	graph    *WorkspaceGraph
	openErr  error
	versions map[string][]string
}

func (f *fakeClient) OpenWorkspace(ctx context.Context, rootManifestPath string) (*WorkspaceGraph, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.graph, nil
}

func (f *fakeClient) AvailableVersions(ctx context.Context, registryName, packageName string) ([]*semver.Version, error) {
	raw := f.versions[packageName]
	out := make([]*semver.Version, 0, len(raw))
	for _, s := range raw {
		v, err := semver.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func TestRunComputesLatestCompatibleAndAbsolute(t *testing.T) {
	client := &fakeClient{
		graph: &WorkspaceGraph{
			Members: []Member{{Name: "root"}},
			Declared: []DeclaredDependency{
				{DependencyID: "dependencies.serde", PackageName: "serde", Requirement: "^1", Source: document.SourceRegistry},
			},
			Installed: map[string]Installed{
				"dependencies.serde": {Version: "1.0.2", Source: document.SourceRegistry},
			},
		},
		versions: map[string][]string{
			"serde": {"1.0.0", "1.0.2", "1.5.0", "2.0.0"},
		},
	}

	out, classified, err := Run(context.Background(), client, "/ws/package.oriz")
	if err != nil || classified != nil {
		t.Fatalf("unexpected error: classified=%v err=%v", classified, err)
	}

	rd := out.ByDependencyID["dependencies.serde"]
	if rd == nil {
		t.Fatal("expected resolved entry for dependencies.serde")
	}
	if !rd.HasInstalled || rd.InstalledVersion != "1.0.2" {
		t.Errorf("unexpected installed state: %+v", rd)
	}
	if rd.LatestAbsolute != "2.0.0" {
		t.Errorf("expected latest absolute 2.0.0, got %q", rd.LatestAbsolute)
	}
	if rd.LatestCompatible != "1.5.0" {
		t.Errorf("expected latest compatible 1.5.0 (matches ^1), got %q", rd.LatestCompatible)
	}
}

func TestRunSurfacesClassifiedFailure(t *testing.T) {
	client := &fakeClient{openErr: errors.New("no matching package named `aserde` found")}

	out, classified, err := Run(context.Background(), client, "/ws/package.oriz")
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if out != nil {
		t.Error("expected nil Output on resolver failure")
	}
	if classified == nil || classified.Kind != KindNoMatchingPackage {
		t.Fatalf("expected classified NoMatchingPackage, got %+v", classified)
	}
}
