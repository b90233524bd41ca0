package controller

import (
	"context"
	"testing"

	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
	"github.com/orizon-lang/manifest-lsp/internal/registryclient"
)

func versionNode(doc *document.Document) *manifest.Node {
	dep := doc.Deps.All()[0]
	return doc.Symbols.Get(dep.Fields[manifest.FieldVersion].NodeID)
}

func TestCompletionVersionFromResolved(t *testing.T) {
	doc := document.NewDocument("file:///package.oriz")
	if !doc.Reconcile("[dependencies]\nserde = \"1.0\"\n") {
		t.Fatal("expected successful parse")
	}
	dep := doc.Deps.All()[0]
	doc.Resolved[dep.ID] = &document.ResolvedDependency{
		AvailableVersions: []string{"1.5.0", "1.0.2", "1.0.0"},
	}

	node := versionNode(doc)
	list := CompletionAt(context.Background(), doc, nil, "", node.Range.Start)
	if list == nil {
		t.Fatal("expected a completion list")
	}
	if list.IsIncomplete {
		t.Error("resolved-backed completion must not be marked incomplete")
	}
	if len(list.Items) != 3 || list.Items[0].Label != "1.5.0" {
		t.Fatalf("unexpected items: %+v", list.Items)
	}
	edit := list.Items[0].Edit
	if edit.Start.Character != node.Range.Start.Character+1 || edit.End.Character != node.Range.End.Character-1 {
		t.Errorf("expected inner-quote edit range, got %+v", edit)
	}
}

func TestCompletionVersionFallsBackToRegistry(t *testing.T) {
	doc := document.NewDocument("file:///package.oriz")
	doc.Reconcile("[dependencies]\nserde = \"1.0\"\n")

	src := registryclient.NewInMemory()
	src.Seed("serde", "1.0.0", "1.0.2", "2.0.0")
	reg := registryclient.NewCached(src, 0)

	node := versionNode(doc)
	list := CompletionAt(context.Background(), doc, reg, "", node.Range.Start)
	if list == nil {
		t.Fatal("expected a completion list from the registry fallback")
	}
	if !list.IsIncomplete {
		t.Error("registry-backed completion must be marked incomplete")
	}
	if len(list.Items) != 3 || list.Items[0].Label != "2.0.0" {
		t.Fatalf("unexpected items: %+v", list.Items)
	}
}

func TestCompletionFeatureFromResolved(t *testing.T) {
	doc := document.NewDocument("file:///package.oriz")
	if !doc.Reconcile("[dependencies]\nserde = { version = \"1.0\", features = [\"derive\"] }\n") {
		t.Fatal("expected successful parse")
	}
	dep := doc.Deps.All()[0]
	doc.Resolved[dep.ID] = &document.ResolvedDependency{
		Features: map[string][]string{"derive": {"serde_derive"}, "std": nil},
	}

	elNode := doc.Symbols.Get(dep.Features[0].NodeID)
	list := CompletionAt(context.Background(), doc, nil, "", elNode.Range.Start)
	if list == nil {
		t.Fatal("expected a completion list")
	}
	if len(list.Items) != 2 || list.Items[0].Label != "derive" {
		t.Fatalf("unexpected items: %+v", list.Items)
	}
	if list.Items[0].Detail != "enables serde_derive" {
		t.Errorf("unexpected detail: %q", list.Items[0].Detail)
	}
}
