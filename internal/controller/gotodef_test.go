package controller

import (
	"testing"

	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
)

func TestGoToDefinitionResolvesWorkspaceFlag(t *testing.T) {
	root := document.NewDocument("file:///root/package.oriz")
	if !root.Reconcile("[workspace]\nmembers = [\"child\"]\n\n[workspace.dependencies]\nserde = \"1.0\"\n") {
		t.Fatalf("expected root parse to succeed: %v", root.ParseErrors)
	}

	member := document.NewDocument("file:///root/child/package.oriz")
	if !member.Reconcile("[dependencies]\nserde = { workspace = true }\n") {
		t.Fatalf("expected member parse to succeed: %v", member.ParseErrors)
	}

	ws := document.NewWorkspace()
	ws.Put(root)
	ws.Put(member)
	ws.RootManifestURI = root.URI

	dep := member.Deps.All()[0]
	flagNode := member.Symbols.Get(dep.Fields[manifest.FieldWorkspace].NodeID)

	loc := GoToDefinitionAt(ws, member, flagNode.Range.Start)
	if loc == nil {
		t.Fatal("expected a definition location")
	}
	if loc.URI != root.URI {
		t.Errorf("expected definition in root manifest, got %q", loc.URI)
	}

	rootDep := root.Deps.All()[0]
	wantRange := root.Symbols.Get(rootDep.EntryNode).Range
	if loc.Range != wantRange {
		t.Errorf("expected range %+v, got %+v", wantRange, loc.Range)
	}
}

func TestGoToDefinitionNilWhenNotWorkspaceFlag(t *testing.T) {
	doc := document.NewDocument("file:///package.oriz")
	doc.Reconcile("[dependencies]\nserde = \"1.0\"\n")
	ws := document.NewWorkspace()
	ws.Put(doc)

	dep := doc.Deps.All()[0]
	versionNode := doc.Symbols.Get(dep.Fields[manifest.FieldVersion].NodeID)

	if loc := GoToDefinitionAt(ws, doc, versionNode.Range.Start); loc != nil {
		t.Errorf("expected nil, got %+v", loc)
	}
}
