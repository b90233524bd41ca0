package controller

import (
	"testing"

	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
)

func TestCodeActionMixedUpgradeableOffersBothBumps(t *testing.T) {
	doc := document.NewDocument("file:///package.oriz")
	doc.Reconcile("[dependencies]\nserde = \"1.0\"\n")
	dep := doc.Deps.All()[0]
	doc.Resolved[dep.ID] = &document.ResolvedDependency{
		HasInstalled:     true,
		InstalledVersion: "1.0.0",
		SourceKind:       document.SourceRegistry,
		LatestCompatible: "1.5.0",
		LatestAbsolute:   "2.0.0",
	}

	node := doc.Symbols.Get(dep.Fields[manifest.FieldVersion].NodeID)
	actions := CodeActionsAt(doc, node.Range.Start)
	if len(actions) != 2 {
		t.Fatalf("expected two quickfix actions, got %+v", actions)
	}
	if actions[0].Title != "1.5.0" || actions[1].Title != "2.0.0" {
		t.Errorf("unexpected titles: %+v", actions)
	}
	for _, a := range actions {
		if a.Kind != KindQuickfix {
			t.Errorf("expected quickfix kind, got %+v", a)
		}
	}
}

func TestCodeActionCompatibleLatestOffersWidenAndBump(t *testing.T) {
	doc := document.NewDocument("file:///package.oriz")
	doc.Reconcile("[dependencies]\nserde = \"1.0\"\n")
	dep := doc.Deps.All()[0]
	doc.Resolved[dep.ID] = &document.ResolvedDependency{
		HasInstalled:     true,
		InstalledVersion: "1.2.0",
		SourceKind:       document.SourceRegistry,
		LatestCompatible: "1.2.0",
		LatestAbsolute:   "1.3.0",
	}

	node := doc.Symbols.Get(dep.Fields[manifest.FieldVersion].NodeID)
	actions := CodeActionsAt(doc, node.Range.Start)
	if len(actions) != 2 {
		t.Fatalf("expected a widen refactor plus a quickfix bump, got %+v", actions)
	}
	if actions[0].Kind != KindRefactor || actions[1].Kind != KindQuickfix {
		t.Errorf("unexpected action kinds: %+v", actions)
	}
}

func TestCodeActionLocalSourceYieldsNone(t *testing.T) {
	doc := document.NewDocument("file:///package.oriz")
	doc.Reconcile("[dependencies]\nserde = \"1.0\"\n")
	dep := doc.Deps.All()[0]
	doc.Resolved[dep.ID] = &document.ResolvedDependency{SourceKind: document.SourcePath, HasInstalled: true, InstalledVersion: "1.0.0"}

	node := doc.Symbols.Get(dep.Fields[manifest.FieldVersion].NodeID)
	if actions := CodeActionsAt(doc, node.Range.Start); actions != nil {
		t.Errorf("expected nil for a path-sourced dependency, got %+v", actions)
	}
}

func TestCodeActionUnresolvedYieldsNone(t *testing.T) {
	doc := document.NewDocument("file:///package.oriz")
	doc.Reconcile("[dependencies]\nserde = \"1.0\"\n")
	dep := doc.Deps.All()[0]

	node := doc.Symbols.Get(dep.Fields[manifest.FieldVersion].NodeID)
	if actions := CodeActionsAt(doc, node.Range.Start); actions != nil {
		t.Errorf("expected nil when nothing has resolved yet, got %+v", actions)
	}
}
