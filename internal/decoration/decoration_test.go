package decoration

import (
	"testing"

	"github.com/orizon-lang/manifest-lsp/internal/config"
	"github.com/orizon-lang/manifest-lsp/internal/document"
)

func TestDispatchSelectsInlayByDefault(t *testing.T) {
	cfg := config.Default()
	doc := document.NewDocument("file:///package.oriz")
	if !doc.Reconcile("[dependencies]\nserde = \"1.0\"\n") {
		t.Fatal("expected successful parse")
	}
	dep := doc.Deps.All()[0]
	doc.Resolved[dep.ID] = &document.ResolvedDependency{HasInstalled: true, InstalledVersion: "1.0.5"}

	inlay, custom := Dispatch(cfg, doc.Symbols, HintsForDocument(doc))
	if len(custom) != 0 {
		t.Error("expected no custom decorations with default config")
	}
	if len(inlay) != 1 || inlay[0].Label != "1.0.5" {
		t.Fatalf("unexpected inlay hints: %+v", inlay)
	}
}

func TestDispatchSelectsCustomProtocol(t *testing.T) {
	cfg := config.Default()
	cfg.SetDecorationFormat(config.DecorationCustomProtocol)

	doc := document.NewDocument("file:///package.oriz")
	doc.Reconcile("[dependencies]\nserde = \"1.0\"\n")
	dep := doc.Deps.All()[0]
	doc.Resolved[dep.ID] = &document.ResolvedDependency{HasInstalled: true, InstalledVersion: "1.0.5", LatestCompatible: "1.2.0"}

	inlay, custom := Dispatch(cfg, doc.Symbols, HintsForDocument(doc))
	if len(inlay) != 0 {
		t.Error("expected no inlay hints with custom protocol selected")
	}
	if len(custom) != 1 {
		t.Fatalf("expected one custom decoration, got %d", len(custom))
	}
	if custom[0].Text != "1.0.5 (-> 1.2.0 available)" {
		t.Errorf("unexpected label: %q", custom[0].Text)
	}
}
