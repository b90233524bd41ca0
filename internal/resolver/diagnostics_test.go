package resolver

import (
	"testing"

	"github.com/orizon-lang/manifest-lsp/internal/manifest"
)

func TestDiagnosticsAttachesToDeclaredDependency(t *testing.T) {
	text := "[dependencies]\nserde = \"1.0\"\n"
	_, deps, errs := manifest.Walk(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	cerr := Classify("failed to select a version for the requirement `serde = \"1.0\"`\ncandidate versions found which didn't match: 2.0.0")
	diags := Diagnostics(cerr, deps, "$root")
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(diags))
	}
	if diags[0].ID != "dependencies.serde" {
		t.Errorf("expected diagnostic attached to dependencies.serde, got %q", diags[0].ID)
	}
}

func TestDiagnosticsFallsBackToRootWhenUnattributable(t *testing.T) {
	_, deps, _ := manifest.Walk("[dependencies]\nserde = \"1.0\"\n")

	cerr := Classify("network failure while updating registry index")
	diags := Diagnostics(cerr, deps, "$root")
	if len(diags) != 1 || diags[0].NodeID != "$root" {
		t.Fatalf("expected single root-attached diagnostic, got %+v", diags)
	}
}

func TestDiagnosticsCyclicAttachesToRoot(t *testing.T) {
	_, deps, _ := manifest.Walk("[dependencies]\nserde = \"1.0\"\n")

	cerr := Classify("cyclic package dependency: package `a v0.1.0` depends on itself. Cycle:\npackage `a v0.1.0`")
	diags := Diagnostics(cerr, deps, "$root")
	if len(diags) != 1 || diags[0].ID != "$root.cycle" {
		t.Fatalf("expected cycle diagnostic on root, got %+v", diags)
	}
}
