package manifest

import "testing"

// TestParseSimpleDependency covers Scenario A of SPEC_FULL.md §8.
func TestParseSimpleDependency(t *testing.T) {
	text := "[dependencies]\nserde = \"1.0\"\n"
	tree, deps, errs := Walk(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	d := deps.ByID("dependencies.serde")
	if d == nil {
		t.Fatal("expected dependency dependencies.serde")
	}
	if d.Style != StyleSimple {
		t.Errorf("expected simple style, got %v", d.Style)
	}
	if got := d.Fields[FieldVersion].Text; got != "1.0" {
		t.Errorf("expected version 1.0, got %q", got)
	}

	if !tree.Contains("dependencies.serde") {
		t.Error("expected symbol tree to contain dependencies.serde")
	}
	key := tree.Get("dependencies.serde.key")
	if key == nil || key.Text != "serde" {
		t.Error("expected key node dependencies.serde.key with text \"serde\"")
	}
}

// TestParseTableDependencyWithFeatures covers Scenario B.
func TestParseTableDependencyWithFeatures(t *testing.T) {
	text := "[dependencies]\nserde = { version = \"1.0\", features = [\"derive\"] }\n"
	tree, deps, errs := Walk(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	d := deps.ByID("dependencies.serde")
	if d == nil {
		t.Fatal("expected dependency dependencies.serde")
	}
	if d.Style != StyleTable {
		t.Errorf("expected table style, got %v", d.Style)
	}
	if got := d.Fields[FieldVersion].Text; got != "1.0" {
		t.Errorf("expected version 1.0, got %q", got)
	}
	if len(d.Features) != 1 || d.Features[0].Text != "derive" {
		t.Fatalf("expected one feature \"derive\", got %#v", d.Features)
	}

	for _, id := range []string{
		"dependencies.serde.version",
		"dependencies.serde.features",
		"dependencies.serde.features.0",
	} {
		if !tree.Contains(id) {
			t.Errorf("expected symbol tree to contain %s", id)
		}
	}
}

// TestParseTargetSpecific covers Scenario C.
func TestParseTargetSpecific(t *testing.T) {
	text := "[target.'cfg(windows)'.dependencies]\nwinapi = \"0.3\"\n"
	_, deps, errs := Walk(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	id := "target.cfg(windows).dependencies.winapi"
	d := deps.ByID(id)
	if d == nil {
		t.Fatalf("expected dependency %s", id)
	}
	if d.Platform != "cfg(windows)" {
		t.Errorf("expected platform cfg(windows), got %q", d.Platform)
	}
	if d.Table != TableNormal {
		t.Errorf("expected normal table, got %v", d.Table)
	}
}

func TestWorkspaceDependency(t *testing.T) {
	text := "[workspace.dependencies]\nfoo = \"2.0\"\n"
	_, deps, errs := Walk(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	d := deps.ByID("workspace.dependencies.foo")
	if d == nil || !d.Workspace {
		t.Fatalf("expected workspace dependency, got %#v", d)
	}
}

func TestDevAndBuildDependencyTables(t *testing.T) {
	text := "[dev-dependencies]\nmockall = \"0.1\"\n\n[build-dependencies]\ncc = \"1\"\n"
	_, deps, errs := Walk(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if d := deps.ByID("dev-dependencies.mockall"); d == nil || d.Table != TableDev {
		t.Errorf("expected dev dependency, got %#v", d)
	}
	if d := deps.ByID("build-dependencies.cc"); d == nil || d.Table != TableBuild {
		t.Errorf("expected build dependency, got %#v", d)
	}
}
