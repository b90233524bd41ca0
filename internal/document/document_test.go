package document

import "testing"

func TestReconcileInitialMarksAllDirty(t *testing.T) {
	d := NewDocument("file:///package.oriz")
	ok := d.Reconcile("[dependencies]\nserde = \"1.0\"\n")
	if !ok {
		t.Fatalf("expected successful reconcile, errs=%v", d.ParseErrors)
	}
	if d.Revision != 1 {
		t.Errorf("expected revision 1, got %d", d.Revision)
	}
	if !d.IsDirty("dependencies.serde") {
		t.Error("expected newly created dependency to be dirty")
	}
}

func TestReconcileIdempotentSameText(t *testing.T) {
	text := "[dependencies]\nserde = \"1.0\"\n"
	d := NewDocument("file:///package.oriz")
	d.Reconcile(text)
	d.ApplyResolved(d.Revision, map[string]*ResolvedDependency{
		"dependencies.serde": {HasInstalled: true, InstalledVersion: "1.0.0"},
	})
	if d.IsDirty("dependencies.serde") {
		t.Fatal("precondition: expected dependency clean after resolve")
	}

	d.Reconcile(text)
	if d.IsDirty("dependencies.serde") {
		t.Error("reconciling identical text must not re-dirty an already-resolved dependency")
	}
}

func TestReconcileValueChangeDirtiesOnlyChanged(t *testing.T) {
	d := NewDocument("file:///package.oriz")
	d.Reconcile("[dependencies]\nserde = \"1.0\"\nlog = \"0.4\"\n")
	d.ApplyResolved(d.Revision, map[string]*ResolvedDependency{
		"dependencies.serde": {HasInstalled: true},
		"dependencies.log":   {HasInstalled: true},
	})

	d.Reconcile("[dependencies]\nserde = \"1.1\"\nlog = \"0.4\"\n")
	if !d.IsDirty("dependencies.serde") {
		t.Error("expected changed dependency to be dirty")
	}
	if d.IsDirty("dependencies.log") {
		t.Error("expected unchanged dependency to remain clean")
	}
}

func TestReconcileRangeOnlyMoveDoesNotDirty(t *testing.T) {
	d := NewDocument("file:///package.oriz")
	d.Reconcile("[dependencies]\nserde = \"1.0\"\n")
	d.ApplyResolved(d.Revision, map[string]*ResolvedDependency{
		"dependencies.serde": {HasInstalled: true},
	})

	// Prepend a blank line: serde's range moves but its declared value is
	// unchanged.
	d.Reconcile("\n[dependencies]\nserde = \"1.0\"\n")
	if d.IsDirty("dependencies.serde") {
		t.Error("range-only move must not mark the dependency dirty")
	}
}

func TestReconcileDeletionRemovesFromDirtyAndResolved(t *testing.T) {
	d := NewDocument("file:///package.oriz")
	d.Reconcile("[dependencies]\nserde = \"1.0\"\n")
	d.ApplyResolved(d.Revision, map[string]*ResolvedDependency{
		"dependencies.serde": {HasInstalled: true},
	})

	d.Reconcile("[dependencies]\n")
	if _, ok := d.Resolved["dependencies.serde"]; ok {
		t.Error("expected deleted dependency removed from Resolved")
	}
	if d.IsDirty("dependencies.serde") {
		t.Error("expected deleted dependency removed from Dirty")
	}
}

// TestApplyResolvedStaleRevision covers Scenario E of SPEC_FULL.md §8.
func TestApplyResolvedStaleRevision(t *testing.T) {
	d := NewDocument("file:///package.oriz")
	d.Reconcile("[dependencies]\nserde = \"1.0\"\n") // revision 1, dirty at 1
	d.ApplyResolved(1, map[string]*ResolvedDependency{"dependencies.serde": {HasInstalled: true}})

	d.Reconcile("[dependencies]\nserde = \"1.1\"\nlog = \"0.4\"\n") // revision 2: serde dirty@2, log dirty@2

	touched := d.ApplyResolved(1, map[string]*ResolvedDependency{
		"dependencies.serde": {HasInstalled: true, InstalledVersion: "1.0.0"},
		"dependencies.log":   {HasInstalled: true, InstalledVersion: "0.4.0"},
	})
	if len(touched) != 0 {
		t.Fatalf("stale resolve (rev=1) must not touch deps dirtied at rev 2, touched=%v", touched)
	}
	if !d.IsDirty("dependencies.serde") || !d.IsDirty("dependencies.log") {
		t.Error("deps dirtied at rev 2 must remain dirty after a rev=1 resolve")
	}
}

func TestRevisionMonotonicallyIncreases(t *testing.T) {
	d := NewDocument("file:///package.oriz")
	d.Reconcile("[dependencies]\n")
	r1 := d.Revision
	d.Reconcile("[dependencies]\nserde = \"1.0\"\n")
	r2 := d.Revision
	if r2 <= r1 {
		t.Errorf("expected strictly increasing revision, got %d then %d", r1, r2)
	}
}
