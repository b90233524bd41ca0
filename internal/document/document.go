// Package document implements the Document and Workspace aggregates: the
// per-file state (Symbol Tree, Dependency Tree, resolved map, dirty set,
// revision) and the multi-document workspace context.
package document

import (
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
)

// ResolvedDependency is what the resolver knows about one declaration.
type ResolvedDependency struct {
	HasInstalled      bool
	InstalledVersion  string
	SourceKind        SourceKind
	Features          map[string][]string // feature name -> enabled deps
	AvailableVersions []string             // descending
	LatestCompatible  string
	LatestAbsolute    string
}

// SourceKind is the origin of a resolved package.
type SourceKind int

const (
	SourceRegistry SourceKind = iota
	SourceGit
	SourcePath
	SourceDirectory
	SourceAlternateRegistry
)

// GitInfo carries the extra fields a git source kind needs for hover.
type GitInfo struct {
	Reference  string
	FullCommit string
}

// DirtyMark records the revision at which a dependency id was marked dirty.
type DirtyMark struct {
	Revision int
}

// ParseError mirrors manifest.ParseError, retained across reparses that
// fail, per SPEC_FULL.md §3 Expansion.
type ParseError = manifest.ParseError

// Document is the per-file aggregate described in spec §3.
type Document struct {
	URI      string
	Revision int

	Symbols *manifest.SymbolTree
	Deps    *manifest.DependencyTree

	Resolved map[string]*ResolvedDependency // dependency id -> resolved view
	Dirty    map[string]DirtyMark           // dependency id -> revision when marked

	WorkspaceMembers []string // member package names, if this is a root manifest

	ParseErrors []*ParseError
}

// NewDocument constructs an empty, never-yet-parsed Document at revision 0.
func NewDocument(uri string) *Document {
	return &Document{
		URI:      uri,
		Revision: 0,
		Resolved: make(map[string]*ResolvedDependency),
		Dirty:    make(map[string]DirtyMark),
	}
}

// Reconcile re-parses text and either initializes the Document (revision 1)
// or replaces its Symbol/Dependency trees and bumps the revision, per
// SPEC_FULL.md §4.9 "Reconcile". Dirty-diff semantics: creations and
// value-changes mark dirty; range-only moves do not; deletions remove from
// both Dirty and Resolved. Returns false if the parse failed structurally
// (ParseErrors is populated either way but the Document's trees are left
// untouched on failure, matching §7's "best-effort only when parse
// succeeded structurally").
func (d *Document) Reconcile(text string) bool {
	tree, deps, errs := manifest.Walk(text)
	d.ParseErrors = errs
	if len(errs) > 0 {
		return false
	}

	newRev := d.Revision + 1
	if d.Deps != nil {
		d.diffDirty(deps, newRev)
	} else {
		for _, dep := range deps.All() {
			d.Dirty[dep.ID] = DirtyMark{Revision: newRev}
		}
	}

	d.Symbols = tree
	d.Deps = deps
	d.Revision = newRev
	return true
}

// diffDirty computes the symmetric difference between the previous and new
// Dependency Tree and updates d.Dirty/d.Resolved accordingly (property 3,
// "Dirty-superset").
func (d *Document) diffDirty(newDeps *manifest.DependencyTree, newRev int) {
	oldByID := make(map[string]*manifest.Dependency)
	for _, dep := range d.Deps.All() {
		oldByID[dep.ID] = dep
	}
	newByID := make(map[string]*manifest.Dependency)
	for _, dep := range newDeps.All() {
		newByID[dep.ID] = dep
	}

	for id, nd := range newByID {
		od, existed := oldByID[id]
		if !existed {
			d.Dirty[id] = DirtyMark{Revision: newRev}
			continue
		}
		if !sameDeclaredValue(od, nd) {
			d.Dirty[id] = DirtyMark{Revision: newRev}
		}
		// Range-only move: leave dirty/resolved state untouched.
	}

	for id := range oldByID {
		if _, stillPresent := newByID[id]; !stillPresent {
			delete(d.Dirty, id)
			delete(d.Resolved, id)
		}
	}
}

// sameDeclaredValue reports whether two dependency declarations (across a
// reparse) have the same field values and feature list, i.e. only their
// position changed.
func sameDeclaredValue(a, b *manifest.Dependency) bool {
	if a.Name != b.Name || a.Table != b.Table || a.Style != b.Style ||
		a.Platform != b.Platform || a.Workspace != b.Workspace {
		return false
	}
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for k, av := range a.Fields {
		bv, ok := b.Fields[k]
		if !ok || av.Text != bv.Text {
			return false
		}
	}
	if len(a.Features) != len(b.Features) {
		return false
	}
	for i := range a.Features {
		if a.Features[i].Text != b.Features[i].Text {
			return false
		}
	}
	return true
}

// ApplyResolved merges a resolver output into the Document under revision
// gating: a dependency is touched only if its dirty-rev is <= outputRev.
// Touched dependencies are removed from the dirty set (property 5,
// "Resolved-merge freshness"). Returns the ids that were actually updated.
func (d *Document) ApplyResolved(outputRev int, byDepID map[string]*ResolvedDependency) []string {
	var touched []string
	for id, mark := range d.Dirty {
		if mark.Revision > outputRev {
			continue // still dirty at a revision the resolver hasn't seen
		}
		rd, ok := byDepID[id]
		if !ok {
			continue
		}
		d.Resolved[id] = rd
		delete(d.Dirty, id)
		touched = append(touched, id)
	}
	return touched
}

// IsDirty reports whether a dependency is still awaiting resolution.
func (d *Document) IsDirty(depID string) bool {
	_, dirty := d.Dirty[depID]
	return dirty
}
