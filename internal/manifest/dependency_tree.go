package manifest

import "strings"

// DependencyTree is the semantic index over Dependency records: O(1) lookup
// by id, by declared name (multi-valued), and by package name (secondary
// index, rebuilt on insert).
type DependencyTree struct {
	byID      map[string]*Dependency
	byName    map[string][]*Dependency
	byPkgName map[string][]*Dependency
	order     []string // insertion order, for deterministic iteration
}

// NewDependencyTree builds an (initially empty) tree.
func NewDependencyTree() *DependencyTree {
	return &DependencyTree{
		byID:      make(map[string]*Dependency),
		byName:    make(map[string][]*Dependency),
		byPkgName: make(map[string][]*Dependency),
	}
}

// Insert adds or replaces a dependency, rebuilding the secondary indexes.
func (t *DependencyTree) Insert(d *Dependency) {
	if _, exists := t.byID[d.ID]; !exists {
		t.order = append(t.order, d.ID)
	}
	t.byID[d.ID] = d
	t.rebuildSecondary()
}

// Remove deletes a dependency by id.
func (t *DependencyTree) Remove(id string) {
	delete(t.byID, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	t.rebuildSecondary()
}

func (t *DependencyTree) rebuildSecondary() {
	t.byName = make(map[string][]*Dependency)
	t.byPkgName = make(map[string][]*Dependency)
	for _, id := range t.order {
		d := t.byID[id]
		t.byName[d.Name] = append(t.byName[d.Name], d)
		t.byPkgName[d.PackageName()] = append(t.byPkgName[d.PackageName()], d)
	}
}

// ByID returns the dependency with the given id, or nil.
func (t *DependencyTree) ByID(id string) *Dependency { return t.byID[id] }

// ByName returns every dependency declared under the given table key.
func (t *DependencyTree) ByName(name string) []*Dependency { return t.byName[name] }

// ByPackageName returns every dependency whose resolved package identity
// (accounting for renames) equals name.
func (t *DependencyTree) ByPackageName(name string) []*Dependency { return t.byPkgName[name] }

// All returns every dependency in insertion order.
func (t *DependencyTree) All() []*Dependency {
	out := make([]*Dependency, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

// DependencyAtPosition resolves pos to a node via tree, then walks up the
// dotted path by successive suffix-stripping until an id matches a
// dependency record.
func DependencyAtPosition(tree *SymbolTree, deps *DependencyTree, pos Position) *Dependency {
	n := tree.FindAtPosition(pos)
	if n == nil {
		return nil
	}
	id := n.ID
	for {
		if d := deps.ByID(id); d != nil {
			return d
		}
		i := strings.LastIndex(id, ".")
		if i < 0 {
			return nil
		}
		id = id[:i]
	}
}

// WorkspaceLookup resolves a member's "workspace = true" dependency against
// the root workspace.dependencies table. Per the resolved open question
// (SPEC_FULL.md §9), it falls back to name-only matching when the member's
// table kind differs from the root declaration, but prefers a
// platform-qualified workspace dependency of the same name over the
// unqualified one when both exist.
func WorkspaceLookup(rootDeps *DependencyTree, name, platform string) *Dependency {
	candidates := rootDeps.ByName(name)
	var qualified, unqualified *Dependency
	for _, d := range candidates {
		if !d.Workspace {
			continue
		}
		if platform != "" && d.Platform == platform {
			qualified = d
		}
		if d.Platform == "" {
			unqualified = d
		}
	}
	if qualified != nil {
		return qualified
	}
	return unqualified
}
