package manifest

import (
	"strconv"
	"strings"

	"github.com/orizon-lang/manifest-lsp/internal/manifestgrammar"
)

// ParseError is a grammar- or semantic-level error at a range in the
// document, surfaced as a parse diagnostic.
type ParseError struct {
	Range   Range
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// Walk consumes the DOM produced by manifestgrammar.Parse and builds the
// Symbol Tree and Dependency Tree for one document, following the
// traversal rules of SPEC_FULL.md §4.4 (grounded on
// original_source/crates/toml-parser/src/walker.rs).
func Walk(text string) (*SymbolTree, *DependencyTree, []*ParseError) {
	root, gerrs := manifestgrammar.Parse(text)

	w := &walker{text: text, deps: NewDependencyTree()}
	for _, ge := range gerrs {
		w.errs = append(w.errs, &ParseError{
			Range:   rangeFromOffsets(text, ge.Offset, ge.Offset),
			Message: ge.Message,
		})
	}

	for _, child := range root.Children {
		if child.Kind != manifestgrammar.KindTable && child.Kind != manifestgrammar.KindArrayTable {
			continue
		}
		w.walkTable(child)
	}

	tree := NewSymbolTree(w.nodes)
	return tree, w.deps, w.errs
}

type walker struct {
	text  string
	nodes []*Node
	deps  *DependencyTree
	errs  []*ParseError
}

func (w *walker) emit(n *Node) *Node {
	w.nodes = append(w.nodes, n)
	return n
}

func (w *walker) nodeRange(r manifestgrammar.Range) Range {
	return rangeFromOffsets(w.text, r.Start, r.End)
}

func headerText(parts []*manifestgrammar.Node) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.Text
	}
	return out
}

func (w *walker) walkTable(tbl *manifestgrammar.Node) {
	parts := headerText(tbl.Key)
	if len(parts) == 0 {
		return
	}
	switch parts[0] {
	case "dependencies":
		w.walkDependencyTable(tbl, "dependencies", TableNormal, "", false)
	case "dev-dependencies":
		w.walkDependencyTable(tbl, "dev-dependencies", TableDev, "", false)
	case "build-dependencies":
		w.walkDependencyTable(tbl, "build-dependencies", TableBuild, "", false)
	case "target":
		w.walkTargetTable(tbl, parts)
	case "workspace":
		w.walkWorkspaceTable(tbl, parts)
	default:
		// Generic/unrecognized top-level table: record only its header key
		// as a generic symbol so the Symbol Tree still reflects its
		// existence; body entries outside the recognized tables carry no
		// semantic meaning for this server.
		w.emitGenericHeader(strings.Join(parts, "."), tbl)
	}
}

func (w *walker) emitGenericHeader(id string, tbl *manifestgrammar.Node) {
	w.emit(&Node{ID: id, Range: w.nodeRange(tbl.Range), Tag: TagKey, Role: RoleTableHeader})
}

// walkTargetTable handles `[target.'cfg(...)'.dependencies]` style headers:
// parts = ["target", "<selector>", "<dep-table-name>"].
func (w *walker) walkTargetTable(tbl *manifestgrammar.Node, parts []string) {
	if len(parts) < 3 {
		w.errs = append(w.errs, &ParseError{
			Range:   w.nodeRange(tbl.Range),
			Message: "malformed target table header",
		})
		return
	}
	selector := parts[1]
	depTableName := parts[2]
	prefix := "target." + selector + "." + depTableName

	switch depTableName {
	case "dependencies":
		w.walkDependencyTable(tbl, prefix, TableNormal, selector, false)
	case "dev-dependencies":
		w.walkDependencyTable(tbl, prefix, TableDev, selector, false)
	case "build-dependencies":
		w.walkDependencyTable(tbl, prefix, TableBuild, selector, false)
	default:
		w.emitGenericHeader(strings.Join(parts, "."), tbl)
	}
}

// walkWorkspaceTable handles `[workspace]`, `[workspace.dependencies]`.
// `members`/`exclude` arrays are recorded as generic values.
func (w *walker) walkWorkspaceTable(tbl *manifestgrammar.Node, parts []string) {
	if len(parts) == 1 {
		// [workspace] itself: members/exclude are entries in Children.
		for _, entry := range tbl.Children {
			if entry.Kind != manifestgrammar.KindKeyValue || len(entry.Key) == 0 {
				continue
			}
			name := entry.Key[0].Text
			switch name {
			case "members", "exclude":
				w.walkGenericArray("workspace."+name, entry)
			}
		}
		return
	}
	if len(parts) == 2 && parts[1] == "dependencies" {
		w.walkDependencyTable(tbl, "workspace.dependencies", TableNormal, "", true)
		return
	}
	w.emitGenericHeader(strings.Join(parts, "."), tbl)
}

func (w *walker) walkGenericArray(id string, entry *manifestgrammar.Node) {
	keyNode := &Node{ID: id + ".key", Range: w.nodeRange(entry.Range), Tag: TagKey, Text: strings.Join(headerText(entry.Key), ".")}
	w.emit(keyNode)
	val := entry.Value()
	if val == nil || val.Kind != manifestgrammar.KindArray {
		return
	}
	for i, el := range val.Children {
		if el.Kind != manifestgrammar.KindString {
			continue // non-string elements skipped silently
		}
		w.emit(&Node{
			ID:    id + "." + strconv.Itoa(i),
			Range: w.nodeRange(el.Range),
			Tag:   TagValue,
			Text:  el.Text,
		})
	}
}

func (w *walker) walkDependencyTable(tbl *manifestgrammar.Node, prefix string, kind TableKind, platform string, workspace bool) {
	for _, entry := range tbl.Children {
		if entry.Kind != manifestgrammar.KindKeyValue || len(entry.Key) == 0 {
			continue
		}
		name := entry.Key[0].Text
		w.walkDependency(prefix+"."+name, name, entry, kind, platform, workspace)
	}
}

func (w *walker) walkDependency(id, name string, entry *manifestgrammar.Node, kind TableKind, platform string, workspace bool) {
	keyNode := w.emit(&Node{ID: id + ".key", Range: w.nodeRange(entry.Key[0].Range), Tag: TagKey, Text: name, Role: RoleCrateName})

	val := entry.Value()
	if val == nil {
		w.errs = append(w.errs, &ParseError{Range: w.nodeRange(entry.Range), Message: "dependency entry has no value"})
		return
	}

	dep := &Dependency{
		ID:          id,
		Name:        name,
		Table:       kind,
		Platform:    platform,
		Workspace:   workspace,
		NameKeyNode: keyNode.ID,
		EntryNode:   id,
		Fields:      make(map[FieldKind]FieldValue),
	}

	switch val.Kind {
	case manifestgrammar.KindString:
		dep.Style = StyleSimple
		entryNode := w.emit(&Node{ID: id, Range: w.nodeRange(val.Range), Tag: TagValue, Text: val.Text, Role: RoleVersion})
		dep.Fields[FieldVersion] = FieldValue{NodeID: entryNode.ID, Text: val.Text}
	case manifestgrammar.KindInlineTable:
		dep.Style = StyleTable
		w.emit(&Node{ID: id, Range: w.nodeRange(val.Range), Tag: TagValue})
		w.walkDependencyFields(id, val, dep)
	default:
		w.errs = append(w.errs, &ParseError{Range: w.nodeRange(val.Range), Message: "dependency value must be a string or table"})
		return
	}

	w.deps.Insert(dep)
}

var fieldKindByName = map[string]FieldKind{
	"version":          FieldVersion,
	"git":              FieldGit,
	"branch":           FieldBranch,
	"tag":              FieldTag,
	"rev":              FieldRev,
	"path":             FieldPath,
	"workspace":        FieldWorkspace,
	"registry":         FieldRegistry,
	"package":          FieldPackage,
	"default-features": FieldDefaultFeatures,
	"optional":         FieldOptional,
}

func (w *walker) walkDependencyFields(depID string, tbl *manifestgrammar.Node, dep *Dependency) {
	for _, entry := range tbl.Children {
		if entry.Kind != manifestgrammar.KindKeyValue || len(entry.Key) == 0 {
			continue
		}
		fieldName := entry.Key[0].Text
		fieldID := depID + "." + fieldName

		if fieldName == "features" {
			w.walkFeaturesArray(fieldID, entry, dep)
			continue
		}

		kind, recognized := fieldKindByName[fieldName]
		if !recognized {
			// Unrecognized field: still emitted as a generic node so the
			// Symbol Tree covers every parsed entry, but not attached to
			// the Dependency's Fields map.
			w.walkDependencyField(fieldID, entry, RoleOther)
			continue
		}

		var role Role
		switch kind {
		case FieldVersion:
			role = RoleVersion
		case FieldGit:
			role = RoleGitURL
		case FieldWorkspace:
			role = RoleWorkspaceFlag
		default:
			role = RoleOther
		}
		fieldNode := w.walkDependencyField(fieldID, entry, role)
		dep.Fields[kind] = FieldValue{NodeID: fieldNode.ID, Text: fieldNode.Text}
	}
}

func (w *walker) walkDependencyField(fieldID string, entry *manifestgrammar.Node, role Role) *Node {
	w.emit(&Node{ID: fieldID + ".key", Range: w.nodeRange(entry.Key[0].Range), Tag: TagKey, Text: entry.Key[0].Text})
	val := entry.Value()
	text := ""
	if val != nil {
		text = val.Text
	}
	var r Range
	if val != nil {
		r = w.nodeRange(val.Range)
	} else {
		r = w.nodeRange(entry.Range)
	}
	return w.emit(&Node{ID: fieldID, Range: r, Tag: TagValue, Text: text, Role: role})
}

func (w *walker) walkFeaturesArray(fieldID string, entry *manifestgrammar.Node, dep *Dependency) {
	w.emit(&Node{ID: fieldID + ".key", Range: w.nodeRange(entry.Key[0].Range), Tag: TagKey, Text: "features"})
	val := entry.Value()
	if val == nil || val.Kind != manifestgrammar.KindArray {
		return
	}
	w.emit(&Node{ID: fieldID, Range: w.nodeRange(val.Range), Tag: TagValue, Role: RoleOther})

	for i, el := range val.Children {
		if el.Kind != manifestgrammar.KindString {
			continue // non-string elements skipped silently
		}
		elID := fieldID + "." + strconv.Itoa(i)
		w.emit(&Node{ID: elID, Range: w.nodeRange(el.Range), Tag: TagValue, Text: el.Text, Role: RoleFeatureElement})
		if dep != nil {
			dep.Features = append(dep.Features, FeatureEntry{NodeID: elID, Text: el.Text})
		}
	}
}
