package controller

import (
	"sort"
	"strings"

	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
)

// Hover is the markdown content shown for one position, grounded on
// original_source/src/controller/hover.rs's match over NodeKind.
type Hover struct {
	Markdown string
	Range    manifest.Range
}

// HoverAt resolves hover content for pos within doc, dispatching on the
// found node's Role/ID shape the way hover.rs dispatches on NodeKind: a
// version value shows available versions, a features key lists every
// feature, a single feature element shows what it enables, a git field
// lists the declared branch/tag/rev values (no resolved commit is shown),
// and workspace.members shows the member list. Returns nil when nothing applies, matching hover.rs's terminal
// `_ => None` arm.
func HoverAt(doc *document.Document, workspace *document.Workspace, pos manifest.Position) *Hover {
	if doc.Symbols == nil {
		return nil
	}
	node := doc.Symbols.FindAtPosition(pos)
	if node == nil {
		return nil
	}

	switch {
	case node.IsValue() && node.Role == manifest.RoleVersion:
		return hoverVersion(doc, node)
	case node.IsKey() && strings.HasSuffix(node.ID, ".features.key"):
		return hoverFeatures(doc, node)
	case node.IsValue() && node.Role == manifest.RoleFeatureElement:
		return hoverFeatureElement(doc, node)
	case node.IsValue() && node.Role == manifest.RoleGitURL:
		return hoverGit(doc, node)
	case node.IsKey() && node.ID == "workspace.members.key":
		return hoverWorkspaceMembers(workspace, node)
	default:
		return nil
	}
}

func dependencyOwning(doc *document.Document, node *manifest.Node) *manifest.Dependency {
	return manifest.DependencyAtPosition(doc.Symbols, doc.Deps, node.Range.Start)
}

func hoverVersion(doc *document.Document, node *manifest.Node) *Hover {
	dep := dependencyOwning(doc, node)
	if dep == nil {
		return nil
	}
	rd, ok := doc.Resolved[dep.ID]
	if !ok || len(rd.AvailableVersions) == 0 {
		return nil
	}
	lines := make([]string, len(rd.AvailableVersions))
	for i, v := range rd.AvailableVersions {
		lines[i] = "- " + v
	}
	return &Hover{Markdown: strings.Join(lines, "\n"), Range: node.Range}
}

func hoverFeatures(doc *document.Document, node *manifest.Node) *Hover {
	dep := dependencyOwning(doc, node)
	if dep == nil {
		return nil
	}
	rd, ok := doc.Resolved[dep.ID]
	if !ok || len(rd.Features) == 0 {
		return nil
	}
	names := make([]string, 0, len(rd.Features))
	for name := range rd.Features {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString("- " + name)
		if deps := rd.Features[name]; len(deps) > 0 {
			b.WriteString(": [" + strings.Join(deps, ", ") + "]")
		}
		b.WriteByte('\n')
	}
	return &Hover{Markdown: b.String(), Range: node.Range}
}

func hoverFeatureElement(doc *document.Document, node *manifest.Node) *Hover {
	dep := dependencyOwning(doc, node)
	if dep == nil {
		return nil
	}
	rd, ok := doc.Resolved[dep.ID]
	if !ok {
		return nil
	}
	enabled, ok := rd.Features[node.Text]
	if !ok || len(enabled) == 0 {
		return nil
	}
	var b strings.Builder
	for _, d := range enabled {
		b.WriteString("- " + d + "\n")
	}
	return &Hover{Markdown: b.String(), Range: node.Range}
}

func hoverGit(doc *document.Document, node *manifest.Node) *Hover {
	dep := dependencyOwning(doc, node)
	if dep == nil {
		return nil
	}
	rd, ok := doc.Resolved[dep.ID]
	if !ok || rd.SourceKind != document.SourceGit {
		return nil
	}
	var b strings.Builder
	if fv, ok := dep.Fields[manifest.FieldBranch]; ok {
		b.WriteString("- " + fv.Text + "\n")
	} else if fv, ok := dep.Fields[manifest.FieldTag]; ok {
		b.WriteString("- " + fv.Text + "\n")
	} else if fv, ok := dep.Fields[manifest.FieldRev]; ok {
		b.WriteString("- " + fv.Text + "\n")
	}
	if b.Len() == 0 {
		return nil
	}
	return &Hover{Markdown: b.String(), Range: node.Range}
}

func hoverWorkspaceMembers(workspace *document.Workspace, node *manifest.Node) *Hover {
	if workspace == nil || len(workspace.MemberNames) == 0 {
		return nil
	}
	lines := make([]string, len(workspace.MemberNames))
	for i, name := range workspace.MemberNames {
		uri := ""
		if i < len(workspace.MemberURIs) {
			uri = workspace.MemberURIs[i]
		}
		lines[i] = "- [" + name + "](" + uri + ")"
	}
	return &Hover{Markdown: strings.Join(lines, "\n"), Range: node.Range}
}
