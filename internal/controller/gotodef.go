package controller

import (
	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
)

// Location is a cross-document jump target, the Go shape of gd.rs's
// GotoDefinitionResponse::Scalar(Location).
type Location struct {
	URI   string
	Range manifest.Range
}

// GoToDefinitionAt resolves a "workspace = true" reference to its
// declaration in workspace.dependencies of the root manifest, mirroring
// gd.rs's goto_definition: the only definition this server knows about is
// the workspace-inherited dependency link. Anything else returns nil,
// matching gd.rs's terminal `None`.
func GoToDefinitionAt(workspace *document.Workspace, doc *document.Document, pos manifest.Position) *Location {
	if doc.Symbols == nil {
		return nil
	}
	node := doc.Symbols.FindAtPosition(pos)
	if node == nil || node.Role != manifest.RoleWorkspaceFlag {
		return nil
	}

	dep := manifest.DependencyAtPosition(doc.Symbols, doc.Deps, node.Range.Start)
	if dep == nil {
		return nil
	}
	if _, ok := dep.Fields[manifest.FieldWorkspace]; !ok {
		return nil
	}

	root := workspace.Root()
	if root == nil || root.Deps == nil {
		return nil
	}

	match := manifest.WorkspaceLookup(root.Deps, dep.Name, dep.Platform)
	if match == nil {
		return nil
	}
	entry := root.Symbols.Get(match.EntryNode)
	if entry == nil {
		return nil
	}
	return &Location{URI: root.URI, Range: entry.Range}
}
