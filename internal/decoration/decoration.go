// Package decoration implements the Decoration Dispatcher of SPEC_FULL.md
// §9: a closed two-variant target selector, deliberately not an open
// plugin interface, since exactly two editor-facing protocols exist for
// surfacing a resolved version inline.
package decoration

import (
	"github.com/orizon-lang/manifest-lsp/internal/config"
	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
)

// Hint is one piece of resolved-version text to render next to a
// dependency's declaration.
type Hint struct {
	NodeID string // the value node (or entry node for table-style deps) to anchor at
	Text   string // e.g. "1.2.4", "1.2.4 (-> 1.5.0 available)", or "unresolved"
}

// InlayHint is the LSP-native shape: position plus label.
type InlayHint struct {
	Position manifest.Position
	Label    string
}

// CustomDecoration is the editor-proprietary shape: a range plus a render
// string, used when the client declared it prefers
// textDocument/decoration/* over standard inlay hints.
type CustomDecoration struct {
	Range manifest.Range
	Text  string
}

// Dispatch renders hints into whichever of the two closed variants cfg
// currently selects. The slice for the other variant is always nil.
func Dispatch(cfg *config.Config, symbols *manifest.SymbolTree, hints []Hint) ([]InlayHint, []CustomDecoration) {
	switch cfg.DecorationFormat() {
	case config.DecorationCustomProtocol:
		return nil, renderCustom(symbols, hints)
	default:
		return renderInlay(symbols, hints), nil
	}
}

func renderInlay(symbols *manifest.SymbolTree, hints []Hint) []InlayHint {
	out := make([]InlayHint, 0, len(hints))
	for _, h := range hints {
		n := symbols.Get(h.NodeID)
		if n == nil {
			continue
		}
		out = append(out, InlayHint{Position: n.Range.End, Label: h.Text})
	}
	return out
}

func renderCustom(symbols *manifest.SymbolTree, hints []Hint) []CustomDecoration {
	out := make([]CustomDecoration, 0, len(hints))
	for _, h := range hints {
		n := symbols.Get(h.NodeID)
		if n == nil {
			continue
		}
		out = append(out, CustomDecoration{Range: n.Range, Text: h.Text})
	}
	return out
}

// HintsForDocument builds the Hint list for every resolved dependency in
// doc, formatting the label from its ResolvedDependency per §4 "resolved
// version decoration": "unresolved" when nothing is installed, the installed
// version followed by "(-> X available)" when a different latest compatible
// version X is known, else the installed version alone.
func HintsForDocument(doc *document.Document) []Hint {
	if doc.Deps == nil {
		return nil
	}
	var out []Hint
	for _, dep := range doc.Deps.All() {
		rd, ok := doc.Resolved[dep.ID]
		if !ok {
			continue
		}
		out = append(out, Hint{NodeID: dep.EntryNode, Text: label(rd)})
	}
	return out
}

func label(rd *document.ResolvedDependency) string {
	if !rd.HasInstalled {
		return "unresolved"
	}
	if rd.LatestCompatible != "" && rd.LatestCompatible != rd.InstalledVersion {
		return rd.InstalledVersion + " (-> " + rd.LatestCompatible + " available)"
	}
	return rd.InstalledVersion
}
