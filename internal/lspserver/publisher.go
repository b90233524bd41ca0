package lspserver

import (
	"github.com/orizon-lang/manifest-lsp/internal/decoration"
	"github.com/orizon-lang/manifest-lsp/internal/diagnostic"
	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/rpc"
)

// Publisher satisfies controller.Publisher over a framed connection. It
// needs the Workspace directly (rather than going back through the
// Controller) to resolve a diagnostic's NodeID to a concrete Range, the
// same lookup hover.go and codeaction.go already do for their own anchors.
type Publisher struct {
	conn      *rpc.Conn
	workspace *document.Workspace
}

// NewPublisher constructs a Publisher writing notifications to conn.
func NewPublisher(conn *rpc.Conn, workspace *document.Workspace) *Publisher {
	return &Publisher{conn: conn, workspace: workspace}
}

// PublishDiagnostics sends textDocument/publishDiagnostics, resolving any
// NodeID-anchored diagnostic to its node's current Range and passing
// Range-anchored ones (parse errors) straight through.
func (p *Publisher) PublishDiagnostics(snap diagnostic.Snapshot) {
	doc := p.workspace.Get(snap.URI)

	items := make([]any, 0, len(snap.Diagnostics))
	for _, d := range snap.Diagnostics {
		rng := d.Range
		if d.NodeID != "" && doc != nil && doc.Symbols != nil {
			if node := doc.Symbols.Get(d.NodeID); node != nil {
				rng = node.Range
			}
		}
		items = append(items, map[string]any{
			"range":    wireRange(rng),
			"severity": int(d.Severity),
			"message":  d.Message,
			"source":   d.Source,
		})
	}

	p.conn.Notify("textDocument/publishDiagnostics", map[string]any{
		"uri":         snap.URI,
		"version":     snap.Revision,
		"diagnostics": items,
	})
}

// PublishDecorations sends a single push notification carrying whichever
// of the two closed decoration variants decoration.Dispatch chose; a real
// inlay-hints client would instead pull via textDocument/inlayHint, but
// this server's Decoration Dispatcher is push-driven by design (§9), so a
// dedicated notification carries both shapes under one method name.
func (p *Publisher) PublishDecorations(uri string, inlay []decoration.InlayHint, custom []decoration.CustomDecoration) {
	params := map[string]any{"uri": uri}

	if inlay != nil {
		items := make([]any, len(inlay))
		for i, h := range inlay {
			items[i] = map[string]any{"position": wirePosition(h.Position), "label": h.Label}
		}
		params["inlayHints"] = items
	}
	if custom != nil {
		items := make([]any, len(custom))
		for i, c := range custom {
			items[i] = map[string]any{"range": wireRange(c.Range), "text": c.Text}
		}
		params["decorations"] = items
	}

	p.conn.Notify("orizon-pkg/decorations", params)
}
