// Package lspserver is the method-dispatch layer cmd/manifest-lsp wraps
// around internal/rpc's framed connection and internal/controller's Event
// Controller. Grounded on internal/tools/lsp_orig/server.go's Run loop:
// one big switch over req.Method, each arm decoding its own anonymous
// params struct and replying (or not, for notifications). Unlike the
// teacher's Server, every textDocument/* arm here just forwards to the
// Controller instead of mutating document state inline.
package lspserver

import (
	"context"
	"encoding/json"
	"io"
	"log"

	"github.com/orizon-lang/manifest-lsp/internal/controller"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
	"github.com/orizon-lang/manifest-lsp/internal/rpc"
)

// Server reads framed requests from conn and dispatches them onto ctrl.
type Server struct {
	conn *rpc.Conn
	ctrl *controller.Controller
}

// New constructs a Server over an already-framed connection.
func New(conn *rpc.Conn, ctrl *controller.Controller) *Server {
	return &Server{conn: conn, ctrl: ctrl}
}

// Run reads and dispatches requests until the stream closes cleanly (io.EOF,
// returned as nil) or ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		req, err := s.conn.ReadRequest()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			if fe, ok := err.(*rpc.FrameError); ok {
				log.Printf("lspserver: %v", fe)
				continue
			}
			return err
		}
		s.dispatch(ctx, req)
	}
}

func (s *Server) dispatch(ctx context.Context, req *rpc.Request) {
	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "initialized", "$/cancelRequest", "exit":
		// notifications this server has nothing to do in response to
	case "shutdown":
		s.reply(req, nil)
	case "textDocument/didOpen":
		s.handleDidOpen(ctx, req)
	case "textDocument/didChange":
		s.handleDidChange(ctx, req)
	case "textDocument/didSave":
		s.handleDidSave(ctx, req)
	case "textDocument/didClose":
		s.handleDidClose(ctx, req)
	case "textDocument/hover":
		s.handleHover(ctx, req)
	case "textDocument/completion":
		s.handleCompletion(ctx, req)
	case "textDocument/codeAction":
		s.handleCodeAction(ctx, req)
	case "textDocument/definition":
		s.handleDefinition(ctx, req)
	default:
		if len(req.ID) > 0 {
			s.conn.ReplyError(req.ID, -32601, "method not found: "+req.Method)
		}
	}
}

func (s *Server) reply(req *rpc.Request, result any) {
	if len(req.ID) == 0 {
		return
	}
	if err := s.conn.Reply(req.ID, result); err != nil {
		log.Printf("lspserver: reply %s: %v", req.Method, err)
	}
}

func (s *Server) replyInvalidParams(req *rpc.Request) {
	if len(req.ID) == 0 {
		return
	}
	if err := s.conn.ReplyError(req.ID, -32602, "invalid params: "+req.Method); err != nil {
		log.Printf("lspserver: replyError %s: %v", req.Method, err)
	}
}

func (s *Server) handleInitialize(req *rpc.Request) {
	s.reply(req, map[string]any{
		"capabilities": map[string]any{
			"positionEncoding": "utf-16",
			"textDocumentSync": 1, // Full
			"hoverProvider":    true,
			"completionProvider": map[string]any{
				"triggerCharacters": []string{"\"", "."},
			},
			"definitionProvider": true,
			"codeActionProvider": true,
		},
		"serverInfo": map[string]any{"name": "manifest-lsp"},
	})
}

func (s *Server) handleDidOpen(ctx context.Context, req *rpc.Request) {
	var p struct {
		TextDocument struct {
			URI  string `json:"uri"`
			Text string `json:"text"`
		} `json:"textDocument"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.replyInvalidParams(req)
		return
	}
	s.ctrl.Opened(ctx, p.TextDocument.URI, p.TextDocument.Text)
}

// handleDidChange assumes full-document sync (the textDocumentSync: 1 this
// server advertises in initialize), so only the final contentChange in the
// batch is ever relevant.
func (s *Server) handleDidChange(ctx context.Context, req *rpc.Request) {
	var p struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
		ContentChanges []struct {
			Text string `json:"text"`
		} `json:"contentChanges"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.replyInvalidParams(req)
		return
	}
	if len(p.ContentChanges) == 0 {
		return
	}
	s.ctrl.Changed(ctx, p.TextDocument.URI, p.ContentChanges[len(p.ContentChanges)-1].Text)
}

func (s *Server) handleDidSave(ctx context.Context, req *rpc.Request) {
	var p struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.replyInvalidParams(req)
		return
	}
	if p.Text == nil {
		return // includeText wasn't negotiated; nothing to reconcile against
	}
	s.ctrl.Saved(ctx, p.TextDocument.URI, *p.Text)
}

func (s *Server) handleDidClose(ctx context.Context, req *rpc.Request) {
	var p struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.replyInvalidParams(req)
		return
	}
	s.ctrl.Closed(ctx, p.TextDocument.URI)
}

type wirePositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

func (s *Server) handleHover(ctx context.Context, req *rpc.Request) {
	var p wirePositionParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.replyInvalidParams(req)
		return
	}
	hover := s.ctrl.Hover(ctx, p.TextDocument.URI, positionFromWire(p.Position.Line, p.Position.Character))
	if hover == nil {
		s.reply(req, nil)
		return
	}
	s.reply(req, map[string]any{
		"contents": map[string]any{"kind": "markdown", "value": hover.Markdown},
		"range":    wireRange(hover.Range),
	})
}

func (s *Server) handleCompletion(ctx context.Context, req *rpc.Request) {
	var p wirePositionParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.replyInvalidParams(req)
		return
	}
	list := s.ctrl.Completion(ctx, p.TextDocument.URI, positionFromWire(p.Position.Line, p.Position.Character))
	if list == nil {
		s.reply(req, map[string]any{"isIncomplete": false, "items": []any{}})
		return
	}

	items := make([]any, len(list.Items))
	for i, it := range list.Items {
		items[i] = map[string]any{
			"label":    it.Label,
			"sortText": it.SortText,
			"detail":   it.Detail,
			"textEdit": map[string]any{
				"range":   wireRange(manifest.Range{Start: it.Edit.Start, End: it.Edit.End}),
				"newText": it.Edit.NewText,
			},
		}
	}
	s.reply(req, map[string]any{"isIncomplete": list.IsIncomplete, "items": items})
}

func (s *Server) handleCodeAction(ctx context.Context, req *rpc.Request) {
	var p struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
		Range struct {
			Start struct {
				Line      int `json:"line"`
				Character int `json:"character"`
			} `json:"start"`
		} `json:"range"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.replyInvalidParams(req)
		return
	}

	pos := positionFromWire(p.Range.Start.Line, p.Range.Start.Character)
	actions := s.ctrl.CodeActions(ctx, p.TextDocument.URI, pos)

	items := make([]any, len(actions))
	for i, a := range actions {
		kind := "refactor.rewrite"
		if a.Kind == controller.KindQuickfix {
			kind = "quickfix"
		}
		items[i] = map[string]any{
			"title": a.Title,
			"kind":  kind,
			"edit": map[string]any{
				"changes": map[string]any{
					p.TextDocument.URI: []any{
						map[string]any{
							"range":   wireRange(manifest.Range{Start: a.Edit.Start, End: a.Edit.End}),
							"newText": a.Edit.NewText,
						},
					},
				},
			},
		}
	}
	s.reply(req, items)
}

func (s *Server) handleDefinition(ctx context.Context, req *rpc.Request) {
	var p wirePositionParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.replyInvalidParams(req)
		return
	}
	loc := s.ctrl.GoToDefinition(ctx, p.TextDocument.URI, positionFromWire(p.Position.Line, p.Position.Character))
	if loc == nil {
		s.reply(req, nil)
		return
	}
	s.reply(req, map[string]any{"uri": loc.URI, "range": wireRange(loc.Range)})
}

func positionFromWire(line, character int) manifest.Position {
	return manifest.Position{Line: line, Character: character}
}

func wirePosition(p manifest.Position) map[string]int {
	return map[string]int{"line": p.Line, "character": p.Character}
}

func wireRange(r manifest.Range) map[string]any {
	return map[string]any{"start": wirePosition(r.Start), "end": wirePosition(r.End)}
}
