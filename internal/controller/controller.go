// Package controller implements the Event Controller of SPEC_FULL.md §4.9:
// a single actor goroutine owning every Document and Workspace mutation,
// fed by a buffered event channel from the transport, a debounce timer
// task, a background resolve task, and a background audit task. Grounded
// on original_source/src/controller/appraiser.rs's Appraiser, whose
// CargoDocumentEvent match arms this package's handle switch mirrors
// event-for-event.
package controller

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/manifest-lsp/internal/audit"
	"github.com/orizon-lang/manifest-lsp/internal/audittask"
	"github.com/orizon-lang/manifest-lsp/internal/config"
	"github.com/orizon-lang/manifest-lsp/internal/debounce"
	"github.com/orizon-lang/manifest-lsp/internal/decoration"
	"github.com/orizon-lang/manifest-lsp/internal/diagnostic"
	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
	"github.com/orizon-lang/manifest-lsp/internal/registryclient"
	"github.com/orizon-lang/manifest-lsp/internal/resolver"
)

// Publisher is the transport-facing sink for the controller's two push
// notifications, kept narrow so internal/rpc (or any future transport)
// can satisfy it without this package depending on a wire protocol.
type Publisher interface {
	PublishDiagnostics(snapshot diagnostic.Snapshot)
	PublishDecorations(uri string, inlay []decoration.InlayHint, custom []decoration.CustomDecoration)
}

// FileReader reads a manifest's on-disk contents for the Parse event,
// grounded on read_file.rs's client-capability-gated file read.
type FileReader interface {
	ReadFile(ctx context.Context, uri string) (string, error)
}

type eventKind int

const (
	evOpened eventKind = iota
	evSaved
	evChanged
	evParse
	evClosed
	evResolveReady
	evResolved
	evResolverError
	evLockChanged
	evAudited
	evHover
	evCompletion
	evCodeAction
	evGoToDef
)

// event is the one union type flowing through the controller's channel,
// the Go rendering of appraiser.rs's CargoDocumentEvent enum.
type event struct {
	kind eventKind

	uri  string
	text string
	rev  int
	pos  manifest.Position

	resolved   *resolver.Output
	resolveErr *resolver.ClassifiedError
	audited    audittask.Result

	hoverReply      chan *Hover
	completionReply chan *CompletionList
	codeActionReply chan []CodeAction
	gotoDefReply    chan *Location
}

// Controller is the single actor: every method below is safe to call
// concurrently, but all of them only ever enqueue an event. The actual
// state mutation happens exclusively inside the loop goroutine started by
// Run, so Document and Workspace fields never need their own locking
// against the controller's own access (Workspace's map is still guarded,
// for the benefit of transport goroutines that read it directly, e.g.
// for a textDocument/formatting request this server doesn't implement).
type Controller struct {
	workspace        *document.Workspace
	cfg              *config.Config
	resolverClient   resolver.Client
	registry         registryclient.Client
	registryName     string
	fileReader       FileReader
	publisher        Publisher
	rootManifestPath string

	diagnostics *diagnostic.Controller
	auditTask   *audittask.Task

	events        chan event
	debouncer     *debounce.Debouncer
	debounceReady chan debounce.Ready
	auditResults  chan audittask.Result
}

// New constructs a Controller. auditRunner may be nil to disable auditing
// entirely (distinct from config.Config.AuditDisabled, which is a runtime
// toggle over an auditRunner that does exist).
func New(
	workspace *document.Workspace,
	cfg *config.Config,
	resolverClient resolver.Client,
	registry registryclient.Client,
	registryName string,
	auditRunner audit.Runner,
	rootManifestPath string,
	lockfilePath string,
	fileReader FileReader,
	publisher Publisher,
) *Controller {
	c := &Controller{
		workspace:        workspace,
		cfg:              cfg,
		resolverClient:   resolverClient,
		registry:         registry,
		registryName:     registryName,
		fileReader:       fileReader,
		publisher:        publisher,
		rootManifestPath: rootManifestPath,
		diagnostics:      diagnostic.New(),
		events:           make(chan event, 64),
		debounceReady:    make(chan debounce.Ready, 64),
	}
	c.debouncer = debounce.New(c.debounceReady, 1000*time.Millisecond, 5000*time.Millisecond)
	if auditRunner != nil {
		c.auditResults = make(chan audittask.Result, 8)
		c.auditTask = audittask.New(auditRunner, lockfilePath, nil, 2*time.Second, c.auditResults)
	}
	return c
}

// Run drives the controller until ctx is canceled, supervising the
// debounce bridge, the audit task (if any), its result bridge, and the
// main event loop together via errgroup.Group: any one of them returning
// an error tears down the rest, mirroring Appraiser::initialize's
// task-spawning where a single process owns every background worker.
func (c *Controller) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return c.bridgeDebounce(gctx) })
	if c.auditTask != nil {
		g.Go(func() error { return c.auditTask.Run(gctx) })
		g.Go(func() error { return c.bridgeAudit(gctx) })
	}
	g.Go(func() error { return c.loop(gctx) })

	return g.Wait()
}

func (c *Controller) bridgeDebounce(ctx context.Context) error {
	for {
		select {
		case r := <-c.debounceReady:
			if err := c.post(ctx, event{kind: evResolveReady, uri: r.URI, rev: r.Revision}); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Controller) bridgeAudit(ctx context.Context) error {
	for {
		select {
		case res := <-c.auditResults:
			if err := c.post(ctx, event{kind: evAudited, audited: res}); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Controller) loop(ctx context.Context) error {
	for {
		select {
		case ev := <-c.events:
			c.handle(ctx, ev)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Controller) post(ctx context.Context, ev event) error {
	select {
	case c.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Opened handles textDocument/didOpen.
func (c *Controller) Opened(ctx context.Context, uri, text string) {
	c.post(ctx, event{kind: evOpened, uri: uri, text: text})
}

// Saved handles textDocument/didSave with includeText content.
func (c *Controller) Saved(ctx context.Context, uri, text string) {
	c.post(ctx, event{kind: evSaved, uri: uri, text: text})
}

// Changed handles textDocument/didChange with the full new text.
func (c *Controller) Changed(ctx context.Context, uri, text string) {
	c.post(ctx, event{kind: evChanged, uri: uri, text: text})
}

// Parse handles a reparse request against the on-disk contents, e.g. a
// file watcher signal for a manifest that isn't open in the editor.
func (c *Controller) Parse(ctx context.Context, uri string) {
	c.post(ctx, event{kind: evParse, uri: uri})
}

// Closed handles textDocument/didClose.
func (c *Controller) Closed(ctx context.Context, uri string) {
	c.post(ctx, event{kind: evClosed, uri: uri})
}

// LockChanged handles the lock-file watcher firing, per
// document.Workspace.WatchFiles's onChanged callback.
func (c *Controller) LockChanged(ctx context.Context) {
	c.post(ctx, event{kind: evLockChanged})
}

// Hover answers a textDocument/hover request.
func (c *Controller) Hover(ctx context.Context, uri string, pos manifest.Position) *Hover {
	reply := make(chan *Hover, 1)
	if c.post(ctx, event{kind: evHover, uri: uri, pos: pos, hoverReply: reply}) != nil {
		return nil
	}
	select {
	case h := <-reply:
		return h
	case <-ctx.Done():
		return nil
	}
}

// Completion answers a textDocument/completion request.
func (c *Controller) Completion(ctx context.Context, uri string, pos manifest.Position) *CompletionList {
	reply := make(chan *CompletionList, 1)
	if c.post(ctx, event{kind: evCompletion, uri: uri, pos: pos, completionReply: reply}) != nil {
		return nil
	}
	select {
	case l := <-reply:
		return l
	case <-ctx.Done():
		return nil
	}
}

// CodeActions answers a textDocument/codeAction request.
func (c *Controller) CodeActions(ctx context.Context, uri string, pos manifest.Position) []CodeAction {
	reply := make(chan []CodeAction, 1)
	if c.post(ctx, event{kind: evCodeAction, uri: uri, pos: pos, codeActionReply: reply}) != nil {
		return nil
	}
	select {
	case a := <-reply:
		return a
	case <-ctx.Done():
		return nil
	}
}

// GoToDefinition answers a textDocument/definition request.
func (c *Controller) GoToDefinition(ctx context.Context, uri string, pos manifest.Position) *Location {
	reply := make(chan *Location, 1)
	if c.post(ctx, event{kind: evGoToDef, uri: uri, pos: pos, gotoDefReply: reply}) != nil {
		return nil
	}
	select {
	case l := <-reply:
		return l
	case <-ctx.Done():
		return nil
	}
}

func (c *Controller) handle(ctx context.Context, ev event) {
	switch ev.kind {
	case evOpened, evSaved:
		c.handleOpenedOrSaved(ev.uri, ev.text)
	case evChanged:
		c.handleChanged(ev.uri, ev.text)
	case evParse:
		c.handleParse(ctx, ev.uri)
	case evClosed:
		c.handleClosed(ev.uri)
	case evResolveReady:
		c.handleResolveReady(ctx, ev.uri, ev.rev)
	case evResolved:
		c.handleResolved(ev.uri, ev.rev, ev.resolved)
	case evResolverError:
		c.handleResolverError(ev.uri, ev.resolveErr)
	case evLockChanged:
		c.handleLockChanged()
	case evAudited:
		c.handleAudited(ev.audited)
	case evHover:
		doc := c.workspace.Get(ev.uri)
		var h *Hover
		if doc != nil {
			h = HoverAt(doc, c.workspace, ev.pos)
		}
		ev.hoverReply <- h
	case evCompletion:
		doc := c.workspace.Get(ev.uri)
		var l *CompletionList
		if doc != nil {
			l = CompletionAt(ctx, doc, c.registry, c.registryName, ev.pos)
		}
		ev.completionReply <- l
	case evCodeAction:
		doc := c.workspace.Get(ev.uri)
		var a []CodeAction
		if doc != nil {
			a = CodeActionsAt(doc, ev.pos)
		}
		ev.codeActionReply <- a
	case evGoToDef:
		doc := c.workspace.Get(ev.uri)
		var l *Location
		if doc != nil {
			l = GoToDefinitionAt(c.workspace, doc, ev.pos)
		}
		ev.gotoDefReply <- l
	}
}

// handleOpenedOrSaved reconciles the document and schedules an interactive
// (short-delay) resolve for its new revision.
func (c *Controller) handleOpenedOrSaved(uri, text string) {
	doc, ok := c.reconcile(uri, text)
	if !ok {
		return
	}
	c.debouncer.Interactive(uri, doc.Revision)
}

// handleChanged additionally clears stale audit diagnostics (a solution
// offered against a now-edited requirement may no longer apply) and
// schedules a background (longer, backing-off) resolve rather than an
// interactive one, so a burst of keystrokes doesn't hammer the resolver.
func (c *Controller) handleChanged(uri, text string) {
	c.diagnostics.Clear(uri, diagnostic.CategoryAudit)
	doc, ok := c.reconcile(uri, text)
	if !ok {
		return
	}
	c.debouncer.Background(uri, doc.Revision)
}

// handleParse reconciles from disk without ever scheduling a resolve:
// this event reflects a file that changed outside the editor, not an
// edit the user is waiting to see resolved live.
func (c *Controller) handleParse(ctx context.Context, uri string) {
	if c.fileReader == nil {
		return
	}
	text, err := c.fileReader.ReadFile(ctx, uri)
	if err != nil {
		log.Printf("controller: reading %s: %v", uri, err)
		return
	}
	c.reconcile(uri, text)
}

func (c *Controller) handleClosed(uri string) {
	c.workspace.Remove(uri)
	c.diagnostics.ClearAll(uri)
	c.publisher.PublishDecorations(uri, nil, nil)
}

// handleResolveReady spawns a one-off resolve for (uri, rev), mirroring
// appraiser.rs's start_resolve: a fire-and-forget task, not a persistent
// worker, since a resolve is rare enough (already debounced) that pooling
// it would add complexity without reducing latency.
func (c *Controller) handleResolveReady(ctx context.Context, uri string, rev int) {
	doc := c.workspace.Get(uri)
	if doc == nil || doc.Revision != rev {
		return // superseded by a newer edit, or the document was closed
	}
	go c.runResolve(ctx, uri, rev)
}

func (c *Controller) runResolve(ctx context.Context, uri string, rev int) {
	output, cerr, err := resolver.Run(ctx, c.resolverClient, c.rootManifestPath)
	if err != nil {
		log.Printf("controller: resolve for %s: %v", uri, err)
		return
	}
	if cerr != nil {
		c.post(ctx, event{kind: evResolverError, uri: uri, rev: rev, resolveErr: cerr})
		return
	}
	c.post(ctx, event{kind: evResolved, uri: uri, rev: rev, resolved: output})
}

func (c *Controller) handleResolved(uri string, rev int, output *resolver.Output) {
	doc := c.workspace.Get(uri)
	if doc == nil || doc.Revision < rev {
		return
	}

	c.workspace.MemberNames = output.MemberNames
	if c.auditTask != nil && !c.cfg.AuditDisabled() {
		c.auditTask.SetMembers(output.MemberNames)
		c.auditTask.Trigger()
	}

	c.diagnostics.Clear(uri, diagnostic.CategoryResolver)
	doc.ApplyResolved(rev, output.ByDependencyID)
	c.publishDiagnostics(uri)
	c.publishDecorations(doc)

	if len(doc.Dirty) > 0 {
		c.debouncer.Background(uri, doc.Revision)
	}
}

func (c *Controller) handleResolverError(uri string, cerr *resolver.ClassifiedError) {
	doc := c.workspace.Get(uri)
	if doc == nil {
		return
	}
	diags := resolver.Diagnostics(cerr, doc.Deps, "$root")
	c.diagnostics.Clear(uri, diagnostic.CategoryResolver)
	c.diagnostics.Set(uri, diagnostic.CategoryResolver, diags)
	c.publishDiagnostics(uri)
}

// handleLockChanged marks every open document's dependencies dirty and
// reschedules their resolves, since the lock-file changing out from under
// the editor (e.g. `orizon-pkg add` run from a terminal) means any
// previously resolved data is potentially stale.
func (c *Controller) handleLockChanged() {
	for _, doc := range c.workspace.All() {
		c.diagnostics.Clear(doc.URI, diagnostic.CategoryAudit)
		if doc.Deps == nil {
			continue
		}
		for _, dep := range doc.Deps.All() {
			doc.Dirty[dep.ID] = document.DirtyMark{Revision: doc.Revision}
		}
		c.debouncer.Background(doc.URI, doc.Revision)
	}
	if c.auditTask != nil && !c.cfg.AuditDisabled() {
		c.auditTask.Trigger()
	}
}

func (c *Controller) handleAudited(res audittask.Result) {
	if res.Err != nil {
		log.Printf("controller: audit run failed: %v", res.Err)
		return
	}
	root := c.workspace.Root()
	if root == nil {
		return
	}
	diags := audit.Diagnostics(res.ByPackage, root.Deps)
	c.diagnostics.Clear(root.URI, diagnostic.CategoryAudit)
	c.diagnostics.Set(root.URI, diagnostic.CategoryAudit, diags)
	c.publishDiagnostics(root.URI)
}

func (c *Controller) reconcile(uri, text string) (*document.Document, bool) {
	doc := c.workspace.Get(uri)
	if doc == nil {
		doc = document.NewDocument(uri)
		c.workspace.Put(doc)
	}
	c.diagnostics.Clear(uri, diagnostic.CategoryParse)
	ok := doc.Reconcile(text)

	diags := make([]diagnostic.Diagnostic, 0, len(doc.ParseErrors))
	for _, e := range doc.ParseErrors {
		diags = append(diags, diagnostic.Diagnostic{
			ID:       fmt.Sprintf("$parse.%d.%d", e.Range.Start.Line, e.Range.Start.Character),
			Range:    e.Range,
			Severity: diagnostic.SeverityError,
			Message:  e.Message,
			Source:   "parse",
		})
	}
	c.diagnostics.Set(uri, diagnostic.CategoryParse, diags)
	c.publishDiagnostics(uri)
	return doc, ok
}

func (c *Controller) publishDiagnostics(uri string) {
	if snap, changed := c.diagnostics.Publish(uri); changed {
		c.publisher.PublishDiagnostics(snap)
	}
}

func (c *Controller) publishDecorations(doc *document.Document) {
	hints := decoration.HintsForDocument(doc)
	inlay, custom := decoration.Dispatch(c.cfg, doc.Symbols, hints)
	c.publisher.PublishDecorations(doc.URI, inlay, custom)
}
