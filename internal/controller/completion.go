package controller

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
	"github.com/orizon-lang/manifest-lsp/internal/registryclient"
)

// TextEdit replaces the text between Start and End with NewText, the same
// inner-quoted-string replacement completion.rs issues rather than
// replacing the whole quoted literal.
type TextEdit struct {
	Start   manifest.Position
	End     manifest.Position
	NewText string
}

// CompletionItem is one offered completion, plain enough to serialize
// directly into an LSP CompletionItem once a transport wires it up.
type CompletionItem struct {
	Label    string
	SortText string
	Detail   string
	Edit     TextEdit
}

// CompletionList is the response to one completion request; IsIncomplete
// mirrors completion.rs's flag for results fetched from a registry rather
// than resolved data, so the client knows to re-ask as the user keeps typing.
type CompletionList struct {
	Items        []CompletionItem
	IsIncomplete bool
}

// CompletionAt dispatches a completion request the way completion.rs's
// completion() function matches on NodeKind: version/simple dependency
// values complete from resolved available versions (falling back to the
// registry when nothing has resolved yet), feature values complete from
// resolved features (same fallback), anything else yields nil.
func CompletionAt(ctx context.Context, doc *document.Document, registry registryclient.Client, registryName string, pos manifest.Position) *CompletionList {
	if doc.Symbols == nil {
		return nil
	}
	node := doc.Symbols.FindAtPosition(pos)
	if node == nil || !node.IsValue() {
		return nil
	}

	switch node.Role {
	case manifest.RoleVersion:
		return completeVersion(ctx, doc, registry, registryName, node)
	case manifest.RoleFeatureElement:
		return completeFeature(ctx, doc, registry, registryName, node)
	default:
		return nil
	}
}

// innerQuoteRange narrows a quoted value node's range to the text between
// the quotes, matching completion.rs's (start.character+1, end.character-1)
// replacement span. Assumes node.Range spans the literal including its
// quotes (node.Text holds the unquoted value); a
// node narrower than two characters (malformed literal) is left unedited.
func innerQuoteRange(node *manifest.Node) (manifest.Position, manifest.Position) {
	start := node.Range.Start
	end := node.Range.End
	if node.Range.SameLine() && end.Character-start.Character >= 2 {
		start.Character++
		end.Character--
	}
	return start, end
}

func completeVersion(ctx context.Context, doc *document.Document, registry registryclient.Client, registryName string, node *manifest.Node) *CompletionList {
	dep := dependencyOwning(doc, node)
	if dep == nil {
		return nil
	}
	start, end := innerQuoteRange(node)

	if rd, ok := doc.Resolved[dep.ID]; ok && len(rd.AvailableVersions) > 0 {
		return versionCompletionFromList(rd.AvailableVersions, start, end, false)
	}

	if registry == nil {
		return nil
	}
	versions, err := registry.Versions(ctx, registryName, dep.Name)
	if err != nil || len(versions) == 0 {
		return nil
	}
	texts := make([]string, len(versions))
	for i, v := range versions {
		texts[i] = v.Original()
	}
	return versionCompletionFromList(texts, start, end, true)
}

// versionCompletionFromList builds a CompletionList in descending version
// order, sort-texts zero-padded so editors that re-sort alphabetically
// still present newest first, mirroring completion.rs's
// version_completion_from_list.
func versionCompletionFromList(versions []string, start, end manifest.Position, incomplete bool) *CompletionList {
	items := make([]CompletionItem, len(versions))
	width := len(fmt.Sprintf("%d", len(versions)))
	for i, v := range versions {
		items[i] = CompletionItem{
			Label:    v,
			SortText: fmt.Sprintf("%0*d", width, i),
			Edit:     TextEdit{Start: start, End: end, NewText: v},
		}
	}
	return &CompletionList{Items: items, IsIncomplete: incomplete}
}

func completeFeature(ctx context.Context, doc *document.Document, registry registryclient.Client, registryName string, node *manifest.Node) *CompletionList {
	dep := dependencyOwning(doc, node)
	if dep == nil {
		return nil
	}
	start, end := innerQuoteRange(node)

	if rd, ok := doc.Resolved[dep.ID]; ok && len(rd.Features) > 0 {
		return featureCompletionFromKeys(rd.Features, start, end, false)
	}

	if registry == nil {
		return nil
	}
	declared := ""
	if fv, ok := dep.Fields[manifest.FieldVersion]; ok {
		declared = fv.Text
	}
	if declared == "" {
		return nil
	}
	versions, err := registry.Versions(ctx, registryName, dep.Name)
	if err != nil || len(versions) == 0 {
		return nil
	}
	// Registry fallback has no per-version feature index available through
	// the Client boundary (registryclient.Client exposes only version
	// listing); offer no items rather than fabricate feature names.
	_ = versions
	return &CompletionList{IsIncomplete: true}
}

// featureCompletionFromKeys builds a CompletionList from a resolved
// feature map's keys, alphabetically, mirroring completion.rs's
// feature_completion_from_keys.
func featureCompletionFromKeys(features map[string][]string, start, end manifest.Position, incomplete bool) *CompletionList {
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]CompletionItem, len(names))
	for i, name := range names {
		detail := ""
		if enables := features[name]; len(enables) > 0 {
			detail = "enables " + strings.Join(enables, ", ")
		}
		items[i] = CompletionItem{
			Label:    name,
			SortText: name,
			Detail:   detail,
			Edit:     TextEdit{Start: start, End: end, NewText: name},
		}
	}
	return &CompletionList{Items: items, IsIncomplete: incomplete}
}
