package controller

import (
	"fmt"

	"github.com/orizon-lang/manifest-lsp/internal/document"
	"github.com/orizon-lang/manifest-lsp/internal/manifest"
	"github.com/orizon-lang/manifest-lsp/internal/semver"
)

// CodeActionKind distinguishes a widening rewrite (refactor, not required)
// from a version bump that resolves a problem (quickfix).
type CodeActionKind int

const (
	KindRefactor CodeActionKind = iota
	KindQuickfix
)

// CodeAction is one offered rewrite of a version requirement literal.
type CodeAction struct {
	Title string
	Kind  CodeActionKind
	Edit  TextEdit
}

// CodeActionsAt dispatches the way code_action.rs's code_action_dependency
// matches on the declaration's resolved state, offering version-bump
// rewrites for a version/simple dependency value. Everything else (no
// resolved data, a non-registry source, an unparseable requirement) yields
// nil, matching the Rust match's early `return None` arms.
func CodeActionsAt(doc *document.Document, pos manifest.Position) []CodeAction {
	if doc.Symbols == nil {
		return nil
	}
	node := doc.Symbols.FindAtPosition(pos)
	if node == nil || !node.IsValue() || node.Role != manifest.RoleVersion {
		return nil
	}

	dep := dependencyOwning(doc, node)
	if dep == nil {
		return nil
	}
	rd, ok := doc.Resolved[dep.ID]
	if !ok {
		return nil
	}

	declared := ""
	if fv, ok := dep.Fields[manifest.FieldVersion]; ok {
		declared = fv.Text
	} else if dep.Style == manifest.StyleSimple {
		declared = node.Text
	}
	if _, err := semver.ParseRequirement(declared); err != nil {
		return nil // unparseable requirement: no code actions
	}
	precision := semver.InspectPrecision(declared)

	start, end := innerQuoteRange(node)
	edit := func(text string) TextEdit { return TextEdit{Start: start, End: end, NewText: text} }

	var actions []CodeAction
	widen := func(v *semver.Version) {
		if precision.HasPatch {
			actions = append(actions, CodeAction{
				Title: fmt.Sprintf("%d.%d", v.Major(), v.Minor()),
				Kind:  KindRefactor,
				Edit:  edit(fmt.Sprintf("%d.%d", v.Major(), v.Minor())),
			})
		}
		if precision.HasMinor {
			actions = append(actions, CodeAction{
				Title: fmt.Sprintf("%d", v.Major()),
				Kind:  KindRefactor,
				Edit:  edit(fmt.Sprintf("%d", v.Major())),
			})
		}
	}
	bump := func(v *semver.Version) {
		actions = append(actions, CodeAction{Title: v.Original(), Kind: KindQuickfix, Edit: edit(v.Original())})
	}

	switch decorationState(rd) {
	case stateLatest:
		latest, lerr := semver.Parse(rd.LatestAbsolute)
		if lerr != nil {
			return nil
		}
		widen(latest)
	case stateCompatibleLatest:
		latest, lerr := semver.Parse(rd.LatestAbsolute)
		if lerr != nil {
			return nil
		}
		widen(latest)
		bump(latest)
	case stateNoncompatibleLatest:
		if latest, lerr := semver.Parse(rd.LatestAbsolute); lerr == nil {
			bump(latest)
		}
	case stateMixedUpgradeable:
		if matched, merr := semver.Parse(rd.LatestCompatible); merr == nil {
			bump(matched)
		}
		if latest, lerr := semver.Parse(rd.LatestAbsolute); lerr == nil {
			bump(latest)
		}
	default:
		return nil
	}

	return actions
}

// decorationState classifies a resolved version declaration the way
// decoration.rs's VersionDecoration enum does, from the fields this
// server's simpler ResolvedDependency carries instead of a full
// cargo::core::Summary pair.
type decorationState int

const (
	stateNotParsed decorationState = iota
	stateLocal
	stateNotInstalled
	stateLatest
	stateCompatibleLatest
	stateNoncompatibleLatest
	stateMixedUpgradeable
)

func decorationState(rd *document.ResolvedDependency) decorationState {
	if rd.SourceKind != document.SourceRegistry && rd.SourceKind != document.SourceAlternateRegistry {
		return stateLocal
	}
	if !rd.HasInstalled {
		return stateNotInstalled
	}
	if rd.LatestAbsolute == "" {
		return stateNotInstalled
	}
	if rd.InstalledVersion == rd.LatestAbsolute {
		return stateLatest
	}
	if rd.LatestCompatible == "" {
		return stateNoncompatibleLatest
	}
	if rd.InstalledVersion == rd.LatestCompatible {
		return stateCompatibleLatest
	}
	return stateMixedUpgradeable
}
