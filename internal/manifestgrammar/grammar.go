// Package manifestgrammar is the manifest-grammar parser black box: it
// turns package.oriz source text into a DOM annotated with byte ranges.
// Nothing outside this package inspects TOML syntax directly; the walker in
// internal/manifest consumes only the Node tree this package produces.
package manifestgrammar

import (
	"fmt"

	"github.com/pelletier/go-toml/v2/unstable"
)

// Kind classifies a DOM node the way the rest of the server cares about.
type Kind int

const (
	KindDocument Kind = iota
	KindTable
	KindArrayTable
	KindKeyValue
	KindKey
	KindString
	KindArray
	KindInlineTable
	KindBool
	KindOther
)

// Range is a half-open byte range [Start, End) into the source text.
type Range struct {
	Start int
	End   int
}

// Node is one element of the parsed manifest DOM.
type Node struct {
	Kind Kind
	Text string // decoded text for leaf/key nodes (string values without their quotes)
	Range Range

	// Key holds the dotted key parts for KindTable, KindArrayTable, and
	// KindKeyValue nodes (e.g. ["target","cfg(windows)","dependencies"]).
	Key []*Node

	// Children holds body entries: KindKeyValue entries for a table,
	// array elements for KindArray, or inline-table entries for
	// KindInlineTable. For KindKeyValue it holds exactly the value node.
	Children []*Node
}

// Value returns the single value child of a KindKeyValue node, or nil.
func (n *Node) Value() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// ParseError reports a grammar error at a byte offset.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// Parse parses package.oriz source text into a DOM. Table headers become
// KindTable/KindArrayTable nodes whose Key is the dotted key parts and
// whose Children are the table's body KindKeyValue entries; each entry's
// own Key is its dotted key parts and its single Children element is the
// value node. This mirrors the shape the walker expects from taplo's DOM
// in the original implementation.
func Parse(text string) (*Node, []*ParseError) {
	p := &unstable.Parser{}
	p.Reset([]byte(text))

	root := &Node{Kind: KindDocument, Range: Range{0, len(text)}}
	var errs []*ParseError
	var currentTable *Node

	for p.NextExpression() {
		expr := p.Expression()
		if expr == nil {
			continue
		}
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			kind := KindTable
			if expr.Kind == unstable.ArrayTable {
				kind = KindArrayTable
			}
			tbl := &Node{
				Kind:  kind,
				Range: rangeOf(expr, text),
			}
			tbl.Key = keyParts(expr.Key(), text)
			root.Children = append(root.Children, tbl)
			currentTable = tbl
		case unstable.KeyValue:
			kv := &Node{Kind: KindKeyValue, Range: rangeOf(expr, text)}
			kv.Key = keyParts(expr.Key(), text)
			kv.Children = []*Node{convertValue(expr.Value(), text)}

			target := currentTable
			if target == nil {
				target = root
			}
			target.Children = append(target.Children, kv)
		default:
			// Comments and other top-level noise are ignored; this DOM
			// only carries the structural nodes the walker cares about.
		}
	}
	if err := p.Error(); err != nil {
		errs = append(errs, &ParseError{Offset: 0, Message: err.Error()})
	}
	return root, errs
}

func keyParts(it unstable.Iterator, text string) []*Node {
	var parts []*Node
	for it.Next() {
		part := it.Node()
		parts = append(parts, &Node{
			Kind:  KindKey,
			Text:  string(part.Data),
			Range: rangeOf(part, text),
		})
	}
	return parts
}

func convertValue(v *unstable.Node, text string) *Node {
	if v == nil {
		return &Node{Kind: KindOther}
	}
	switch v.Kind {
	case unstable.String:
		return &Node{Kind: KindString, Text: string(v.Data), Range: rangeOf(v, text)}
	case unstable.Bool:
		return &Node{Kind: KindBool, Text: string(v.Data), Range: rangeOf(v, text)}
	case unstable.Array:
		arr := &Node{Kind: KindArray, Range: rangeOf(v, text)}
		it := v.Children()
		for it.Next() {
			arr.Children = append(arr.Children, convertValue(it.Node(), text))
		}
		return arr
	case unstable.InlineTable:
		tbl := &Node{Kind: KindInlineTable, Range: rangeOf(v, text)}
		it := v.Children()
		for it.Next() {
			entry := it.Node()
			kv := &Node{Kind: KindKeyValue, Range: rangeOf(entry, text)}
			kv.Key = keyParts(entry.Key(), text)
			kv.Children = []*Node{convertValue(entry.Value(), text)}
			tbl.Children = append(tbl.Children, kv)
		}
		return tbl
	default:
		return &Node{Kind: KindOther, Text: string(v.Data), Range: rangeOf(v, text)}
	}
}

func rangeOf(n *unstable.Node, text string) Range {
	start := int(n.Raw.Offset)
	end := start + int(n.Raw.Length)
	if end > len(text) {
		end = len(text)
	}
	return Range{Start: start, End: end}
}
