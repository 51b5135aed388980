// Package layout walks a parsed DOM tree through the stages that turn it
// into a flat, paintable display-item list: layout objects, box tree, line
// splitting, bottom-up positioning, and painting.
package layout

import (
	"github.com/andrewchen-dev/minibrowser/css"
	"github.com/andrewchen-dev/minibrowser/dom"
)

// Display is the resolved CSS display value for a layout object.
type Display int

const (
	DisplayBlock Display = iota
	DisplayInline
	DisplayNone
)

// ComputedStyle carries the subset of style information the rest of the
// pipeline needs. Only Display is resolved from a policy today; Stylesheet
// is threaded through so a future selector-matching pass has somewhere to
// plug in.
type ComputedStyle struct {
	Display Display
}

// Object is one node of the layout tree: a DOM node paired with its
// resolved style, linked to its first child and next sibling the same way
// dom.Node is.
type Object struct {
	Node  *dom.Node
	Style ComputedStyle

	FirstChild  *Object
	NextSibling *Object
}

// defaultDisplay maps an element kind to its default display, per the
// policy in effect until selector matching lands: a fixed table rather than
// cascade resolution.
func defaultDisplay(n *dom.Node) Display {
	if n.Type == dom.TextNode {
		return DisplayInline
	}
	if n.Type != dom.ElementNode {
		return DisplayNone
	}
	switch n.Element.Kind {
	case dom.KindA, dom.KindTextarea:
		return DisplayInline
	case dom.KindBody, dom.KindH1, dom.KindH2, dom.KindP:
		return DisplayBlock
	case dom.KindHead, dom.KindScript, dom.KindStyle:
		return DisplayNone
	default:
		return DisplayBlock
	}
}

// Build walks root (typically a <body> element) and its descendants,
// producing a parallel layout-object tree with DisplayNone subtrees pruned.
// stylesheet is accepted so a future pass can match selectors against it;
// the current policy only consults defaultDisplay.
func Build(root *dom.Node, stylesheet *css.Stylesheet) *Object {
	_ = stylesheet
	return buildObject(root)
}

func buildObject(n *dom.Node) *Object {
	display := defaultDisplay(n)
	if display == DisplayNone {
		return nil
	}

	obj := &Object{Node: n, Style: ComputedStyle{Display: display}}

	var first, last *Object
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		child := buildObject(c)
		if child == nil {
			continue
		}
		if first == nil {
			first = child
		} else {
			last.NextSibling = child
		}
		last = child
	}
	obj.FirstChild = first
	return obj
}

// Children returns obj's layout-object children as a slice, in order.
func (obj *Object) Children() []*Object {
	var out []*Object
	for c := obj.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Text returns the object's own text, for a layout object over a text node.
func (obj *Object) Text() string {
	if obj.Node.Type != dom.TextNode {
		return ""
	}
	return obj.Node.Text
}
