package layout

import "github.com/andrewchen-dev/minibrowser/dom"

// Box is implemented by BlockBox and InlineBox. Go has no built-in sum
// type, so the box tree's "BlockBox | InlineBox" union from the layout
// model is expressed as this two-member interface plus a type switch at
// each consumer (normalizeChildren, the positioner, the painter).
type Box interface {
	isBox()
}

// BoxOrigin distinguishes a box that came from a real element from one
// synthesized to keep a block's children uniformly block or uniformly
// inline (§3 box-tree invariant).
type BoxOrigin int

const (
	FromElement BoxOrigin = iota
	Anonymous
)

// BlockBox is a block-level box. Children is either entirely BlockBoxes or
// entirely InlineBoxes; normalizeChildren enforces that after construction.
type BlockBox struct {
	Origin   BoxOrigin
	Object   *Object // nil when Origin == Anonymous
	Style    ComputedStyle
	Children []Box
}

func (*BlockBox) isBox() {}

// InlineBox is an inline-level box. A box with a single text-node child
// folds that text directly into Text, leaving Children empty; otherwise
// Children holds further nested InlineBoxes.
type InlineBox struct {
	Origin   BoxOrigin
	Object   *Object
	Style    ComputedStyle
	Text     string
	Children []*InlineBox
}

func (*InlineBox) isBox() {}

// BuildBoxTree constructs a BlockBox tree rooted at obj, which must itself resolve
// to DisplayBlock (the body element, ordinarily).
func BuildBoxTree(obj *Object) *BlockBox {
	root := &BlockBox{Origin: FromElement, Object: obj, Style: obj.Style}
	root.Children = buildChildren(obj)
	return root
}

// buildChildren converts obj's layout-object children into boxes and
// normalizes the result to satisfy the uniform block/inline invariant.
func buildChildren(obj *Object) []Box {
	var raw []Box
	for _, child := range obj.Children() {
		switch child.Style.Display {
		case DisplayBlock:
			b := &BlockBox{Origin: FromElement, Object: child, Style: child.Style}
			b.Children = buildChildren(child)
			raw = append(raw, b)
		case DisplayInline:
			raw = append(raw, buildInline(child))
		}
	}
	return normalizeChildren(raw)
}

// buildInline builds an InlineBox for an inline-level layout object. A lone
// text child folds into Text; further inline children nest normally.
//
// TODO: a block-level child of an inline element should promote the whole
// inline to an anonymous block wrapping its content (the "block inside
// inline" case). Block children are currently skipped rather than
// reparented, so their content is not laid out. The tree constructor does
// produce this case: "<a><p>text</p></a>" leaves the <p> as a child of the
// <a>.
func buildInline(obj *Object) *InlineBox {
	ib := &InlineBox{Origin: FromElement, Object: obj, Style: obj.Style}
	if obj.Node.Type == dom.TextNode {
		ib.Text = obj.Text()
		return ib
	}
	if c := obj.FirstChild; c != nil && c.NextSibling == nil && c.Node.Type == dom.TextNode {
		ib.Text = c.Text()
		return ib
	}
	for _, child := range obj.Children() {
		if child.Style.Display == DisplayInline {
			ib.Children = append(ib.Children, buildInline(child))
		}
	}
	return ib
}

// normalizeChildren enforces the block-tree invariant: if raw mixes blocks
// and inlines, consecutive runs of inline boxes are coalesced into a single
// anonymous BlockBox wrapping them (§4.6).
func normalizeChildren(raw []Box) []Box {
	allBlock, allInline := true, true
	for _, b := range raw {
		switch b.(type) {
		case *BlockBox:
			allInline = false
		case *InlineBox:
			allBlock = false
		}
	}
	if allBlock || allInline || len(raw) == 0 {
		return raw
	}

	var out []Box
	var run []Box
	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, &BlockBox{Origin: Anonymous, Children: run})
		run = nil
	}
	for _, b := range raw {
		if _, ok := b.(*InlineBox); ok {
			run = append(run, b)
			continue
		}
		flush()
		out = append(out, b)
	}
	flush()
	return out
}
