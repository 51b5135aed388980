// Package dom provides the Document Object Model tree structure.
// It represents a parsed HTML document as a tree of nodes owned by a Window.
//
// Spec references:
// - DOM Level 2 Core: https://www.w3.org/TR/DOM-Level-2-Core/
// - HTML5 §12.2.6 Tree construction (node types produced by the parser)
package dom

// NodeType represents the type of a DOM node.
type NodeType int

const (
	// DocumentNode represents the root document node.
	DocumentNode NodeType = iota
	// ElementNode represents an HTML element (e.g., <div>, <p>).
	ElementNode
	// TextNode represents text content within an element.
	TextNode
)

// ElementKind enumerates the element tags the layout pipeline cares about.
// Tags outside this set still parse and live in the tree correctly; they
// are tracked as KindOther and carry their literal name in Element.TagName.
type ElementKind int

const (
	KindOther ElementKind = iota
	KindHTML
	KindHead
	KindBody
	KindP
	KindH1
	KindH2
	KindA
	KindImg
	KindTextarea
	KindScript
	KindStyle
	KindSVG
)

// KindForTag maps a lowercase tag name to its ElementKind.
// HTML5 §12.1.2: tag names are ASCII case-insensitive; the tree constructor
// is responsible for lowercasing before calling this.
func KindForTag(tag string) ElementKind {
	switch tag {
	case "html":
		return KindHTML
	case "head":
		return KindHead
	case "body":
		return KindBody
	case "p":
		return KindP
	case "h1":
		return KindH1
	case "h2":
		return KindH2
	case "a":
		return KindA
	case "img":
		return KindImg
	case "textarea":
		return KindTextarea
	case "script":
		return KindScript
	case "style":
		return KindStyle
	case "svg":
		return KindSVG
	default:
		return KindOther
	}
}

// Namespace identifies the namespace an element was created in.
// Only HTML and SVG namespaces are modeled; foreign content handling
// (§4.2) is limited to SVG.
type Namespace int

const (
	HTMLNamespace Namespace = iota
	SVGNamespace
)

// Attribute is a single name/value pair on an element.
// HTML5 §12.2.5.33: attribute names and values are built character-by-
// character during tokenization, then carried verbatim onto the element.
type Attribute struct {
	Name  string
	Value string
}

// Element holds the data specific to an ElementNode.
type Element struct {
	Kind       ElementKind
	TagName    string
	Namespace  Namespace
	Attributes []Attribute
}

// GetAttribute returns the value of the named attribute, or "" if absent.
func (e *Element) GetAttribute(name string) string {
	for _, a := range e.Attributes {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// SetAttribute sets an attribute unless one of that name is already present.
// HTML5 §12.2.5.33: if an attribute name is encountered twice on one tag,
// the first occurrence wins; SetAttribute preserves that by only appending
// when the name isn't already present.
func (e *Element) SetAttribute(name, value string) {
	for i := range e.Attributes {
		if e.Attributes[i].Name == name {
			return
		}
	}
	e.Attributes = append(e.Attributes, Attribute{Name: name, Value: value})
}

// ID returns the element's id attribute.
func (e *Element) ID() string {
	return e.GetAttribute("id")
}

// Classes returns the element's class names, space-split.
func (e *Element) Classes() []string {
	class := e.GetAttribute("class")
	if class == "" {
		return nil
	}
	var classes []string
	start := 0
	for i := 0; i <= len(class); i++ {
		if i == len(class) || class[i] == ' ' {
			if i > start {
				classes = append(classes, class[start:i])
			}
			start = i + 1
		}
	}
	return classes
}

// Node is a single node in a DOM tree.
//
// Ownership (§3, §4.4): strong edges point downward only (parent -> first
// child, sibling -> next sibling). Parent, LastChild and PrevSibling are
// non-owning back-references kept in sync by AppendChild. Every node in a
// tree shares the same Window.
type Node struct {
	Type NodeType

	// Element is non-nil iff Type == ElementNode.
	Element *Element
	// Text holds the character data iff Type == TextNode.
	Text string

	Window *Window

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node
}

// Window owns a single document tree. It is the per-parse root of
// ownership: every Node reachable from Document points back to it.
type Window struct {
	Document *Node
}

// NewWindow creates a Window with a fresh, empty document node.
func NewWindow() *Window {
	w := &Window{}
	w.Document = &Node{Type: DocumentNode, Window: w}
	return w
}

// CreateElement creates a detached element node owned by w.
// HTML5 §12.2.6.1: "create an element for a token" (simplified here to
// namespace and tag name; attributes are copied by the caller).
func (w *Window) CreateElement(tagName string, ns Namespace) *Node {
	return &Node{
		Type:   ElementNode,
		Window: w,
		Element: &Element{
			Kind:      KindForTag(tagName),
			TagName:   tagName,
			Namespace: ns,
		},
	}
}

// CreateTextNode creates a detached text node owned by w.
func (w *Window) CreateTextNode(data string) *Node {
	return &Node{Type: TextNode, Window: w, Text: data}
}

// AppendChild appends child as the last child of n.
//
// Invariants enforced (§3, §4.4):
//   - parent and child must share the same Window.
//   - child must currently be detached (no parent, no siblings).
func (n *Node) AppendChild(child *Node) {
	if child.Window != n.Window {
		panic("dom: AppendChild across different Windows")
	}
	if child.Parent != nil || child.PrevSibling != nil || child.NextSibling != nil {
		panic("dom: AppendChild of an already-attached node")
	}

	child.Parent = n
	if n.LastChild == nil {
		n.FirstChild = child
		n.LastChild = child
	} else {
		n.LastChild.NextSibling = child
		child.PrevSibling = n.LastChild
		n.LastChild = child
	}
}

// Children returns the node's children as a slice, in document order.
// Provided for callers that want random access; internal traversal uses
// FirstChild/NextSibling directly to keep the tree allocation-free.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// FirstDescendantByKind performs a pre-order depth-first search for the
// first element of the given kind, including n itself.
func (n *Node) FirstDescendantByKind(kind ElementKind) *Node {
	if n.Type == ElementNode && n.Element.Kind == kind {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := c.FirstDescendantByKind(kind); found != nil {
			return found
		}
	}
	return nil
}

// TextContent returns the concatenation of all descendant text nodes, in
// document order.
func (n *Node) TextContent() string {
	var b []byte
	n.collectText(&b)
	return string(b)
}

func (n *Node) collectText(b *[]byte) {
	if n.Type == TextNode {
		*b = append(*b, n.Text...)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.collectText(b)
	}
}
