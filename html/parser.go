// Package html tree construction: HTML5 §12.2.6, reduced to the insertion
// modes a minimal renderer needs (Initial, BeforeHtml, BeforeHead, InHead,
// AfterHead, InBody, Text, AfterBody, AfterAfterBody) plus SVG foreign
// content.
package html

import "github.com/andrewchen-dev/minibrowser/dom"

// insertionMode names the tree constructor states driven below (§12.2.6.4).
type insertionMode int

const (
	modeInitial insertionMode = iota
	modeBeforeHtml
	modeBeforeHead
	modeInHead
	modeAfterHead
	modeInBody
	modeText
	modeAfterBody
	modeAfterAfterBody
)

// foreignBreakoutTags lists the start tags that force foreign content back
// into the ordinary HTML insertion modes (HTML5 §12.2.6.5). svg is the only
// foreign namespace modeled here, and none of its elements are treated as
// HTML integration points, so short of these breakout tags and a matching
// </svg>, everything inside svg content stays foreign.
var foreignBreakoutTags = map[string]bool{
	"b": true, "big": true, "blockquote": true, "body": true, "br": true,
	"center": true, "code": true, "dd": true, "div": true, "dl": true,
	"dt": true, "em": true, "embed": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "head": true, "hr": true, "i": true,
	"img": true, "li": true, "listing": true, "menu": true, "meta": true,
	"nobr": true, "ol": true, "p": true, "pre": true, "ruby": true, "s": true,
	"small": true, "span": true, "strong": true, "strike": true, "sub": true,
	"sup": true, "table": true, "tt": true, "u": true, "ul": true, "var": true,
}

// voidElements never receive children and are not pushed onto the stack of
// open elements (HTML5 §12.1.2).
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// defaultScopeBoundary is the element-kind list that bounds the "has an
// element in scope" algorithm (HTML5 §12.2.4.2), restricted to the tags
// this tree constructor knows about.
var defaultScopeBoundary = map[dom.ElementKind]bool{
	dom.KindHTML: true,
}

// buttonScopeBoundary adds <button>-scope's extra boundary (p, modeled via
// KindP since this constructor has no separate KindButton).
var buttonScopeBoundary = map[dom.ElementKind]bool{
	dom.KindHTML: true,
	dom.KindP:    true,
}

// parser drives the tokenizer through the insertion-mode state machine and
// builds a dom.Window's document tree.
type parser struct {
	tok *Tokenizer
	win *dom.Window

	mode         insertionMode
	originalMode insertionMode // saved around Text mode (§12.2.6.4 "generic text element parsing")

	openElements []*dom.Node
	headElement  *dom.Node

	// foreignDepth counts how many nested svg-namespaced elements are
	// currently open; 0 means the insertion point is in HTML content.
	foreignDepth int
}

// Parse tokenizes and parses input into a fresh document tree.
func Parse(input string) *dom.Window {
	p := &parser{
		tok: NewTokenizer(input),
		win: dom.NewWindow(),
		mode: modeInitial,
	}
	for {
		tok := p.tok.Next()
		p.dispatch(tok)
		if tok.Type == EOFToken {
			break
		}
	}
	return p.win
}

func (p *parser) current() *dom.Node {
	if len(p.openElements) == 0 {
		return nil
	}
	return p.openElements[len(p.openElements)-1]
}

func (p *parser) push(n *dom.Node) { p.openElements = append(p.openElements, n) }

func (p *parser) pop() *dom.Node {
	n := p.current()
	p.openElements = p.openElements[:len(p.openElements)-1]
	return n
}

// dispatch implements the "tree construction dispatcher" (§12.2.6.1): once
// inside foreign content, most tokens are processed by the foreign-content
// rules instead of by the current insertion mode.
func (p *parser) dispatch(tok Token) {
	if p.foreignDepth > 0 {
		if !p.foreignBreaksOut(tok) {
			p.processForeignContent(tok)
			return
		}
		if tok.Type == StartTagToken {
			// A breakout start tag closes every open foreign element before
			// the HTML insertion mode handles it.
			for p.foreignDepth > 0 {
				p.pop()
				p.foreignDepth--
			}
		}
	}
	switch p.mode {
	case modeInitial:
		p.initial(tok)
	case modeBeforeHtml:
		p.beforeHtml(tok)
	case modeBeforeHead:
		p.beforeHead(tok)
	case modeInHead:
		p.inHead(tok)
	case modeAfterHead:
		p.afterHead(tok)
	case modeInBody:
		p.inBody(tok)
	case modeText:
		p.text(tok)
	case modeAfterBody:
		p.afterBody(tok)
	case modeAfterAfterBody:
		p.afterAfterBody(tok)
	}
}

// foreignBreaksOut reports whether tok must be handled by the ordinary HTML
// insertion mode even though the stack top is foreign (HTML5 §12.2.6.5,
// "any other start tag" breakout list, plus EOF). A </svg> end tag stays in
// foreign content, where processForeignContent pops it.
func (p *parser) foreignBreaksOut(tok Token) bool {
	if tok.Type == EOFToken {
		return true
	}
	if tok.Type == EndTagToken && tok.Name == "svg" {
		return false // handled by processForeignContent, which pops the svg
	}
	if tok.Type == StartTagToken && foreignBreakoutTags[tok.Name] {
		return true
	}
	return false
}

// processForeignContent implements a reduced HTML5 §12.2.6.5: character
// tokens and non-breakout start tags create elements in the SVG namespace
// without switching the tokenizer into raw-text states (only the ordinary
// HTML <style>/<script>/<textarea> handling in inBody does that). This is
// what keeps a literal "</style>" inside <svg> from being mistaken for a
// real end tag (CVE-2020-6413, §8 scenario 7): the tokenizer's
// RawEndTagName is never armed for a foreign <style>.
func (p *parser) processForeignContent(tok Token) {
	switch tok.Type {
	case CharToken:
		p.insertChar(tok.Char)
	case StartTagToken:
		el := p.win.CreateElement(tok.Name, dom.SVGNamespace)
		for _, a := range tok.Attributes {
			el.Element.SetAttribute(a.Name, a.Value)
		}
		p.current().AppendChild(el)
		if !tok.SelfClosing {
			p.push(el)
			p.foreignDepth++
		}
	case EndTagToken:
		if tok.Name == "svg" {
			p.pop()
			p.foreignDepth--
			return
		}
		// Any other end tag while in foreign content pops the current node
		// if its tag name matches, per the reduced model here.
		if cur := p.current(); cur != nil && cur.Element != nil && cur.Element.TagName == tok.Name {
			p.pop()
			p.foreignDepth--
		}
	}
}

func (p *parser) insertChar(c rune) {
	parent := p.current()
	if parent == nil {
		return
	}
	if last := parent.LastChild; last != nil && last.Type == dom.TextNode {
		last.Text += string(c)
		return
	}
	parent.AppendChild(p.win.CreateTextNode(string(c)))
}

func isAllWhitespaceChar(tok Token) bool {
	return tok.Type == CharToken && isWhitespace(tok.Char)
}

// initial implements HTML5 §12.2.6.4.1: doctype is consumed, everything
// else reprocesses in BeforeHtml.
func (p *parser) initial(tok Token) {
	switch tok.Type {
	case DoctypeToken:
		p.mode = modeBeforeHtml
	case CharToken:
		if isWhitespace(tok.Char) {
			return
		}
		p.mode = modeBeforeHtml
		p.dispatch(tok)
	default:
		p.mode = modeBeforeHtml
		p.dispatch(tok)
	}
}

// beforeHtml implements HTML5 §12.2.6.4.2.
func (p *parser) beforeHtml(tok Token) {
	switch {
	case tok.Type == StartTagToken && tok.Name == "html":
		html := p.createAndInsert(tok, dom.HTMLNamespace)
		p.win.Document.AppendChild(html)
		p.push(html)
		p.mode = modeBeforeHead
	case isAllWhitespaceChar(tok):
		// ignore
	default:
		html := p.win.CreateElement("html", dom.HTMLNamespace)
		p.win.Document.AppendChild(html)
		p.push(html)
		p.mode = modeBeforeHead
		p.dispatch(tok)
	}
}

// beforeHead implements HTML5 §12.2.6.4.3.
func (p *parser) beforeHead(tok Token) {
	switch {
	case tok.Type == StartTagToken && tok.Name == "head":
		head := p.createAndInsert(tok, dom.HTMLNamespace)
		p.current().AppendChild(head)
		p.push(head)
		p.headElement = head
		p.mode = modeInHead
	case isAllWhitespaceChar(tok):
	default:
		head := p.win.CreateElement("head", dom.HTMLNamespace)
		p.current().AppendChild(head)
		p.push(head)
		p.headElement = head
		p.mode = modeInHead
		p.dispatch(tok)
	}
}

// inHead implements HTML5 §12.2.6.4.4, reduced to the tags this renderer
// cares about (title-less: style and script are the only head content with
// text).
func (p *parser) inHead(tok Token) {
	switch {
	case tok.Type == StartTagToken && tok.Name == "style":
		p.insertRawTextElement(tok, StateRawtext)
	case tok.Type == StartTagToken && tok.Name == "script":
		p.insertRawTextElement(tok, StateScriptData)
	case tok.Type == StartTagToken && (tok.Name == "meta" || tok.Name == "link" || tok.Name == "base"):
		p.insertVoidElement(tok, dom.HTMLNamespace)
	case tok.Type == EndTagToken && tok.Name == "head":
		p.pop()
		p.mode = modeAfterHead
	case isAllWhitespaceChar(tok):
		p.insertChar(tok.Char)
	default:
		p.pop()
		p.mode = modeAfterHead
		p.dispatch(tok)
	}
}

// afterHead implements HTML5 §12.2.6.4.5.
func (p *parser) afterHead(tok Token) {
	switch {
	case tok.Type == StartTagToken && tok.Name == "body":
		body := p.createAndInsert(tok, dom.HTMLNamespace)
		p.current().AppendChild(body)
		p.push(body)
		p.mode = modeInBody
	case isAllWhitespaceChar(tok):
	default:
		body := p.win.CreateElement("body", dom.HTMLNamespace)
		p.current().AppendChild(body)
		p.push(body)
		p.mode = modeInBody
		p.dispatch(tok)
	}
}

// inBody implements the subset of HTML5 §12.2.6.4.7 this renderer needs:
// character insertion, generic block/inline elements, <p> auto-closing via
// button scope, void elements, raw-text elements, entry into svg foreign
// content, and the </body>/EOF exits.
func (p *parser) inBody(tok Token) {
	switch tok.Type {
	case CharToken:
		p.insertChar(tok.Char)
	case DoctypeToken:
		// a stray doctype in body is a parse error; ignore.
	case StartTagToken:
		p.inBodyStartTag(tok)
	case EndTagToken:
		p.inBodyEndTag(tok)
	case EOFToken:
		p.mode = modeAfterAfterBody
	}
}

func (p *parser) inBodyStartTag(tok Token) {
	switch tok.Name {
	case "html":
		// a second <html> start tag merges its attributes onto the root in
		// the full algorithm; ignored here since attributes rarely matter
		// past the root the renderer already created.
	case "style":
		p.insertRawTextElement(tok, StateRawtext)
	case "script":
		p.insertRawTextElement(tok, StateScriptData)
	case "textarea":
		p.insertRawTextElement(tok, StateRcdata)
	case "svg":
		el := p.win.CreateElement("svg", dom.SVGNamespace)
		for _, a := range tok.Attributes {
			el.Element.SetAttribute(a.Name, a.Value)
		}
		p.current().AppendChild(el)
		if !tok.SelfClosing {
			p.push(el)
			p.foreignDepth++
		}
	case "p":
		if p.hasElementInScope(dom.KindP, buttonScopeBoundary) {
			p.closePElement()
		}
		el := p.createAndInsert(tok, dom.HTMLNamespace)
		p.current().AppendChild(el)
		p.push(el)
	case "h1", "h2":
		if p.hasElementInScope(dom.KindP, buttonScopeBoundary) {
			p.closePElement()
		}
		if cur := p.current(); cur != nil && cur.Element != nil && isHeading(cur.Element.Kind) {
			p.pop()
		}
		el := p.createAndInsert(tok, dom.HTMLNamespace)
		p.current().AppendChild(el)
		p.push(el)
	default:
		if voidElements[tok.Name] {
			p.insertVoidElement(tok, dom.HTMLNamespace)
			return
		}
		el := p.createAndInsert(tok, dom.HTMLNamespace)
		p.current().AppendChild(el)
		p.push(el)
	}
}

func (p *parser) inBodyEndTag(tok Token) {
	switch tok.Name {
	case "body", "html":
		if p.hasElementInScope(dom.KindBody, defaultScopeBoundary) {
			p.mode = modeAfterBody
		}
	case "p":
		if !p.hasElementInScope(dom.KindP, buttonScopeBoundary) {
			// parse error: insert an empty <p> then close it.
			p.current().AppendChild(p.win.CreateElement("p", dom.HTMLNamespace))
			return
		}
		p.closePElement()
	case "h1", "h2":
		if !p.hasHeadingInScope(defaultScopeBoundary) {
			return
		}
		p.closeHeadingElement()
	default:
		p.generateImpliedEndTagsAndPopMatching(tok.Name)
	}
}

// isHeading reports whether kind is one of the heading kinds this tree
// constructor tracks (h1, h2).
func isHeading(kind dom.ElementKind) bool {
	return kind == dom.KindH1 || kind == dom.KindH2
}

// hasHeadingInScope is "has an element in the specific scope" (§12.2.4.2)
// specialized to any heading kind, since a stray </h1> while an <h2> is open
// must still close the <h2> (§12.2.6.4.7).
func (p *parser) hasHeadingInScope(boundary map[dom.ElementKind]bool) bool {
	for i := len(p.openElements) - 1; i >= 0; i-- {
		el := p.openElements[i].Element
		if el == nil {
			continue
		}
		if isHeading(el.Kind) {
			return true
		}
		if boundary[el.Kind] {
			return false
		}
	}
	return false
}

// closeHeadingElement implements §12.2.6.4.7's </h1>-</h6> handling: generate
// implied end tags excluding the heading itself, then pop up to and
// including the nearest open heading.
func (p *parser) closeHeadingElement() {
	for len(p.openElements) > 0 {
		n := p.pop()
		if n.Element != nil && isHeading(n.Element.Kind) {
			return
		}
	}
}

// closePElement implements the "close a p element" steps (§12.2.6.3):
// generate implied end tags excluding p, then pop up to and including the p.
func (p *parser) closePElement() {
	for len(p.openElements) > 0 {
		n := p.pop()
		if n.Element != nil && n.Element.Kind == dom.KindP {
			return
		}
	}
}

// generateImpliedEndTagsAndPopMatching pops the stack until an element
// named tagName has been popped, skipping over implied-end-tag elements
// encountered along the way is unnecessary for the tags this renderer
// tracks, so this just pops to the matching name if present on the stack.
func (p *parser) generateImpliedEndTagsAndPopMatching(tagName string) {
	for i := len(p.openElements) - 1; i >= 0; i-- {
		if p.openElements[i].Element != nil && p.openElements[i].Element.TagName == tagName {
			p.openElements = p.openElements[:i]
			return
		}
	}
}

// hasElementInScope implements HTML5 §12.2.4.2 "has an element in the
// specific scope", walking the stack of open elements from the top until
// kind is found (returns true) or a boundary kind is hit (returns false).
func (p *parser) hasElementInScope(kind dom.ElementKind, boundary map[dom.ElementKind]bool) bool {
	for i := len(p.openElements) - 1; i >= 0; i-- {
		el := p.openElements[i].Element
		if el == nil {
			continue
		}
		if el.Kind == kind {
			return true
		}
		if boundary[el.Kind] {
			return false
		}
	}
	return false
}

// text implements HTML5 §12.2.6.4.8 "text" insertion mode, used while
// consuming Rcdata/Rawtext/ScriptData content.
func (p *parser) text(tok Token) {
	switch tok.Type {
	case CharToken:
		p.insertChar(tok.Char)
	case EndTagToken:
		p.pop()
		p.mode = p.originalMode
	case EOFToken:
		p.pop()
		p.mode = p.originalMode
		p.dispatch(tok)
	}
}

// afterBody implements HTML5 §12.2.6.4.19.
func (p *parser) afterBody(tok Token) {
	switch {
	case tok.Type == EndTagToken && tok.Name == "html":
		p.mode = modeAfterAfterBody
	case isAllWhitespaceChar(tok):
		p.insertChar(tok.Char)
	case tok.Type == EOFToken:
	default:
		p.mode = modeInBody
		p.dispatch(tok)
	}
}

// afterAfterBody implements HTML5 §12.2.6.4.23: stray content after the
// closing </html> is, in this reduced model, simply ignored.
func (p *parser) afterAfterBody(tok Token) {
	if isAllWhitespaceChar(tok) {
		return
	}
	if tok.Type == EOFToken {
		return
	}
	p.mode = modeInBody
	p.dispatch(tok)
}

// createAndInsert creates an element for tok without inserting it into the
// tree (callers append it themselves, since the caller also decides where).
func (p *parser) createAndInsert(tok Token, ns dom.Namespace) *dom.Node {
	el := p.win.CreateElement(tok.Name, ns)
	for _, a := range tok.Attributes {
		el.Element.SetAttribute(a.Name, a.Value)
	}
	return el
}

// insertVoidElement appends a self-contained element (one with no children,
// whether because it's a true void element or a self-closing one) without
// pushing it onto the stack of open elements.
func (p *parser) insertVoidElement(tok Token, ns dom.Namespace) {
	el := p.createAndInsert(tok, ns)
	p.current().AppendChild(el)
}

// insertRawTextElement implements the "generic raw text element parsing
// algorithm" / "generic RCDATA element parsing algorithm" (§12.2.6.2):
// insert the element, switch the tokenizer into the given state armed with
// this tag's name, and save the current mode to restore once the matching
// end tag is seen.
func (p *parser) insertRawTextElement(tok Token, state State) {
	el := p.createAndInsert(tok, dom.HTMLNamespace)
	p.current().AppendChild(el)
	p.push(el)
	p.tok.State = state
	p.tok.RawEndTagName = tok.Name
	p.originalMode = p.mode
	p.mode = modeText
}
