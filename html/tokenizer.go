// Package html provides HTML tokenization and tree construction.
// It follows (a deliberately reduced subset of) the HTML5 parsing algorithm.
//
// Spec references:
// - HTML5 §12.2.5 Tokenization: https://html.spec.whatwg.org/multipage/parsing.html#tokenization
package html

import "strconv"

// TokenType represents the type of an HTML token.
//
// HTML5 §12.2.5: the full grammar also has Comment tokens; this core omits
// them from the token alphabet (§3 Data model) and instead has the
// tokenizer silently discard comments during MarkupDeclarationOpen.
type TokenType int

const (
	// DoctypeToken represents a DOCTYPE declaration.
	DoctypeToken TokenType = iota
	// StartTagToken represents an opening tag (e.g., <div>).
	StartTagToken
	// EndTagToken represents a closing tag (e.g., </div>).
	EndTagToken
	// CharToken represents a single character of text content.
	CharToken
	// EOFToken is the terminal token; callers must stop pulling after it.
	EOFToken
)

// Attribute is a single attribute built up during tokenization.
type Attribute struct {
	Name  string
	Value string
}

// Token is a single HTML token (§3: HtmlToken).
type Token struct {
	Type TokenType

	// Name holds the tag name (StartTag/EndTag) or the doctype name
	// (Doctype, possibly empty).
	Name string
	// SelfClosing is set on a StartTagToken ending in "/>".
	SelfClosing bool
	// Attributes holds the attributes of a StartTagToken, in source order.
	Attributes []Attribute

	// Char holds the single code point of a CharToken.
	Char rune
}

// GetAttribute returns the value of the named attribute, or "" if absent.
func (t Token) GetAttribute(name string) string {
	for _, a := range t.Attributes {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// State is a tokenizer state. The tree constructor drives lexing by
// writing to Tokenizer.State between token pulls (§4.1, §4.2).
type State int

const (
	StateData State = iota
	StateTagOpen
	StateEndTagOpen
	StateTagName
	StateBeforeAttributeName
	StateAttributeName
	StateAfterAttributeName
	StateBeforeAttributeValue
	StateAttributeValueDoubleQuoted
	StateAttributeValueSingleQuoted
	StateAttributeValueUnquoted
	StateAfterAttributeValueQuoted
	StateSelfClosingStartTag
	StateMarkupDeclarationOpen
	StateDoctype
	StateBeforeDoctypeName
	StateDoctypeName
	StateRcdata
	StateRawtext
	StateScriptData
)

// Tokenizer produces a lazy sequence of Tokens from an input code point
// sequence, with an externally switchable State (§4.1).
//
// The tokenizer is restartable at will: the tree constructor may set State
// (and RawEndTagName, when entering Rcdata/Rawtext/ScriptData) between any
// two calls to Next.
type Tokenizer struct {
	input []rune
	pos   int

	State State

	// RawEndTagName is the tag name that terminates Rcdata/Rawtext/
	// ScriptData content (e.g. "textarea", "style", "script"). It must be
	// set by the caller alongside State whenever switching into one of
	// those three states.
	RawEndTagName string
}

// NewTokenizer creates a new HTML tokenizer positioned at StateData.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{
		input: []rune(input),
		State: StateData,
	}
}

func (t *Tokenizer) eof() bool { return t.pos >= len(t.input) }

func (t *Tokenizer) peek() (rune, bool) {
	if t.eof() {
		return 0, false
	}
	return t.input[t.pos], true
}

func (t *Tokenizer) advance() { t.pos++ }

// Next pulls the next token, running the state machine until a token is
// ready to be emitted. Malformed input never aborts tokenization (§4.1
// Errors): unrecognized constructs fall back to emitting characters.
func (t *Tokenizer) Next() Token {
	for {
		switch t.State {
		case StateData:
			if tok, ok := t.stepData(); ok {
				return tok
			}
		case StateTagOpen:
			if tok, ok := t.stepTagOpen(); ok {
				return tok
			}
		case StateEndTagOpen:
			if tok, ok := t.stepEndTagOpen(); ok {
				return tok
			}
		case StateMarkupDeclarationOpen:
			t.stepMarkupDeclarationOpen()
		case StateDoctype, StateBeforeDoctypeName, StateDoctypeName:
			if tok, ok := t.stepDoctype(); ok {
				return tok
			}
		case StateRcdata, StateRawtext, StateScriptData:
			if tok, ok := t.stepRawText(); ok {
				return tok
			}
		default:
			// StateTagName and the attribute sub-states are consumed
			// inline by readStartTag/readEndTag and are never the
			// resting state between calls to Next.
			panic("html: tokenizer resumed in an internal-only state")
		}
	}
}

// stepData implements HTML5 §12.2.5.1 Data state.
func (t *Tokenizer) stepData() (Token, bool) {
	c, ok := t.peek()
	if !ok {
		return Token{Type: EOFToken}, true
	}
	if c == '<' {
		t.advance()
		t.State = StateTagOpen
		return Token{}, false
	}
	if c == '&' {
		if decoded, n, ok := decodeCharRef(t.input[t.pos:]); ok {
			t.pos += n
			return Token{Type: CharToken, Char: decoded}, true
		}
	}
	t.advance()
	return Token{Type: CharToken, Char: c}, true
}

// stepTagOpen implements HTML5 §12.2.5.6 Tag open state.
func (t *Tokenizer) stepTagOpen() (Token, bool) {
	c, ok := t.peek()
	if !ok {
		// end-of-input right after '<': emit '<' as text, not fatal.
		t.State = StateData
		return Token{Type: CharToken, Char: '<'}, true
	}
	switch {
	case c == '!':
		t.advance()
		t.State = StateMarkupDeclarationOpen
		return Token{}, false
	case c == '/':
		t.advance()
		t.State = StateEndTagOpen
		return Token{}, false
	case isASCIIAlpha(c):
		// "create a start tag, reconsume, TagName" — handled inline.
		return t.readStartTag(), true
	default:
		// Not a valid tag construct: emit '<' literally and reconsume c
		// in Data.
		t.State = StateData
		return Token{Type: CharToken, Char: '<'}, true
	}
}

// stepEndTagOpen implements HTML5 §12.2.5.9 End tag open state.
func (t *Tokenizer) stepEndTagOpen() (Token, bool) {
	c, ok := t.peek()
	if !ok || !isASCIIAlpha(c) {
		// malformed end tag (e.g. "</>" or "</3"); recover by dropping it.
		for {
			c, ok := t.peek()
			if !ok {
				break
			}
			t.advance()
			if c == '>' {
				break
			}
		}
		t.State = StateData
		return Token{}, false
	}
	return t.readEndTag(), true
}

// readStartTag consumes a start tag from just after '<', through TagName,
// attributes, and the closing '>' (or "/>"). HTML5 §12.2.5.8, §12.2.5.32-40.
func (t *Tokenizer) readStartTag() Token {
	name := t.readTagName()
	attrs := t.readAttributes()

	selfClosing := false
	if c, ok := t.peek(); ok && c == '/' {
		t.advance()
		if c2, ok2 := t.peek(); ok2 && c2 == '>' {
			t.advance()
			selfClosing = true
		}
	} else if ok && c == '>' {
		t.advance()
	}

	t.State = StateData
	return Token{
		Type:        StartTagToken,
		Name:        name,
		SelfClosing: selfClosing,
		Attributes:  attrs,
	}
}

// readEndTag consumes an end tag from just after "</". HTML5 §12.2.5.9.
func (t *Tokenizer) readEndTag() Token {
	name := t.readTagName()
	// Attributes on an end tag are a parse error but must still be
	// consumed and discarded (HTML5 §12.2.5.9).
	t.readAttributes()
	if c, ok := t.peek(); ok && c == '/' {
		t.advance()
	}
	if c, ok := t.peek(); ok && c == '>' {
		t.advance()
	}
	t.State = StateData
	return Token{Type: EndTagToken, Name: name}
}

// readTagName implements HTML5 §12.2.5.8 Tag name state.
// Tag names are lowercased per §4.1: "callers compare case-sensitively but
// DOM uses lowercase element names only" — normalizing here means every
// later comparison in the tree constructor can be exact.
func (t *Tokenizer) readTagName() string {
	var b []rune
	for {
		c, ok := t.peek()
		if !ok || c == '>' || c == '/' || isWhitespace(c) {
			break
		}
		b = append(b, toASCIILower(c))
		t.advance()
	}
	return string(b)
}

// readAttributes implements HTML5 §12.2.5.32-40 (before-attribute-name
// through after-attribute-value-quoted), collapsed into one loop since the
// tokenizer never needs to suspend mid-attribute for an external state
// switch.
func (t *Tokenizer) readAttributes() []Attribute {
	var attrs []Attribute
	for {
		t.skipWhitespace()
		c, ok := t.peek()
		if !ok || c == '>' || c == '/' {
			break
		}
		name := t.readAttributeName()
		if name == "" {
			// stuck on something unexpected (e.g. a stray '='); consume
			// one char to guarantee forward progress and keep going.
			t.advance()
			continue
		}
		t.skipWhitespace()

		value := ""
		if c, ok := t.peek(); ok && c == '=' {
			t.advance()
			t.skipWhitespace()
			value = t.readAttributeValue()
		}
		attrs = appendAttribute(attrs, Attribute{Name: name, Value: value})
	}
	return attrs
}

// appendAttribute implements the "first occurrence wins" rule for
// duplicate attribute names (HTML5 §12.2.5.33).
func appendAttribute(attrs []Attribute, a Attribute) []Attribute {
	for _, existing := range attrs {
		if existing.Name == a.Name {
			return attrs
		}
	}
	return append(attrs, a)
}

func (t *Tokenizer) readAttributeName() string {
	var b []rune
	for {
		c, ok := t.peek()
		if !ok || c == '=' || c == '>' || c == '/' || isWhitespace(c) {
			break
		}
		b = append(b, toASCIILower(c))
		t.advance()
	}
	return string(b)
}

// readAttributeValue implements HTML5 §12.2.5.37-40 Attribute value states,
// decoding character references inside the value (§12.2.5.38-39).
func (t *Tokenizer) readAttributeValue() string {
	c, ok := t.peek()
	if !ok {
		return ""
	}
	if c == '"' || c == '\'' {
		quote := c
		t.advance()
		var b []rune
		for {
			c, ok := t.peek()
			if !ok || c == quote {
				if ok {
					t.advance()
				}
				break
			}
			if c == '&' {
				if decoded, n, ok := decodeCharRef(t.input[t.pos:]); ok {
					b = append(b, decoded)
					t.pos += n
					continue
				}
			}
			b = append(b, c)
			t.advance()
		}
		return string(b)
	}

	var b []rune
	for {
		c, ok := t.peek()
		if !ok || isWhitespace(c) || c == '>' {
			break
		}
		if c == '&' {
			if decoded, n, ok := decodeCharRef(t.input[t.pos:]); ok {
				b = append(b, decoded)
				t.pos += n
				continue
			}
		}
		b = append(b, c)
		t.advance()
	}
	return string(b)
}

func (t *Tokenizer) skipWhitespace() {
	for {
		c, ok := t.peek()
		if !ok || !isWhitespace(c) {
			return
		}
		t.advance()
	}
}

// stepMarkupDeclarationOpen implements HTML5 §12.2.5.42.
// Recognizes "<!--" (discarded as a comment; §3 has no Comment token) and
// the case-insensitive literal "doctype".
func (t *Tokenizer) stepMarkupDeclarationOpen() {
	if t.hasPrefix("--") {
		t.pos += 2
		t.skipComment()
		t.State = StateData
		return
	}
	if t.hasPrefixFold("doctype") {
		t.pos += len("doctype")
		t.State = StateBeforeDoctypeName
		return
	}
	// Unsupported construct (e.g. a CDATA section): recover by treating
	// '!' as consumed and returning to Data.
	t.State = StateData
}

func (t *Tokenizer) skipComment() {
	for !t.eof() {
		if t.hasPrefix("-->") {
			t.pos += 3
			return
		}
		t.advance()
	}
}

// stepDoctype implements HTML5 §12.2.5.53-55 (Doctype, before-doctype-name,
// doctype-name states), collapsed since no external suspension is needed.
func (t *Tokenizer) stepDoctype() (Token, bool) {
	t.skipWhitespace()
	var b []rune
	for {
		c, ok := t.peek()
		if !ok || c == '>' {
			if ok {
				t.advance()
			}
			break
		}
		b = append(b, toASCIILower(c))
		t.advance()
	}
	t.State = StateData
	return Token{Type: DoctypeToken, Name: string(b)}, true
}

// stepRawText implements the Rcdata/Rawtext/ScriptData states (HTML5
// §12.2.5.3, §12.2.5.11, §12.2.5.17 families, simplified per §4.1):
// characters are emitted literally until a matching end tag is found.
func (t *Tokenizer) stepRawText() (Token, bool) {
	c, ok := t.peek()
	if !ok {
		return Token{Type: EOFToken}, true
	}
	if c == '<' && t.matchesRawEndTag() {
		t.advance() // '<'
		t.advance() // '/'
		return t.readEndTag(), true
	}
	t.advance()
	return Token{Type: CharToken, Char: c}, true
}

// matchesRawEndTag reports whether the tokenizer is positioned at
// "</" + RawEndTagName (case-insensitively), the only end tag recognized
// while lexing raw text content. A foreign (SVG) <style> never switches the
// tokenizer into a raw-text state, so its content is tokenized as ordinary
// markup and a literal "</style>" inside it is never matched here
// (CVE-2020-6413, §8 scenario 7).
func (t *Tokenizer) matchesRawEndTag() bool {
	if t.RawEndTagName == "" {
		return false
	}
	rest := t.input[t.pos:]
	if len(rest) < 2 || rest[0] != '<' || rest[1] != '/' {
		return false
	}
	name := []rune(t.RawEndTagName)
	if len(rest) < 2+len(name) {
		return false
	}
	for i, want := range name {
		if toASCIILower(rest[2+i]) != want {
			return false
		}
	}
	if len(rest) > 2+len(name) {
		next := rest[2+len(name)]
		if !isWhitespace(next) && next != '>' && next != '/' {
			return false
		}
	}
	return true
}

func (t *Tokenizer) hasPrefix(s string) bool {
	for i, r := range s {
		if t.pos+i >= len(t.input) || t.input[t.pos+i] != r {
			return false
		}
	}
	return true
}

func (t *Tokenizer) hasPrefixFold(s string) bool {
	for i, r := range s {
		if t.pos+i >= len(t.input) || toASCIILower(t.input[t.pos+i]) != r {
			return false
		}
	}
	return true
}

func isASCIIAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func toASCIILower(c rune) rune {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// decodeCharRef implements a reduced HTML5 §12.2.4.2 Character reference
// state: it recognizes named references from a common subset and numeric
// references, returning the decoded rune and the number of input runes
// consumed starting at '&'. Multi-rune expansions are out of scope since
// §3 models a CharToken as exactly one code point.
func decodeCharRef(rest []rune) (rune, int, bool) {
	if len(rest) == 0 || rest[0] != '&' {
		return 0, 0, false
	}
	end := 1
	for end < len(rest) && end < 12 && rest[end] != ';' && rest[end] != '&' && rest[end] != '<' {
		end++
	}
	if end >= len(rest) || rest[end] != ';' {
		return 0, 0, false
	}
	name := string(rest[1:end])
	if name == "" {
		return 0, 0, false
	}
	if name[0] == '#' {
		r, ok := decodeNumericRef(name[1:])
		if !ok {
			return 0, 0, false
		}
		return r, end + 1, true
	}
	if r, ok := namedCharRefs[name]; ok {
		return r, end + 1, true
	}
	return 0, 0, false
}

func decodeNumericRef(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	var v int64
	var err error
	if s[0] == 'x' || s[0] == 'X' {
		v, err = strconv.ParseInt(s[1:], 16, 32)
	} else {
		v, err = strconv.ParseInt(s, 10, 32)
	}
	if err != nil || v <= 0 || v > 0x10FFFF {
		return 0, false
	}
	return rune(v), true
}

// namedCharRefs is a reduced HTML5 §12.2.4.4 named character reference
// table, limited to single-codepoint expansions.
var namedCharRefs = map[string]rune{
	"amp":    '&',
	"lt":     '<',
	"gt":     '>',
	"quot":   '"',
	"apos":   '\'',
	"nbsp":   ' ',
	"copy":   '©',
	"reg":    '®',
	"trade":  '™',
	"deg":    '°',
	"cent":   '¢',
	"pound":  '£',
	"euro":   '€',
	"yen":    '¥',
	"sect":   '§',
	"para":   '¶',
	"middot": '·',
	"bull":   '•',
	"hellip": '…',
	"ndash":  '–',
	"mdash":  '—',
	"lsquo":  '‘',
	"rsquo":  '’',
	"ldquo":  '“',
	"rdquo":  '”',
	"laquo":  '«',
	"raquo":  '»',
	"times":  '×',
	"divide": '÷',
	"minus":  '−',
}
