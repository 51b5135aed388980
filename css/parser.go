package css

import (
	"errors"
	"fmt"
)

// ErrUnsupportedValue is the ParseError (CSS) result for a declaration value
// shape this parser cannot represent: anything other than a single Ident
// component value. CSS 2.1 §4.1.8 declaration values are in general a
// sequence of component values; this parser recognizes exactly one shape of
// that sequence (a bare keyword) and reports every other shape as a
// structured failure rather than silently degrading the value.
var ErrUnsupportedValue = errors.New("css: unsupported declaration value")

// Stylesheet is the result of parsing a CSS source text: an ordered list of
// rules, in source order.
type Stylesheet struct {
	Rules []*Rule
}

// Rule is a qualified rule: a comma-separated selector list guarding a block
// of declarations.
type Rule struct {
	Selectors    []*Selector
	Declarations []*Declaration
}

// Selector is a single compound selector: a sequence of type/class/id
// components that must all match one element. There is no combinator
// support (descendant, child, sibling) — a selector list entry is always one
// compound, matching the "simple selector list becomes a compound selector
// inside a single complex selector" model this grammar targets.
type Selector struct {
	Simple []SimpleSelector
}

// SimpleSelectorKind discriminates the three component shapes a Selector can
// be built from.
type SimpleSelectorKind int

const (
	SelectorType SimpleSelectorKind = iota
	SelectorClass
	SelectorID
)

// SimpleSelector is one component of a compound selector: a type name
// ("div"), a class name ("container", without the leading '.'), or an id
// name ("header", without the leading '#').
type SimpleSelector struct {
	Kind SimpleSelectorKind
	Name string
}

// Declaration is a single property/value pair. Value is restricted to the
// Keyword shape: a bare identifier such as "red" or "block". Any other value
// shape fails parsing with ErrUnsupportedValue rather than being accepted in
// a lossy form.
type Declaration struct {
	Property string
	Keyword  string
}

// Parser turns CSS source text into a Stylesheet.
type Parser struct {
	tokenizer *Tokenizer
}

// NewParser creates a parser reading from input.
func NewParser(input string) *Parser {
	return &Parser{tokenizer: NewTokenizer(input)}
}

// Parse consumes the parser's input and returns the resulting stylesheet, or
// the first ParseError (CSS) encountered. A malformed declaration aborts the
// whole parse rather than dropping one rule and continuing, matching this
// module's other parsers (httpclient.ParseResponse returns on first failure
// rather than best-effort partial results). A rule whose selector list is
// malformed, or is not followed by '{', is skipped without an error.
func (p *Parser) Parse() (*Stylesheet, error) {
	stylesheet := &Stylesheet{Rules: make([]*Rule, 0)}

	for {
		p.tokenizer.SkipWhitespace()
		token := p.tokenizer.Peek()
		if token.Type == EOFToken {
			break
		}

		if token.Type == AtKeywordToken {
			p.skipAtRule()
			continue
		}

		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		if rule != nil {
			stylesheet.Rules = append(stylesheet.Rules, rule)
		}
	}

	return stylesheet, nil
}

// skipAtRule discards an @-rule (@media, @import, @keyframes, ...): these are
// out of scope for this grammar, but must still be consumed so a block
// doesn't desync the rest of the stylesheet.
func (p *Parser) skipAtRule() {
	p.tokenizer.Next() // the @keyword itself

	depth := 0
	for {
		token := p.tokenizer.Next()
		if token.Type == EOFToken {
			return
		}
		if token.Type == SemicolonToken && depth == 0 {
			return
		}
		if token.Type == LeftBraceToken {
			depth++
		}
		if token.Type == RightBraceToken {
			depth--
			if depth <= 0 {
				return
			}
		}
	}
}

// skipToRuleBoundary discards tokens up through the end of a malformed
// rule's block (or to EOF if no block follows), so one bad rule doesn't
// desync the rules after it.
func (p *Parser) skipToRuleBoundary() {
	depth := 0
	for {
		token := p.tokenizer.Next()
		if token.Type == EOFToken {
			return
		}
		if token.Type == LeftBraceToken {
			depth++
			continue
		}
		if token.Type == RightBraceToken {
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// parseRule parses one qualified rule: selector list, '{', declarations,
// '}'.
func (p *Parser) parseRule() (*Rule, error) {
	selectors := p.parseSelectors()
	if len(selectors) == 0 {
		p.skipToRuleBoundary()
		return nil, nil
	}

	p.tokenizer.SkipWhitespace()
	token := p.tokenizer.Next()
	if token.Type != LeftBraceToken {
		p.skipToRuleBoundary()
		return nil, nil
	}

	declarations, err := p.parseDeclarations()
	if err != nil {
		return nil, err
	}

	p.tokenizer.SkipWhitespace()
	token = p.tokenizer.Next()
	if token.Type != RightBraceToken {
		for token.Type != RightBraceToken && token.Type != EOFToken {
			token = p.tokenizer.Next()
		}
	}

	return &Rule{Selectors: selectors, Declarations: declarations}, nil
}

// parseSelectors parses a comma-separated selector list.
func (p *Parser) parseSelectors() []*Selector {
	selectors := make([]*Selector, 0)

	for {
		p.tokenizer.SkipWhitespace()

		selector := p.parseSelector()
		if selector != nil {
			selectors = append(selectors, selector)
		}

		p.tokenizer.SkipWhitespace()
		token := p.tokenizer.Peek()
		if token.Type == CommaToken {
			p.tokenizer.Next()
			continue
		}
		break
	}

	return selectors
}

// parseSelector parses one compound selector: an optional type name
// followed by any number of class and id components, in source order.
// Attribute selectors ([attr=value]) are recognized and skipped, not
// represented in the result.
func (p *Parser) parseSelector() *Selector {
	var simple []SimpleSelector

	if token := p.tokenizer.Peek(); token.Type == IdentToken {
		p.tokenizer.Next()
		simple = append(simple, SimpleSelector{Kind: SelectorType, Name: token.Value})
	}

	for {
		switch token := p.tokenizer.Peek(); token.Type {
		case HashToken:
			p.tokenizer.Next()
			simple = append(simple, SimpleSelector{Kind: SelectorID, Name: token.Value})
		case DotToken:
			p.tokenizer.Next()
			if name := p.tokenizer.Next(); name.Type == IdentToken {
				simple = append(simple, SimpleSelector{Kind: SelectorClass, Name: name.Value})
			}
		case LeftBracketToken:
			p.tokenizer.Next()
			for {
				t := p.tokenizer.Next()
				if t.Type == RightBracketToken || t.Type == EOFToken {
					break
				}
			}
		default:
			if len(simple) == 0 {
				return nil
			}
			return &Selector{Simple: simple}
		}
	}
}

// parseDeclarations parses the declaration list inside a rule's block.
func (p *Parser) parseDeclarations() ([]*Declaration, error) {
	declarations := make([]*Declaration, 0)

	for {
		p.tokenizer.SkipWhitespace()

		token := p.tokenizer.Peek()
		if token.Type == RightBraceToken || token.Type == EOFToken {
			break
		}

		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, decl)

		p.tokenizer.SkipWhitespace()
		token = p.tokenizer.Peek()
		if token.Type == SemicolonToken {
			p.tokenizer.Next()
		} else if token.Type == RightBraceToken {
			break
		}
	}

	return declarations, nil
}

// parseDeclaration parses one "property: value" pair. The value must be a
// single Ident component value; anything else — a number, a string, more
// than one component value, an empty value — is ErrUnsupportedValue.
func (p *Parser) parseDeclaration() (*Declaration, error) {
	p.tokenizer.SkipWhitespace()

	token := p.tokenizer.Next()
	if token.Type != IdentToken {
		return nil, fmt.Errorf("css: expected a property name, got %v", token.Type)
	}
	property := token.Value

	p.tokenizer.SkipWhitespace()
	token = p.tokenizer.Next()
	if token.Type != ColonToken {
		return nil, fmt.Errorf("css: property %q: expected ':'", property)
	}

	p.tokenizer.SkipWhitespace()
	token = p.tokenizer.Next()
	if token.Type != IdentToken {
		return nil, fmt.Errorf("%w: property %q", ErrUnsupportedValue, property)
	}
	keyword := token.Value

	p.tokenizer.SkipWhitespace()
	switch p.tokenizer.Peek().Type {
	case SemicolonToken, RightBraceToken, EOFToken:
	default:
		return nil, fmt.Errorf("%w: property %q has more than one component value", ErrUnsupportedValue, property)
	}

	return &Declaration{Property: property, Keyword: keyword}, nil
}

// Parse is a convenience wrapper around NewParser(input).Parse().
func Parse(input string) (*Stylesheet, error) {
	return NewParser(input).Parse()
}

// ParseInlineStyle parses a style attribute's value (CSS 2.1 §6.4.3: inline
// styles carry the highest specificity) directly as a declaration list, with
// no surrounding selector or braces. A malformed declaration is dropped
// rather than failing the whole attribute, since there is no enclosing rule
// to fall back to on error.
func ParseInlineStyle(input string) []*Declaration {
	if input == "" {
		return nil
	}

	p := NewParser(input)
	var declarations []*Declaration
	for {
		p.tokenizer.SkipWhitespace()
		if p.tokenizer.Peek().Type == EOFToken {
			return declarations
		}
		if decl, err := p.parseDeclaration(); err == nil {
			declarations = append(declarations, decl)
		}
		// Skip the rest of this declaration, through its ';'.
		for t := p.tokenizer.Next(); t.Type != SemicolonToken && t.Type != EOFToken; t = p.tokenizer.Next() {
		}
	}
}
