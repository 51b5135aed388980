package html

import "testing"

func collectTokens(t *Tokenizer) []Token {
	var toks []Token
	for {
		tok := t.Next()
		toks = append(toks, tok)
		if tok.Type == EOFToken {
			return toks
		}
	}
}

func TestTokenizeSimpleText(t *testing.T) {
	tok := NewTokenizer("hi")
	toks := collectTokens(tok)
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens (2 chars + EOF), got %d", len(toks))
	}
	if toks[0].Type != CharToken || toks[0].Char != 'h' {
		t.Errorf("toks[0] = %+v, want CharToken 'h'", toks[0])
	}
	if toks[1].Type != CharToken || toks[1].Char != 'i' {
		t.Errorf("toks[1] = %+v, want CharToken 'i'", toks[1])
	}
	if toks[2].Type != EOFToken {
		t.Errorf("toks[2].Type = %v, want EOFToken", toks[2].Type)
	}
}

func TestTokenizeStartAndEndTag(t *testing.T) {
	tok := NewTokenizer("<div>x</div>")
	toks := collectTokens(tok)

	if toks[0].Type != StartTagToken || toks[0].Name != "div" {
		t.Errorf("toks[0] = %+v, want StartTagToken div", toks[0])
	}
	if toks[1].Type != CharToken || toks[1].Char != 'x' {
		t.Errorf("toks[1] = %+v, want CharToken 'x'", toks[1])
	}
	if toks[2].Type != EndTagToken || toks[2].Name != "div" {
		t.Errorf("toks[2] = %+v, want EndTagToken div", toks[2])
	}
	if toks[3].Type != EOFToken {
		t.Errorf("toks[3].Type = %v, want EOFToken", toks[3].Type)
	}
}

func TestTokenizeTagNameCaseFolded(t *testing.T) {
	tok := NewTokenizer("<DIV></DIV>")
	toks := collectTokens(tok)
	if toks[0].Name != "div" {
		t.Errorf("start tag Name = %q, want lowercase %q", toks[0].Name, "div")
	}
	if toks[1].Name != "div" {
		t.Errorf("end tag Name = %q, want lowercase %q", toks[1].Name, "div")
	}
}

func TestTokenizeAttributes(t *testing.T) {
	tok := NewTokenizer(`<a href="/x" target='_blank' disabled>`)
	toks := collectTokens(tok)
	start := toks[0]
	if start.Type != StartTagToken || start.Name != "a" {
		t.Fatalf("got %+v, want StartTagToken a", start)
	}
	if got := start.GetAttribute("href"); got != "/x" {
		t.Errorf("href = %q, want %q", got, "/x")
	}
	if got := start.GetAttribute("target"); got != "_blank" {
		t.Errorf("target = %q, want %q", got, "_blank")
	}
	if got := start.GetAttribute("disabled"); got != "" {
		t.Errorf("disabled = %q, want empty", got)
	}
}

func TestTokenizeDuplicateAttributeFirstWins(t *testing.T) {
	tok := NewTokenizer(`<div id="a" id="b">`)
	toks := collectTokens(tok)
	if got := toks[0].GetAttribute("id"); got != "a" {
		t.Errorf("id = %q, want first occurrence %q", got, "a")
	}
}

func TestTokenizeSelfClosingTag(t *testing.T) {
	tok := NewTokenizer(`<br/>`)
	toks := collectTokens(tok)
	if !toks[0].SelfClosing {
		t.Error("expected SelfClosing = true")
	}
	if toks[0].Name != "br" {
		t.Errorf("Name = %q, want br", toks[0].Name)
	}
}

func TestTokenizeDoctype(t *testing.T) {
	tok := NewTokenizer("<!doctype html><p>")
	toks := collectTokens(tok)
	if toks[0].Type != DoctypeToken || toks[0].Name != "html" {
		t.Errorf("toks[0] = %+v, want DoctypeToken html", toks[0])
	}
	if toks[1].Type != StartTagToken || toks[1].Name != "p" {
		t.Errorf("toks[1] = %+v, want StartTagToken p", toks[1])
	}
}

func TestTokenizeCommentIsDiscarded(t *testing.T) {
	tok := NewTokenizer("<!-- a comment --><p>")
	toks := collectTokens(tok)
	if toks[0].Type != StartTagToken || toks[0].Name != "p" {
		t.Errorf("toks[0] = %+v, want StartTagToken p (comment skipped)", toks[0])
	}
}

func TestTokenizeCharacterReferences(t *testing.T) {
	tok := NewTokenizer("a&amp;b&#65;&#x42;")
	toks := collectTokens(tok)
	var got []rune
	for _, tk := range toks {
		if tk.Type == CharToken {
			got = append(got, tk.Char)
		}
	}
	want := []rune{'a', '&', 'b', 'A', 'B'}
	if string(got) != string(want) {
		t.Errorf("decoded chars = %q, want %q", string(got), string(want))
	}
}

func TestTokenizeCharacterReferenceInAttributeValue(t *testing.T) {
	tok := NewTokenizer(`<a href="x?a=1&amp;b=2">`)
	toks := collectTokens(tok)
	if got := toks[0].GetAttribute("href"); got != "x?a=1&b=2" {
		t.Errorf("href = %q, want %q", got, "x?a=1&b=2")
	}
}

// TestTokenizeRawtextRespectsExternalEndTagName verifies that raw-text
// content only ends at the end tag name the caller armed via
// RawEndTagName, not at any "</...>" sequence — this is the mechanism the
// tree constructor relies on to avoid prematurely closing a <style> element
// on an unrelated end tag appearing in its content.
func TestTokenizeRawtextRespectsExternalEndTagName(t *testing.T) {
	tok := NewTokenizer("</notstyle>actual text</style>after")
	tok.State = StateRawtext
	tok.RawEndTagName = "style"

	toks := collectTokens(tok)
	var chars []rune
	var sawEndTag bool
	for _, tk := range toks {
		switch tk.Type {
		case CharToken:
			if !sawEndTag {
				chars = append(chars, tk.Char)
			}
		case EndTagToken:
			sawEndTag = true
			if tk.Name != "style" {
				t.Errorf("end tag Name = %q, want style", tk.Name)
			}
		}
	}
	if !sawEndTag {
		t.Fatal("expected an EndTagToken for </style>")
	}
	want := "</notstyle>actual text"
	if string(chars) != want {
		t.Errorf("raw text chars = %q, want %q", string(chars), want)
	}
}

// TestTokenizeScriptDataSwallowsMarkup verifies that while in
// ScriptData, tag-like constructs other than the armed end tag are emitted
// as literal characters instead of being parsed as tags.
func TestTokenizeScriptDataSwallowsMarkup(t *testing.T) {
	tok := NewTokenizer(`if (1<2) { }</script>`)
	tok.State = StateScriptData
	tok.RawEndTagName = "script"

	toks := collectTokens(tok)
	var chars []rune
	for _, tk := range toks {
		if tk.Type == CharToken {
			chars = append(chars, tk.Char)
		}
	}
	if string(chars) != "if (1<2) { }" {
		t.Errorf("script chars = %q, want %q", string(chars), "if (1<2) { }")
	}
	last := toks[len(toks)-2]
	if last.Type != EndTagToken || last.Name != "script" {
		t.Errorf("expected EndTagToken script before EOF, got %+v", last)
	}
}

func TestTokenizeEndTagWithTrailingGarbageIsDropped(t *testing.T) {
	tok := NewTokenizer("</3>x")
	toks := collectTokens(tok)
	if toks[0].Type != CharToken || toks[0].Char != 'x' {
		t.Errorf("toks[0] = %+v, want CharToken 'x' after malformed end tag recovery", toks[0])
	}
}

func TestTokenizeLoneLessThanAtEOF(t *testing.T) {
	tok := NewTokenizer("a<")
	toks := collectTokens(tok)
	if toks[0].Type != CharToken || toks[0].Char != 'a' {
		t.Errorf("toks[0] = %+v, want CharToken 'a'", toks[0])
	}
	if toks[1].Type != CharToken || toks[1].Char != '<' {
		t.Errorf("toks[1] = %+v, want CharToken '<'", toks[1])
	}
	if toks[2].Type != EOFToken {
		t.Errorf("toks[2].Type = %v, want EOFToken", toks[2].Type)
	}
}
