package css

import (
	"errors"
	"testing"
)

func TestParseTypeSelector(t *testing.T) {
	stylesheet, err := Parse("div { color: red; }")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(stylesheet.Rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(stylesheet.Rules))
	}

	rule := stylesheet.Rules[0]
	if len(rule.Selectors) != 1 || len(rule.Selectors[0].Simple) != 1 {
		t.Fatalf("got selectors %+v", rule.Selectors)
	}
	simple := rule.Selectors[0].Simple[0]
	if simple.Kind != SelectorType || simple.Name != "div" {
		t.Errorf("got %+v, want type selector %q", simple, "div")
	}

	if len(rule.Declarations) != 1 {
		t.Fatalf("got %d declarations, want 1", len(rule.Declarations))
	}
	decl := rule.Declarations[0]
	if decl.Property != "color" || decl.Keyword != "red" {
		t.Errorf("got %+v, want {color red}", decl)
	}
}

func TestParseIDSelector(t *testing.T) {
	stylesheet, err := Parse("#header { display: block; }")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	simple := stylesheet.Rules[0].Selectors[0].Simple[0]
	if simple.Kind != SelectorID || simple.Name != "header" {
		t.Errorf("got %+v, want id selector %q", simple, "header")
	}
}

func TestParseClassSelector(t *testing.T) {
	stylesheet, err := Parse(".container { display: block; }")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	simple := stylesheet.Rules[0].Selectors[0].Simple[0]
	if simple.Kind != SelectorClass || simple.Name != "container" {
		t.Errorf("got %+v, want class selector %q", simple, "container")
	}
}

func TestParseCompoundSelector(t *testing.T) {
	stylesheet, err := Parse("div#main.container.active { display: block; }")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	simple := stylesheet.Rules[0].Selectors[0].Simple
	want := []SimpleSelector{
		{Kind: SelectorType, Name: "div"},
		{Kind: SelectorID, Name: "main"},
		{Kind: SelectorClass, Name: "container"},
		{Kind: SelectorClass, Name: "active"},
	}
	if len(simple) != len(want) {
		t.Fatalf("got %d components, want %d: %+v", len(simple), len(want), simple)
	}
	for i, w := range want {
		if simple[i] != w {
			t.Errorf("component %d = %+v, want %+v", i, simple[i], w)
		}
	}
}

func TestParseMultipleSelectors(t *testing.T) {
	stylesheet, err := Parse("h1, h2, h3 { display: block; }")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	rule := stylesheet.Rules[0]
	if len(rule.Selectors) != 3 {
		t.Fatalf("got %d selectors, want 3", len(rule.Selectors))
	}
	for i, tag := range []string{"h1", "h2", "h3"} {
		got := rule.Selectors[i].Simple[0]
		if got.Kind != SelectorType || got.Name != tag {
			t.Errorf("selector %d = %+v, want type %q", i, got, tag)
		}
	}
}

func TestParseMultipleDeclarations(t *testing.T) {
	stylesheet, err := Parse("div { color: red; display: block; }")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := map[string]string{"color": "red", "display": "block"}
	decls := stylesheet.Rules[0].Declarations
	if len(decls) != len(want) {
		t.Fatalf("got %d declarations, want %d", len(decls), len(want))
	}
	for _, d := range decls {
		if w, ok := want[d.Property]; !ok || d.Keyword != w {
			t.Errorf("declaration %+v unexpected", d)
		}
	}
}

func TestParseMultipleRules(t *testing.T) {
	input := `
		div { color: red; }
		p { display: block; }
		.container { display: none; }
	`
	stylesheet, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(stylesheet.Rules) != 3 {
		t.Fatalf("got %d rules, want 3", len(stylesheet.Rules))
	}
}

// TestParseAttributeSelectorIsSkipped covers attribute selectors
// ([type='submit']): they are consumed so they don't desync the tokenizer,
// but contribute no SimpleSelector component.
func TestParseAttributeSelectorIsSkipped(t *testing.T) {
	input := `input[type='submit'] { display: block; }`
	stylesheet, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(stylesheet.Rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(stylesheet.Rules))
	}
	simple := stylesheet.Rules[0].Selectors[0].Simple
	if len(simple) != 1 || simple[0].Name != "input" {
		t.Errorf("got %+v, want a single type selector %q", simple, "input")
	}
}

// TestParseAtRuleIsSkipped covers @-rules (@media, @import, ...): the block
// or statement is discarded without disturbing the rules around it.
func TestParseAtRuleIsSkipped(t *testing.T) {
	input := `
body { color: black; }
@media screen and (max-width: 600px) {
	body { color: blue; }
}
.test { color: red; }
`
	stylesheet, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(stylesheet.Rules) != 2 {
		t.Fatalf("got %d rules, want 2 (the @media body is skipped)", len(stylesheet.Rules))
	}
}

// TestParseDescendantComboIsDroppedAsOneMalformedRule documents that this
// grammar has no descendant-combinator support: "div p { ... }" is not two
// compound selectors joined by whitespace, it's a single "div" compound
// selector followed by unexpected trailing input, so the whole rule is
// discarded by the parser's recovery path rather than misparsed.
func TestParseDescendantComboIsDroppedAsOneMalformedRule(t *testing.T) {
	input := "div p { color: red; } span { color: blue; }"
	stylesheet, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(stylesheet.Rules) != 1 {
		t.Fatalf("got %d rules, want 1 (only span survives)", len(stylesheet.Rules))
	}
	if stylesheet.Rules[0].Selectors[0].Simple[0].Name != "span" {
		t.Errorf("surviving rule = %+v, want span", stylesheet.Rules[0])
	}
}

func TestParseDeclarationValueMustBeASingleKeyword(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"number value", "div { width: 10; }"},
		{"multi-token value", "div { border: 1px solid black; }"},
		{"two idents", "div { display: inline block; }"},
		{"string value", `div { content: "x"; }`},
		{"empty value", "div { color: ; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want ErrUnsupportedValue", tt.input)
			}
			if !errors.Is(err, ErrUnsupportedValue) {
				t.Errorf("Parse(%q) error = %v, want ErrUnsupportedValue", tt.input, err)
			}
		})
	}
}

func TestParseKeywordValueWithUnitsStillErrors(t *testing.T) {
	// "10px" tokenizes as a single NumberToken, not an Ident, so it is not a
	// Keyword value under this grammar even though it's one token.
	_, err := Parse("div { width: 10px; }")
	if !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("Parse error = %v, want ErrUnsupportedValue", err)
	}
}

func TestParseInlineStyle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []*Declaration
	}{
		{
			name:  "single declaration",
			input: "display: block",
			want:  []*Declaration{{Property: "display", Keyword: "block"}},
		},
		{
			name:  "trailing semicolon",
			input: "display: block;",
			want:  []*Declaration{{Property: "display", Keyword: "block"}},
		},
		{
			name:  "multiple declarations",
			input: "display: block; color: red",
			want: []*Declaration{
				{Property: "display", Keyword: "block"},
				{Property: "color", Keyword: "red"},
			},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  []*Declaration{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInlineStyle(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("got %+v, want nil", got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d declarations, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].Property != w.Property || got[i].Keyword != w.Keyword {
					t.Errorf("declaration %d = %+v, want %+v", i, got[i], w)
				}
			}
		})
	}
}

func TestParseInlineStyleDropsOnUnsupportedValue(t *testing.T) {
	if got := ParseInlineStyle("border: 1px solid black"); got != nil {
		t.Errorf("got %+v, want nil for an unsupported value shape", got)
	}
}
