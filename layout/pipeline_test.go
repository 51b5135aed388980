package layout

import (
	"testing"

	"github.com/andrewchen-dev/minibrowser/dom"
	"github.com/andrewchen-dev/minibrowser/html"
)

// buildBody runs the full pipeline from source HTML down to a box tree
// rooted at <body>, mirroring how cmd/browser wires the stages together.
func buildBody(t *testing.T, source string) *BlockBox {
	t.Helper()
	win := html.Parse(source)
	body := win.Document.FirstDescendantByKind(dom.KindBody)
	if body == nil {
		t.Fatalf("no body element found")
	}
	obj := Build(body, nil)
	if obj == nil {
		t.Fatalf("body resolved to DisplayNone")
	}
	return BuildBoxTree(obj)
}

func TestPipelineAnonymousBlockWrapsMixedInlineRuns(t *testing.T) {
	box := buildBody(t, "<body><a>i1</a>i2<a>i3</a><p>b4</p><p>b5</p>i6</body>")

	if len(box.Children) != 4 {
		t.Fatalf("body has %d block children, want 4", len(box.Children))
	}

	first, ok := box.Children[0].(*BlockBox)
	if !ok || first.Origin != Anonymous {
		t.Fatalf("first child = %#v, want anonymous block wrapping i1/i2/i3", box.Children[0])
	}
	if len(first.Children) != 3 {
		t.Fatalf("anonymous block has %d inline children, want 3", len(first.Children))
	}

	second, ok := box.Children[1].(*BlockBox)
	if !ok || second.Object == nil || second.Object.Node.Element.TagName != "p" {
		t.Fatalf("second child = %#v, want <p>b4</p>", box.Children[1])
	}

	third, ok := box.Children[2].(*BlockBox)
	if !ok || third.Object == nil || third.Object.Node.Element.TagName != "p" {
		t.Fatalf("third child = %#v, want <p>b5</p>", box.Children[2])
	}

	fourth, ok := box.Children[3].(*BlockBox)
	if !ok || fourth.Origin != Anonymous {
		t.Fatalf("fourth child = %#v, want anonymous block wrapping i6", box.Children[3])
	}
}

func TestPipelinePositionAndPaintProduceFlatItems(t *testing.T) {
	box := buildBody(t, "<body><p>hi</p></body>")
	positioned := Position(box, 320)
	if positioned.Width != 320 {
		t.Errorf("root width = %d, want 320", positioned.Width)
	}
	if positioned.Height != CharHeight {
		t.Errorf("root height = %d, want %d", positioned.Height, CharHeight)
	}

	items := Paint(positioned)
	var sawText, sawRect bool
	for _, item := range items {
		switch v := item.(type) {
		case TextItem:
			sawText = true
			if v.Text != "hi" {
				t.Errorf("text item = %q, want %q", v.Text, "hi")
			}
		case RectItem:
			sawRect = true
		}
	}
	if !sawText || !sawRect {
		t.Errorf("painted items missing a text or rect entry: %#v", items)
	}
}

func TestPipelineLongTextWrapsAcrossLines(t *testing.T) {
	box := buildBody(t, "<body><p>one two three four five</p></body>")
	positioned := Position(box, len("one two ")*CharWidth)
	if len(positioned.BlockChildren) != 1 {
		t.Fatalf("want one <p> block child, got %d", len(positioned.BlockChildren))
	}
	p := positioned.BlockChildren[0]
	if len(p.Lines) < 2 {
		t.Fatalf("want text wrapped across multiple lines, got %d", len(p.Lines))
	}
}
