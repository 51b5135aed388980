package layout

// Point is an absolute pixel coordinate in the painted page.
type Point struct {
	X int
	Y int
}

// Size is a width/height pair in pixels.
type Size struct {
	W int
	H int
}

// DisplayItem is implemented by RectItem and TextItem, the two shapes the
// painter emits (§4.9, §6).
type DisplayItem interface {
	isDisplayItem()
}

// RectItem paints a box's background area.
type RectItem struct {
	Style ComputedStyle
	Point Point
	Size  Size
}

func (RectItem) isDisplayItem() {}

// TextItem paints one inline text run at its resolved position.
type TextItem struct {
	Text  string
	Style ComputedStyle
	Point Point
}

func (TextItem) isDisplayItem() {}

// Paint walks the positioned tree depth-first, accumulating an origin point
// as it descends, and returns the flat list of display items in paint order.
//
// Block children stack vertically under their parent; within a block, line
// boxes stack vertically; within a line, inline boxes lay out left to right.
func Paint(root *PositionedBlock) []DisplayItem {
	var items []DisplayItem
	paintBlock(root, Point{}, &items)
	return items
}

func paintBlock(b *PositionedBlock, origin Point, items *[]DisplayItem) {
	*items = append(*items, RectItem{Style: b.Style, Point: origin, Size: Size{W: b.Width, H: b.Height}})

	y := origin.Y
	for _, child := range b.BlockChildren {
		paintBlock(child, Point{X: origin.X, Y: y}, items)
		y += child.Height
	}
	for _, line := range b.Lines {
		paintLine(line, Point{X: origin.X, Y: y}, items)
		y += line.Height
	}
}

func paintLine(line *PositionedLine, origin Point, items *[]DisplayItem) {
	x := origin.X
	for _, inline := range line.Inlines {
		paintInline(inline, Point{X: x, Y: origin.Y}, items)
		x += inline.Width
	}
}

func paintInline(inline *PositionedInline, origin Point, items *[]DisplayItem) {
	if inline.Text != "" {
		*items = append(*items, TextItem{Text: inline.Text, Style: inline.Style, Point: origin})
		return
	}
	x := origin.X
	for _, child := range inline.Children {
		paintInline(child, Point{X: x, Y: origin.Y}, items)
		x += child.Width
	}
}
