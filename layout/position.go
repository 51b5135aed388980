package layout

// PositionedBlock is a block box with its size resolved. At most one of
// BlockChildren or Lines is populated, matching whichever kind BlockBox's
// Children held; a block with no children has neither.
type PositionedBlock struct {
	Origin BoxOrigin
	Object *Object
	Style  ComputedStyle
	Width  int
	Height int

	BlockChildren []*PositionedBlock
	Lines         []*PositionedLine
}

// PositionedLine is a line box with its height resolved.
type PositionedLine struct {
	Width   int
	Height  int
	Inlines []*PositionedInline
}

// PositionedInline is an inline box with its size resolved.
type PositionedInline struct {
	Origin   BoxOrigin
	Object   *Object
	Style    ComputedStyle
	Text     string
	Width    int
	Height   int
	Children []*PositionedInline
}

// Position resolves sizes bottom-up for root, a block box whose containing
// block is the viewport (§4.8).
func Position(root *BlockBox, viewportWidth int) *PositionedBlock {
	return positionBlock(root, viewportWidth)
}

func positionBlock(b *BlockBox, width int) *PositionedBlock {
	pb := &PositionedBlock{Origin: b.Origin, Object: b.Object, Style: b.Style, Width: width}

	if len(b.Children) == 0 {
		return pb
	}

	if _, ok := b.Children[0].(*BlockBox); ok {
		height := 0
		for _, c := range b.Children {
			child := positionBlock(c.(*BlockBox), width)
			pb.BlockChildren = append(pb.BlockChildren, child)
			height += child.Height
		}
		pb.Height = height
		return pb
	}

	inlines := make([]*InlineBox, len(b.Children))
	for i, c := range b.Children {
		inlines[i] = c.(*InlineBox)
	}
	lines := SplitLines(inlines, width)
	height := 0
	for _, line := range lines {
		pl := positionLine(line, width)
		pb.Lines = append(pb.Lines, pl)
		height += pl.Height
	}
	pb.Height = height
	return pb
}

func positionLine(line *LineBox, width int) *PositionedLine {
	pl := &PositionedLine{Width: width}
	maxHeight := 0
	for _, ib := range line.Inlines {
		pi := positionInline(ib)
		pl.Inlines = append(pl.Inlines, pi)
		if pi.Height > maxHeight {
			maxHeight = pi.Height
		}
	}
	pl.Height = maxHeight
	return pl
}

func positionInline(ib *InlineBox) *PositionedInline {
	pi := &PositionedInline{Origin: ib.Origin, Object: ib.Object, Style: ib.Style, Text: ib.Text}
	if ib.Text != "" {
		pi.Width = len(ib.Text) * CharWidth
		pi.Height = CharHeight
		return pi
	}
	width, maxHeight := 0, 0
	for _, c := range ib.Children {
		pc := positionInline(c)
		pi.Children = append(pi.Children, pc)
		width += pc.Width
		if pc.Height > maxHeight {
			maxHeight = pc.Height
		}
	}
	pi.Width = width
	pi.Height = maxHeight
	return pi
}
