package layout

// Hierarchy exposes the children of a node, in paint order.
type Hierarchy[K comparable] interface {
	Children(node K) []K
}

// Solver lays out a tree of nodes keyed by K. The zero value is ready to use.
type Solver[K comparable] struct{}

// Solve lays out the subtree rooted at root inside bounds. The root is sized
// from its own Box against bounds: pixel and percentage lengths are honored,
// anything else fills bounds. place is called once per reached node.
func (s Solver[K]) Solve(root K, bounds Rect, h Hierarchy[K], box func(K) Box, place func(K, Rect)) {
	b := box(root)
	r := Rect{
		X:      bounds.X,
		Y:      bounds.Y,
		Width:  b.Width.ValueOr(bounds.Width, bounds.Width),
		Height: b.Height.ValueOr(bounds.Height, bounds.Height),
	}
	r.Width = clamp(r.Width, b.MinWidth, b.MaxWidth, bounds.Width)
	r.Height = clamp(r.Height, b.MinHeight, b.MaxHeight, bounds.Height)
	s.layoutNode(root, r, h, box, place)
}

type flowItem[K comparable] struct {
	node                  K
	box                   Box
	main, cross           float64
	before, after         float64
	crossBefore           float64
	stretch               float64
	mainUnits, crossUnits Units
}

func (s Solver[K]) layoutNode(node K, r Rect, h Hierarchy[K], box func(K) Box, place func(K, Rect)) {
	place(node, r)
	children := h.Children(node)
	if len(children) == 0 {
		return
	}

	b := box(node)
	content := Rect{
		X: r.X + b.ChildLeft.ValueOr(r.Width, 0),
		Y: r.Y + b.ChildTop.ValueOr(r.Height, 0),
	}
	content.Width = max(0, r.Width-b.ChildLeft.ValueOr(r.Width, 0)-b.ChildRight.ValueOr(r.Width, 0))
	content.Height = max(0, r.Height-b.ChildTop.ValueOr(r.Height, 0)-b.ChildBottom.ValueOr(r.Height, 0))

	row := b.LayoutType == Row
	contentMain, contentCross := content.Height, content.Width
	between := b.RowBetween.ValueOr(content.Height, 0)
	if row {
		contentMain, contentCross = content.Width, content.Height
		between = b.ColBetween.ValueOr(content.Width, 0)
	}

	var flow []flowItem[K]
	var fixed, totalStretch float64
	for _, child := range children {
		cb := box(child)
		if cb.PositionType == SelfDirected {
			s.layoutNode(child, s.selfDirectedRect(child, cb, content, h, box), h, box, place)
			continue
		}
		it := flowItem[K]{node: child, box: cb}
		var crossBefore, crossAfter Units
		if row {
			it.mainUnits, it.crossUnits = cb.Width, cb.Height
			it.before = cb.Left.ValueOr(contentMain, 0)
			it.after = cb.Right.ValueOr(contentMain, 0)
			crossBefore, crossAfter = cb.Top, cb.Bottom
		} else {
			it.mainUnits, it.crossUnits = cb.Height, cb.Width
			it.before = cb.Top.ValueOr(contentMain, 0)
			it.after = cb.Bottom.ValueOr(contentMain, 0)
			crossBefore, crossAfter = cb.Left, cb.Right
		}
		it.crossBefore = crossBefore.ValueOr(contentCross, 0)
		crossAvail := max(0, contentCross-it.crossBefore-crossAfter.ValueOr(contentCross, 0))

		switch it.crossUnits.Kind {
		case UnitStretch:
			it.cross = crossAvail
		case UnitAuto:
			it.cross = s.intrinsic(child, !row, h, box)
		default:
			it.cross = it.crossUnits.ValueOr(contentCross, 0)
		}

		switch it.mainUnits.Kind {
		case UnitStretch:
			it.stretch = it.mainUnits.Value
			totalStretch += it.stretch
		case UnitAuto:
			it.main = s.intrinsic(child, row, h, box)
		default:
			it.main = it.mainUnits.ValueOr(contentMain, 0)
		}
		if it.stretch == 0 {
			it.main = s.clampMain(it, row, contentMain)
			fixed += it.main
		}
		it.cross = s.clampCross(it, row, contentCross)
		fixed += it.before + it.after
		flow = append(flow, it)
	}
	if len(flow) > 1 {
		fixed += between * float64(len(flow)-1)
	}

	free := max(0, contentMain-fixed)
	cursor := content.Y
	crossOrigin := content.X
	if row {
		cursor = content.X
		crossOrigin = content.Y
	}
	for i := range flow {
		it := &flow[i]
		if it.stretch > 0 && totalStretch > 0 {
			it.main = free * it.stretch / totalStretch
			it.main = s.clampMain(*it, row, contentMain)
		}
		cursor += it.before
		var cr Rect
		if row {
			cr = Rect{X: cursor, Y: crossOrigin + it.crossBefore, Width: it.main, Height: it.cross}
		} else {
			cr = Rect{X: crossOrigin + it.crossBefore, Y: cursor, Width: it.cross, Height: it.main}
		}
		cursor += it.main + it.after + between
		s.layoutNode(it.node, cr, h, box, place)
	}
}

func (s Solver[K]) clampMain(it flowItem[K], row bool, parent float64) float64 {
	if row {
		return clamp(it.main, it.box.MinWidth, it.box.MaxWidth, parent)
	}
	return clamp(it.main, it.box.MinHeight, it.box.MaxHeight, parent)
}

func (s Solver[K]) clampCross(it flowItem[K], row bool, parent float64) float64 {
	if row {
		return clamp(it.cross, it.box.MinHeight, it.box.MaxHeight, parent)
	}
	return clamp(it.cross, it.box.MinWidth, it.box.MaxWidth, parent)
}

// selfDirectedRect places an out-of-flow node relative to the content box.
func (s Solver[K]) selfDirectedRect(node K, b Box, content Rect, h Hierarchy[K], box func(K) Box) Rect {
	left := b.Left.ValueOr(content.Width, 0)
	right := b.Right.ValueOr(content.Width, 0)
	top := b.Top.ValueOr(content.Height, 0)
	bottom := b.Bottom.ValueOr(content.Height, 0)

	w := s.selfSize(node, b.Width, content.Width-left-right, content.Width, true, h, box)
	hgt := s.selfSize(node, b.Height, content.Height-top-bottom, content.Height, false, h, box)
	return Rect{
		X:      content.X + left,
		Y:      content.Y + top,
		Width:  clamp(w, b.MinWidth, b.MaxWidth, content.Width),
		Height: clamp(hgt, b.MinHeight, b.MaxHeight, content.Height),
	}
}

func (s Solver[K]) selfSize(node K, u Units, avail, parent float64, horizontal bool, h Hierarchy[K], box func(K) Box) float64 {
	switch u.Kind {
	case UnitStretch:
		return max(0, avail)
	case UnitAuto:
		return s.intrinsic(node, horizontal, h, box)
	default:
		return u.ValueOr(parent, 0)
	}
}

// intrinsic returns the content-derived size of node along one axis. Fixed
// pixel sizes win; otherwise children are summed along the node's main axis
// and maxed along its cross axis. Stretch and percentage children contribute
// nothing, since they depend on a size that is not known yet.
func (s Solver[K]) intrinsic(node K, horizontal bool, h Hierarchy[K], box func(K) Box) float64 {
	b := box(node)
	u := b.Height
	if horizontal {
		u = b.Width
	}
	if u.Kind == UnitPixels {
		return u.Value
	}

	var padding float64
	if horizontal {
		padding = b.ChildLeft.ValueOr(0, 0) + b.ChildRight.ValueOr(0, 0)
	} else {
		padding = b.ChildTop.ValueOr(0, 0) + b.ChildBottom.ValueOr(0, 0)
	}

	alongMain := (b.LayoutType == Row) == horizontal
	between := b.RowBetween.ValueOr(0, 0)
	if b.LayoutType == Row {
		between = b.ColBetween.ValueOr(0, 0)
	}

	var total float64
	n := 0
	for _, child := range h.Children(node) {
		cb := box(child)
		if cb.PositionType == SelfDirected {
			continue
		}
		cu, before, after := cb.Height, cb.Top, cb.Bottom
		if horizontal {
			cu, before, after = cb.Width, cb.Left, cb.Right
		}
		var size float64
		switch cu.Kind {
		case UnitPixels:
			size = cu.Value
		case UnitAuto:
			size = s.intrinsic(child, horizontal, h, box)
		}
		size += before.ValueOr(0, 0) + after.ValueOr(0, 0)
		if alongMain {
			total += size
		} else if size > total {
			total = size
		}
		n++
	}
	if alongMain && n > 1 {
		total += between * float64(n-1)
	}
	return total + padding
}
