// Package virtualize computes which rows of a large list intersect the
// viewport, so rendering cost stays bounded by the viewport size rather than
// the list size.
package virtualize

// SizeFunc reports the rendered height of the row at index, in the caller's
// unit (pixels, terminal lines).
type SizeFunc func(index int) int

// FixedSize returns a SizeFunc for uniform rows.
func FixedSize(height int) SizeFunc {
	return func(int) int { return height }
}

// Window is the derived visible slice of a virtual list. It is recomputed on
// every scroll, resize or data-size change and never stored.
type Window struct {
	// Indices is the contiguous, ascending set of row indices to render.
	Indices []int
	// Offsets maps each visible index to its top offset from the list start.
	Offsets map[int]int
	// TotalHeight is the full scrollable height of the list.
	TotalHeight int
}

// Params describes one windowing computation.
type Params struct {
	ItemCount      int
	EstimateSize   SizeFunc
	ViewportHeight int
	ScrollOffset   int
	Overscan       int
}

// Compute returns the minimal contiguous index range whose rows intersect
// [ScrollOffset, ScrollOffset+ViewportHeight], widened by Overscan rows on
// each side. itemCount == 0 yields an empty window with zero height, and
// indices never exceed ItemCount-1 even when the list shrank since the last
// scroll.
func Compute(p Params) Window {
	w := Window{Offsets: make(map[int]int)}
	if p.ItemCount <= 0 || p.EstimateSize == nil || p.ViewportHeight <= 0 {
		return w
	}

	if uniform, rowHeight := uniformRowHeight(p); uniform {
		return computeFixed(p, rowHeight)
	}
	return computeVariable(p)
}

// uniformRowHeight probes the first two rows; equal heights take the O(1)
// fixed-size path. Rows in this system are constant-height, the variable
// path exists for correctness when a caller passes a non-uniform SizeFunc.
func uniformRowHeight(p Params) (bool, int) {
	h := p.EstimateSize(0)
	if h <= 0 {
		return false, 0
	}
	if p.ItemCount == 1 || p.EstimateSize(1) == h {
		return true, h
	}
	return false, 0
}

func computeFixed(p Params, rowHeight int) Window {
	w := Window{
		Offsets:     make(map[int]int),
		TotalHeight: p.ItemCount * rowHeight,
	}

	scroll := clamp(p.ScrollOffset, 0, w.TotalHeight)

	first := scroll/rowHeight - p.Overscan
	last := (scroll+p.ViewportHeight-1)/rowHeight + p.Overscan
	first = clamp(first, 0, p.ItemCount-1)
	last = clamp(last, 0, p.ItemCount-1)

	for i := first; i <= last; i++ {
		w.Indices = append(w.Indices, i)
		w.Offsets[i] = i * rowHeight
	}
	return w
}

func computeVariable(p Params) Window {
	w := Window{Offsets: make(map[int]int)}

	offsets := make([]int, p.ItemCount)
	total := 0
	for i := 0; i < p.ItemCount; i++ {
		offsets[i] = total
		h := p.EstimateSize(i)
		if h < 1 {
			h = 1
		}
		total += h
	}
	w.TotalHeight = total

	top := clamp(p.ScrollOffset, 0, total)
	bottom := top + p.ViewportHeight

	first := p.ItemCount
	last := -1
	for i := 0; i < p.ItemCount; i++ {
		rowTop := offsets[i]
		rowBottom := total
		if i+1 < p.ItemCount {
			rowBottom = offsets[i+1]
		}
		if rowBottom > top && rowTop < bottom {
			if i < first {
				first = i
			}
			last = i
		}
	}
	if last < 0 {
		return w
	}

	first = clamp(first-p.Overscan, 0, p.ItemCount-1)
	last = clamp(last+p.Overscan, 0, p.ItemCount-1)
	for i := first; i <= last; i++ {
		w.Indices = append(w.Indices, i)
		w.Offsets[i] = offsets[i]
	}
	return w
}

// ClampOffset keeps a scroll offset valid after the list or viewport changed:
// the viewport never scrolls past the end of the content.
func ClampOffset(scrollOffset, totalHeight, viewportHeight int) int {
	max := totalHeight - viewportHeight
	if max < 0 {
		max = 0
	}
	return clamp(scrollOffset, 0, max)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
