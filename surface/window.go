package surface

import "go-surface/midi"

// Window is the viewport of physical strips onto the ordered track list
type Window struct {
	offset int
	size   int
}

func NewWindow(size int) *Window {
	return &Window{size: size}
}

func (w *Window) Offset() int { return w.offset }
func (w *Window) Size() int   { return w.size }

// MaxOffset is the largest valid offset for count tracks
func (w *Window) MaxOffset(count int) int {
	return max(0, count-w.size)
}

// Set clamps offset to [0, MaxOffset(count)] and stores it. It reports the
// stored offset and whether it changed.
func (w *Window) Set(offset, count int) (int, bool) {
	offset = midi.Clamp(offset, 0, w.MaxOffset(count))
	if offset == w.offset {
		return w.offset, false
	}
	w.offset = offset
	return w.offset, true
}

// Scroll moves the window by delta tracks
func (w *Window) Scroll(delta, count int) (int, bool) {
	return w.Set(w.offset+delta, count)
}

// Visible returns the tracks the window covers
func (w *Window) Visible(n int) (start, end int) {
	start = min(w.offset, n)
	end = min(start+w.size, n)
	return start, end
}

// FeedbackValue is the window position shown on the controller's display
func (w *Window) FeedbackValue() uint8 {
	return uint8(min(w.offset+1, 99))
}
