package surface

import "testing"

func TestWindowSet(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		start      int
		delta      int
		count      int
		want       int
		wantChange bool
	}{
		{"clamped to max", 8, 0, 100, 20, 12, true},
		{"fewer tracks than strips", 8, 0, 3, 5, 0, false},
		{"scroll by three", 8, 0, 3, 10, 2, true},
		{"negative", 8, 2, -5, 10, 0, true},
		{"no tracks", 8, 0, 1, 0, 0, false},
		{"exact fit", 8, 0, 1, 8, 0, false},
		{"within range", 16, 0, 4, 30, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.size)
			w.Set(tt.start, tt.count)
			got, changed := w.Scroll(tt.delta, tt.count)
			if got != tt.want || w.Offset() != tt.want {
				t.Errorf("offset = %d, want %d", got, tt.want)
			}
			if changed != tt.wantChange {
				t.Errorf("changed = %v, want %v", changed, tt.wantChange)
			}
		})
	}
}

func TestWindowVisible(t *testing.T) {
	w := NewWindow(8)
	w.Set(2, 10)
	start, end := w.Visible(10)
	if start != 2 || end != 10 {
		t.Errorf("Visible(10) = %d, %d; want 2, 10", start, end)
	}
	// the list shrank under the window
	start, end = w.Visible(1)
	if start != 1 || end != 1 {
		t.Errorf("Visible(1) = %d, %d; want 1, 1", start, end)
	}
}

func TestWindowFeedbackValue(t *testing.T) {
	w := NewWindow(8)
	if v := w.FeedbackValue(); v != 1 {
		t.Errorf("FeedbackValue at 0 = %d, want 1", v)
	}
	w.Set(2, 10)
	if v := w.FeedbackValue(); v != 3 {
		t.Errorf("FeedbackValue at 2 = %d, want 3", v)
	}
	w.Set(500, 1000)
	if v := w.FeedbackValue(); v != 99 {
		t.Errorf("FeedbackValue at 500 = %d, want 99", v)
	}
}
