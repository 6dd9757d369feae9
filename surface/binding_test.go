package surface

import (
	"math"
	"testing"

	"go-surface/midi"
	"go-surface/session"
	"go-surface/session/memory"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBindingApplyAbsolute(t *testing.T) {
	p := memory.NewParameter("Volume", 0, 1, 0.5)
	s := NewBindingSet()
	b := s.Bind(0, 7, p, midi.Absolute)
	if !b.Feedback {
		t.Error("absolute binding has no feedback")
	}

	tests := []struct {
		in   uint8
		want float64
	}{
		{0, 0},
		{127, 1},
		{64, 64.0 / 127},
	}
	for _, tt := range tests {
		b.Apply(tt.in)
		if !near(p.Value(), tt.want) {
			t.Errorf("Apply(%d) = %v, want %v", tt.in, p.Value(), tt.want)
		}
	}
}

func TestBindingApplyRelative(t *testing.T) {
	p := memory.NewParameter("Pan", -1, 1, 0)
	s := NewBindingSet()
	b := s.Bind(0, 10, p, midi.RelativeTwosComplement)
	if b.Feedback {
		t.Error("relative binding has feedback")
	}

	b.Apply(1)
	if !near(p.Value(), 2.0/127) {
		t.Errorf("one tick up = %v, want %v", p.Value(), 2.0/127)
	}
	b.Apply(127)
	if !near(p.Value(), 0) {
		t.Errorf("one tick down = %v, want 0", p.Value())
	}
	for i := 0; i < 10; i++ {
		b.Apply(63)
	}
	if p.Value() != 1 {
		t.Errorf("after fast turn = %v, want clamped to 1", p.Value())
	}
}

func TestBindingSetGenerations(t *testing.T) {
	s := NewBindingSet()
	if b := s.Bind(0, 7, nil, midi.Absolute); b != nil || s.Len() != 0 {
		t.Fatal("nil parameter was bound")
	}

	p := memory.NewParameter("p", 0, 1, 0)
	s.Bind(0, 7, p, midi.Absolute)
	gen := s.Generation()
	if b, ok := s.Get(0, 7); !ok || b.Generation != gen {
		t.Fatalf("Get = %v, %v", b, ok)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d", s.Len())
	}
	if s.Generation() != gen+1 {
		t.Errorf("Generation = %d, want %d", s.Generation(), gen+1)
	}
	if _, ok := s.Lookup(midi.Event{Kind: midi.ControlChange, Channel: 0, Data1: 7}); ok {
		t.Error("stale binding still resolves")
	}
}

func TestBindingLookup(t *testing.T) {
	s := NewBindingSet()
	p := memory.NewParameter("p", 0, 1, 0)
	s.Bind(2, 7, p, midi.Absolute)

	tests := []struct {
		name string
		ev   midi.Event
		want bool
	}{
		{"same cc", midi.Event{Kind: midi.ControlChange, Channel: 2, Data1: 7}, true},
		{"other channel", midi.Event{Kind: midi.ControlChange, Channel: 3, Data1: 7}, false},
		{"note on same number", midi.Event{Kind: midi.NoteOnKind, Channel: 2, Data1: 7}, false},
		{"unhandled", midi.Event{Kind: midi.Unhandled}, false},
	}
	for _, tt := range tests {
		if _, ok := s.Lookup(tt.ev); ok != tt.want {
			t.Errorf("%s: found %v, want %v", tt.name, ok, tt.want)
		}
	}
}

func TestBindingSetAllOrdered(t *testing.T) {
	s := NewBindingSet()
	p := memory.NewParameter("p", 0, 1, 0)
	s.Bind(3, 7, p, midi.Absolute)
	s.Bind(0, 22, p, midi.Absolute)
	s.Bind(0, 7, p, midi.Absolute)
	all := s.All()
	want := []BindingKey{
		{Channel: 0, Control: 7},
		{Channel: 0, Control: 22},
		{Channel: 3, Control: 7},
	}
	if len(all) != len(want) {
		t.Fatalf("All returned %d bindings", len(all))
	}
	for i, b := range all {
		if b.Key != want[i] {
			t.Errorf("All[%d] = %+v, want %+v", i, b.Key, want[i])
		}
	}
}

func TestSubscriptionsCancelAll(t *testing.T) {
	song, tracks := newSong(1, 1)
	var subs Subscriptions
	subs.Add(tracks[0].MixerDevice().Volume().Observe(func() {}))
	subs.Add(nil)
	subs.Add(song.Observe(session.IsPlayingChanged, func() {}))
	if subs.Len() != 2 {
		t.Fatalf("Len = %d, want 2", subs.Len())
	}
	subs.CancelAll()
	if subs.Len() != 0 || song.Listeners() != 0 {
		t.Errorf("after CancelAll: %d owned, %d registered", subs.Len(), song.Listeners())
	}
}
