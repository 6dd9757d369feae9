package surface

import (
	"sort"

	"go-surface/debug"
	"go-surface/midi"
	"go-surface/session"
)

// ControlKind is the message kind a binding listens to
type ControlKind int

const (
	ControlCC ControlKind = iota
	ControlNote
)

// BindingKey identifies a physical control
type BindingKey struct {
	Channel uint8
	Kind    ControlKind
	Control uint8
}

// Binding connects a physical control to a session parameter for one
// rebuild generation.
type Binding struct {
	Key        BindingKey
	Param      session.Parameter
	Mode       midi.Mode
	Feedback   bool
	Generation int
}

// Apply moves the parameter according to an incoming value
func (b *Binding) Apply(value uint8) {
	p := b.Param
	span := p.Max() - p.Min()
	switch b.Mode {
	case midi.RelativeTwosComplement:
		delta := midi.DecodeRelative(value)
		v := p.Value() + float64(delta)*span/127
		p.SetValue(clampFloat(v, p.Min(), p.Max()))
	default:
		p.SetValue(p.Min() + float64(value)/127*span)
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BindingSet owns all control bindings of the current generation
type BindingSet struct {
	bindings   map[BindingKey]*Binding
	generation int
}

func NewBindingSet() *BindingSet {
	return &BindingSet{bindings: make(map[BindingKey]*Binding)}
}

// Clear drops every binding and starts a new generation
func (s *BindingSet) Clear() {
	s.bindings = make(map[BindingKey]*Binding)
	s.generation++
}

// Generation increments on every Clear
func (s *BindingSet) Generation() int {
	return s.generation
}

// Bind maps a CC to p. A nil parameter is skipped. Rebinding a control
// replaces the earlier binding.
func (s *BindingSet) Bind(channel, controller uint8, p session.Parameter, mode midi.Mode) *Binding {
	if p == nil {
		return nil
	}
	key := BindingKey{Channel: channel, Kind: ControlCC, Control: controller}
	if old, ok := s.bindings[key]; ok && old.Param != p {
		debug.Log("binding", "ch%d cc%d rebound from %s to %s", channel, controller, old.Param.Name(), p.Name())
	}
	b := &Binding{
		Key:        key,
		Param:      p,
		Mode:       mode,
		Feedback:   mode == midi.Absolute,
		Generation: s.generation,
	}
	s.bindings[key] = b
	return b
}

// Lookup finds the binding for an incoming event
func (s *BindingSet) Lookup(ev midi.Event) (*Binding, bool) {
	var kind ControlKind
	switch ev.Kind {
	case midi.ControlChange:
		kind = ControlCC
	case midi.NoteOnKind, midi.NoteOffKind:
		kind = ControlNote
	default:
		return nil, false
	}
	b, ok := s.bindings[BindingKey{Channel: ev.Channel, Kind: kind, Control: ev.Data1}]
	return b, ok
}

// Get returns the binding on a CC
func (s *BindingSet) Get(channel, controller uint8) (*Binding, bool) {
	b, ok := s.bindings[BindingKey{Channel: channel, Kind: ControlCC, Control: controller}]
	return b, ok
}

func (s *BindingSet) Len() int {
	return len(s.bindings)
}

// All returns the bindings ordered by channel and control
func (s *BindingSet) All() []*Binding {
	out := make([]*Binding, 0, len(s.bindings))
	for _, b := range s.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Control < b.Control
	})
	return out
}

// Subscriptions is an owned collection of session listeners
type Subscriptions struct {
	subs []session.Subscription
}

func (s *Subscriptions) Add(sub session.Subscription) {
	if sub != nil {
		s.subs = append(s.subs, sub)
	}
}

// CancelAll cancels every listener and empties the collection
func (s *Subscriptions) CancelAll() {
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil
}

// Cancel lets a collection be owned by another collection
func (s *Subscriptions) Cancel() {
	s.CancelAll()
}

func (s *Subscriptions) Len() int {
	return len(s.subs)
}
