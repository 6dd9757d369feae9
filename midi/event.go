package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI status nibbles (high nibble of the first byte)
const (
	NoteOff uint8 = 0x80
	NoteOn  uint8 = 0x90
	CC      uint8 = 0xB0

	StatusMask  uint8 = 0xF0
	ChannelMask uint8 = 0x0F
)

// LED / feedback values understood by both controller classes
const (
	ValueOff   uint8 = 0
	ValueBlink uint8 = 63
	ValueOn    uint8 = 127
)

// Kind is the decoded message kind
type Kind int

const (
	Unhandled Kind = iota
	ControlChange
	NoteOnKind
	NoteOffKind
)

func (k Kind) String() string {
	switch k {
	case ControlChange:
		return "cc"
	case NoteOnKind:
		return "note-on"
	case NoteOffKind:
		return "note-off"
	}
	return "unhandled"
}

// Event is a decoded 3-byte channel message.
// Data1 is the controller number for CC and the note number for notes,
// Data2 the value or velocity.
type Event struct {
	Kind    Kind
	Channel uint8
	Data1   uint8
	Data2   uint8
}

// Controller returns the CC number (or note number for note events)
func (e Event) Controller() uint8 { return e.Data1 }

// Value returns the CC value (or velocity for note events)
func (e Event) Value() uint8 { return e.Data2 }

// Pressed reports a note-on with velocity > 0. Note-off and note-on with
// velocity 0 are releases.
func (e Event) Pressed() bool {
	return e.Kind == NoteOnKind && e.Data2 > 0
}

func (e Event) String() string {
	return fmt.Sprintf("%s ch=%d %d %d", e.Kind, e.Channel, e.Data1, e.Data2)
}

// Decode turns a raw frame into an Event. Frames that are not exactly three
// bytes long or carry a status other than CC / note on / note off decode to
// Unhandled.
func Decode(raw []byte) Event {
	if len(raw) != 3 {
		return Event{Kind: Unhandled}
	}

	ev := Event{
		Channel: raw[0] & ChannelMask,
		Data1:   raw[1],
		Data2:   raw[2],
	}

	switch raw[0] & StatusMask {
	case CC:
		ev.Kind = ControlChange
	case NoteOn:
		ev.Kind = NoteOnKind
	case NoteOff:
		ev.Kind = NoteOffKind
	default:
		return Event{Kind: Unhandled}
	}
	return ev
}

// Encode builds a frame from a status nibble, a channel and two data bytes.
// Values are not range checked beyond what gomidi does; callers keep them in
// 0-127.
func Encode(status, channel, data1, data2 uint8) gomidi.Message {
	switch status & StatusMask {
	case CC:
		return gomidi.ControlChange(channel, data1, data2)
	case NoteOn:
		return gomidi.NoteOn(channel, data1, data2)
	case NoteOff:
		return gomidi.NoteOffVelocity(channel, data1, data2)
	}
	return gomidi.Message{status&StatusMask | channel&ChannelMask, data1, data2}
}

// EncodeCC builds a control change frame
func EncodeCC(channel, controller, value uint8) gomidi.Message {
	return Encode(CC, channel, controller, value)
}

// EncodeNoteOn builds a note on frame (velocity 0 is a valid "off" LED)
func EncodeNoteOn(channel, note, velocity uint8) gomidi.Message {
	return Encode(NoteOn, channel, note, velocity)
}

// EncodeNoteOff builds a note off frame
func EncodeNoteOff(channel, note, velocity uint8) gomidi.Message {
	return Encode(NoteOff, channel, note, velocity)
}
