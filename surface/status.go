package surface

import (
	"go-surface/midi"
	"go-surface/session"
)

// LaunchStatus is the launch/stop LED pair of one strip
type LaunchStatus struct {
	Launch uint8
	Stop   uint8
}

// launchStatus derives the launch/stop LEDs for t at scene row. A nil track
// is dark. stopDefault is what a non-group track shows before its playing
// state is looked at.
func launchStatus(t session.Track, row int, stopDefault uint8) LaunchStatus {
	st := LaunchStatus{Launch: midi.ValueOff, Stop: midi.ValueOff}
	if t == nil {
		return st
	}

	slots := t.ClipSlots()
	if t.IsFoldable() {
		st.Stop = midi.ValueOn
		if row < len(slots) {
			slot := slots[row]
			if slot.ControlsOtherClips() {
				st.Launch = midi.ValueOn
			}
			if slot.PlayingStatus() == session.SlotPlaying {
				st.Launch = midi.ValueBlink
			}
		}
		for _, slot := range slots {
			if slot.ControlsOtherClips() && slot.PlayingStatus() == session.SlotPlaying {
				st.Stop = midi.ValueOff
				break
			}
		}
		return st
	}

	st.Stop = stopDefault
	if !t.Caps().HasPlayingSlot || row >= len(slots) {
		return st
	}
	if slots[row].HasClip() {
		st.Launch = midi.ValueOn
	}
	playing := t.PlayingSlotIndex()
	if playing == row {
		st.Launch = midi.ValueBlink
	}
	if playing < 0 {
		st.Stop = midi.ValueOn
	} else {
		st.Stop = midi.ValueOff
	}
	return st
}

// Monitor encodings per controller class. LV3 has a tri-state LED, UC4 a
// two-state toggle.
var (
	lv3MonitorValues = map[session.MonitorState]uint8{
		session.MonitorOff:  midi.ValueOff,
		session.MonitorIn:   midi.ValueBlink,
		session.MonitorAuto: midi.ValueOn,
	}
	uc4MonitorValues = map[session.MonitorState]uint8{
		session.MonitorOff:  midi.ValueOff,
		session.MonitorIn:   midi.ValueOn,
		session.MonitorAuto: midi.ValueOn,
	}
)

var crossfadeFeedback = map[session.CrossfadeAssign]uint8{
	session.CrossfadeA:    0,
	session.CrossfadeNone: 64,
	session.CrossfadeB:    127,
}

// crossfadeFromValue maps a fader position to an assignment
func crossfadeFromValue(v uint8) session.CrossfadeAssign {
	switch {
	case v < 32:
		return session.CrossfadeA
	case v < 96:
		return session.CrossfadeNone
	}
	return session.CrossfadeB
}

// trackValue reads a boolean-ish attribute as an LED value. Missing
// capabilities and nil tracks are dark. Mute is shown as "active".
func trackValue(t session.Track, attr Attribute, monitor map[session.MonitorState]uint8) uint8 {
	if t == nil {
		return midi.ValueOff
	}
	caps := t.Caps()
	on := false
	switch attr {
	case AttrMute:
		on = caps.HasMute && !t.Mute()
	case AttrSolo:
		on = caps.HasSolo && t.Solo()
	case AttrArm:
		on = caps.CanArm && t.Arm()
	case AttrMonitor:
		if !caps.HasMonitor {
			return midi.ValueOff
		}
		return monitor[t.MonitorState()]
	case AttrPanCentered:
		// centered is dark, off-center lights the pan key
		on = t.Mixer().Panning().Value() != 0
	}
	if on {
		return midi.ValueOn
	}
	return midi.ValueOff
}

// scaleToMIDI maps a parameter value onto 0-127
func scaleToMIDI(p session.Parameter) uint8 {
	span := p.Max() - p.Min()
	if span <= 0 {
		return 0
	}
	v := int((p.Value()-p.Min())/span*127 + 0.5)
	return uint8(midi.Clamp(v, 0, 127))
}

// counterValue is the 1-based position shown on scene/window displays
func counterValue(idx int) uint8 {
	return uint8(midi.Clamp(idx+1, 0, 99))
}

func cc(channel, controller, value uint8) []byte {
	return []byte(midi.EncodeCC(channel, controller, value))
}

func noteOn(channel, note, velocity uint8) []byte {
	return []byte(midi.EncodeNoteOn(channel, note, velocity))
}
