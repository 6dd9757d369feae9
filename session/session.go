// Package session describes the mixing-session model a control surface is
// bridged to. The engine only queries and observes it; implementations live
// outside the engine (see package memory for an in-memory one).
package session

// Subscription is a registered change listener. Cancel removes the listener
// and may be called more than once.
type Subscription interface {
	Cancel()
}

// SongEvent identifies a song-level change notification
type SongEvent int

const (
	SelectedSceneChanged SongEvent = iota
	SelectedTrackChanged
	VisibleTracksChanged
	IsPlayingChanged
	QuantizationChanged
)

// Attribute identifies a per-track observable attribute
type Attribute int

const (
	Mute Attribute = iota
	Solo
	Arm
	Monitor
	PlayingSlot
)

func (a Attribute) String() string {
	switch a {
	case Mute:
		return "mute"
	case Solo:
		return "solo"
	case Arm:
		return "arm"
	case Monitor:
		return "monitor"
	case PlayingSlot:
		return "playing_slot_index"
	}
	return "unknown"
}

// MonitorState is a track's input monitoring mode
type MonitorState int

const (
	MonitorOff MonitorState = iota
	MonitorIn
	MonitorAuto
)

// Next cycles off -> in -> auto -> off
func (m MonitorState) Next() MonitorState {
	switch m {
	case MonitorOff:
		return MonitorIn
	case MonitorIn:
		return MonitorAuto
	}
	return MonitorOff
}

// CrossfadeAssign is the crossfader side a track is assigned to
type CrossfadeAssign int

const (
	CrossfadeA CrossfadeAssign = iota
	CrossfadeNone
	CrossfadeB
)

// PlayingStatus of a clip slot
type PlayingStatus int

const (
	SlotStopped PlayingStatus = iota
	SlotPlaying
	SlotTriggered
)

// TrackCapabilities is fixed per track kind and read once when a strip is
// bound. A missing capability means the attribute is skipped, not an error.
type TrackCapabilities struct {
	CanArm         bool
	HasMute        bool
	HasSolo        bool
	HasMonitor     bool
	HasPlayingSlot bool
	CanCrossfade   bool
}

// Detail views toggled by the surfaces
const (
	ViewClip        = "Detail/Clip"
	ViewDeviceChain = "Detail/DeviceChain"
)

type Song interface {
	VisibleTracks() []Track
	ReturnTracks() []Track
	MasterTrack() Track
	Scenes() []Scene

	SelectedScene() Scene
	SetSelectedScene(s Scene)
	SelectedTrack() Track
	SetSelectedTrack(t Track)

	// Transport
	IsPlaying() bool
	StartPlaying()
	StopPlaying()
	StopAllClips()
	TapTempo()
	Tempo() float64
	SetTempo(bpm float64)
	SetNudgeUp(on bool)
	SetNudgeDown(on bool)
	Quantization() Quantization
	SetQuantization(q Quantization)

	View() View

	Observe(e SongEvent, fn func()) Subscription
}

type Track interface {
	Name() string
	Caps() TrackCapabilities
	IsFoldable() bool

	Mute() bool
	SetMute(on bool)
	Solo() bool
	SetSolo(on bool)
	Arm() bool
	SetArm(on bool)
	MonitorState() MonitorState
	SetMonitorState(m MonitorState)

	// PlayingSlotIndex is -1 when no clip plays
	PlayingSlotIndex() int
	ClipSlots() []ClipSlot
	StopAllClips()

	Mixer() Mixer
	Devices() []Device

	Observe(attr Attribute, fn func()) Subscription
}

type Mixer interface {
	Volume() Parameter
	Panning() Parameter
	Sends() []Parameter
	// CueVolume is nil when the mixer has none (only the master has one)
	CueVolume() Parameter

	CrossfadeAssign() CrossfadeAssign
	SetCrossfadeAssign(c CrossfadeAssign)
	ObserveCrossfade(fn func()) Subscription
}

type Parameter interface {
	Name() string
	Value() float64
	SetValue(v float64)
	Min() float64
	Max() float64
	Observe(fn func()) Subscription
}

type Device interface {
	Name() string
	// IsRack reports a device with macro-style parameters. Parameter 0 is the
	// device on/off, macros follow.
	IsRack() bool
	Parameters() []Parameter
}

type ClipSlot interface {
	HasClip() bool
	PlayingStatus() PlayingStatus
	ControlsOtherClips() bool
	SetFireButtonState(pressed bool)
	// Stop stops the slot's clip, if any
	Stop()
	ObserveHasClip(fn func()) Subscription
}

type Scene interface {
	Name() string
	ClipSlots() []ClipSlot
	SetFireButtonState(pressed bool)
	ObserveClipSlots(fn func()) Subscription
}

type View interface {
	IsViewVisible(name string) bool
	ShowView(name string)
	ObserveView(name string, fn func()) Subscription
}

// IndexOfTrack returns the index of t in tracks, or -1
func IndexOfTrack(tracks []Track, t Track) int {
	if t == nil {
		return -1
	}
	for i, tr := range tracks {
		if tr == t {
			return i
		}
	}
	return -1
}

// IndexOfScene returns the index of s in scenes, or -1
func IndexOfScene(scenes []Scene, s Scene) int {
	if s == nil {
		return -1
	}
	for i, sc := range scenes {
		if sc == s {
			return i
		}
	}
	return -1
}

// SelectedSceneIndex returns the selected scene's index, 0 when none is selected
func SelectedSceneIndex(song Song) int {
	idx := IndexOfScene(song.Scenes(), song.SelectedScene())
	if idx < 0 {
		return 0
	}
	return idx
}

// FirstRack returns the first rack in the chain, or nil
func FirstRack(devices []Device) Device {
	for _, d := range devices {
		if d != nil && d.IsRack() {
			return d
		}
	}
	return nil
}
