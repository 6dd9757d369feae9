// Package memory is an in-memory session model. It backs the bridge's demo
// session and the engine tests. It is not safe for concurrent use; callers
// serialize access the same way the engine does.
package memory

import (
	"go-surface/session"
)

type songKey struct{ e session.SongEvent }

type attrKey struct {
	t *Track
	a session.Attribute
}

type paramKey struct{ p *Parameter }
type crossfadeKey struct{ m *Mixer }
type hasClipKey struct{ s *ClipSlot }
type sceneKey struct{ s *Scene }
type viewKey struct{ name string }

// Song is the root of the in-memory session
type Song struct {
	hub *hub

	tracks  []*Track
	returns []*Track
	master  *Track
	scenes  []*Scene

	selScene *Scene
	selTrack *Track

	playing   bool
	tempo     float64
	nudgeUp   bool
	nudgeDown bool
	taps      int
	quant     session.Quantization

	view *View
}

// NewSong creates a song with a master track and the given number of scenes
func NewSong(scenes int) *Song {
	s := &Song{
		hub:   &hub{},
		tempo: 120,
		quant: session.QuantizeBar,
	}
	s.view = &View{song: s, visible: map[string]bool{session.ViewClip: true}}
	s.master = s.newTrack("Master", kindMaster)
	for i := 0; i < scenes; i++ {
		s.AddScene()
	}
	return s
}

// AddTrack appends a regular track
func (s *Song) AddTrack(name string) *Track {
	return s.addTrack(name, kindNormal, nil)
}

// AddGroup appends a foldable group track
func (s *Song) AddGroup(name string) *Track {
	return s.addTrack(name, kindGroup, nil)
}

// AddTrackIn appends a regular track inside group
func (s *Song) AddTrackIn(group *Track, name string) *Track {
	return s.addTrack(name, kindNormal, group)
}

func (s *Song) addTrack(name string, kind trackKind, group *Track) *Track {
	t := s.newTrack(name, kind)
	t.group = group
	for range s.scenes {
		t.slots = append(t.slots, &ClipSlot{track: t, row: len(t.slots)})
	}
	for _, r := range s.returns {
		t.mixer.sends = append(t.mixer.sends, s.param(r.name, 0, 1, 0))
	}
	s.tracks = append(s.tracks, t)
	if s.selTrack == nil {
		s.selTrack = t
	}
	s.hub.notify(songKey{session.VisibleTracksChanged})
	s.notifyScenes()
	return t
}

// AddReturn appends a return track and a send on every other track
func (s *Song) AddReturn(name string) *Track {
	t := s.newTrack(name, kindReturn)
	s.returns = append(s.returns, t)
	for _, tr := range s.tracks {
		tr.mixer.sends = append(tr.mixer.sends, s.param(name, 0, 1, 0))
	}
	return t
}

// RemoveTrack deletes a regular or group track
func (s *Song) RemoveTrack(t *Track) {
	for i, tr := range s.tracks {
		if tr == t {
			s.tracks = append(s.tracks[:i], s.tracks[i+1:]...)
			break
		}
	}
	if s.selTrack == t {
		s.selTrack = nil
		if len(s.tracks) > 0 {
			s.selTrack = s.tracks[0]
		}
		s.hub.notify(songKey{session.SelectedTrackChanged})
	}
	s.hub.notify(songKey{session.VisibleTracksChanged})
	s.notifyScenes()
}

// AddScene appends a scene and a clip slot on every clip track
func (s *Song) AddScene() *Scene {
	sc := &Scene{song: s, row: len(s.scenes), name: ""}
	s.scenes = append(s.scenes, sc)
	for _, t := range s.tracks {
		t.slots = append(t.slots, &ClipSlot{track: t, row: len(t.slots)})
	}
	if s.selScene == nil {
		s.selScene = sc
	}
	return sc
}

func (s *Song) newTrack(name string, kind trackKind) *Track {
	t := &Track{
		song:    s,
		name:    name,
		kind:    kind,
		playing: -1,
	}
	t.mixer = &Mixer{
		track:     t,
		volume:    s.param("Volume", 0, 1, 0.85),
		panning:   s.param("Pan", -1, 1, 0),
		crossfade: session.CrossfadeNone,
	}
	if kind == kindMaster {
		t.mixer.cue = s.param("Cue Volume", 0, 1, 0.85)
	}
	return t
}

func (s *Song) param(name string, min, max, value float64) *Parameter {
	p := NewParameter(name, min, max, value)
	p.hub = s.hub
	return p
}

func (s *Song) notifyScenes() {
	for _, sc := range s.scenes {
		s.hub.notify(sceneKey{sc})
	}
}

// Listeners returns the number of registered listeners across the song
func (s *Song) Listeners() int {
	return s.hub.total()
}

// Tracks returns every regular and group track, folded or not
func (s *Song) Tracks() []*Track {
	return s.tracks
}

func (s *Song) VisibleTracks() []session.Track {
	var out []session.Track
	for _, t := range s.tracks {
		if t.visible() {
			out = append(out, t)
		}
	}
	return out
}

func (s *Song) ReturnTracks() []session.Track {
	out := make([]session.Track, len(s.returns))
	for i, t := range s.returns {
		out[i] = t
	}
	return out
}

func (s *Song) MasterTrack() session.Track {
	return s.master
}

func (s *Song) Scenes() []session.Scene {
	out := make([]session.Scene, len(s.scenes))
	for i, sc := range s.scenes {
		out[i] = sc
	}
	return out
}

func (s *Song) SelectedScene() session.Scene {
	if s.selScene == nil {
		return nil
	}
	return s.selScene
}

func (s *Song) SetSelectedScene(sc session.Scene) {
	scene, ok := sc.(*Scene)
	if !ok || scene == s.selScene {
		return
	}
	s.selScene = scene
	s.hub.notify(songKey{session.SelectedSceneChanged})
}

func (s *Song) SelectedTrack() session.Track {
	if s.selTrack == nil {
		return nil
	}
	return s.selTrack
}

func (s *Song) SetSelectedTrack(t session.Track) {
	track, ok := t.(*Track)
	if !ok || track == s.selTrack {
		return
	}
	s.selTrack = track
	s.hub.notify(songKey{session.SelectedTrackChanged})
}

func (s *Song) IsPlaying() bool {
	return s.playing
}

func (s *Song) StartPlaying() {
	s.setPlaying(true)
}

func (s *Song) StopPlaying() {
	s.setPlaying(false)
	s.StopAllClips()
}

func (s *Song) setPlaying(on bool) {
	if s.playing == on {
		return
	}
	s.playing = on
	s.hub.notify(songKey{session.IsPlayingChanged})
}

func (s *Song) StopAllClips() {
	for _, t := range s.tracks {
		t.StopAllClips()
	}
}

func (s *Song) TapTempo() {
	s.taps++
}

// Taps returns how often tap tempo was pressed
func (s *Song) Taps() int {
	return s.taps
}

func (s *Song) Tempo() float64 {
	return s.tempo
}

func (s *Song) SetTempo(bpm float64) {
	if bpm < 20 {
		bpm = 20
	}
	if bpm > 999 {
		bpm = 999
	}
	s.tempo = bpm
}

func (s *Song) SetNudgeUp(on bool) {
	s.nudgeUp = on
}

func (s *Song) SetNudgeDown(on bool) {
	s.nudgeDown = on
}

// Nudge returns the nudge button states
func (s *Song) Nudge() (down, up bool) {
	return s.nudgeDown, s.nudgeUp
}

func (s *Song) Quantization() session.Quantization {
	return s.quant
}

func (s *Song) SetQuantization(q session.Quantization) {
	if q == s.quant {
		return
	}
	s.quant = q
	s.hub.notify(songKey{session.QuantizationChanged})
}

func (s *Song) View() session.View {
	return s.view
}

func (s *Song) Observe(e session.SongEvent, fn func()) session.Subscription {
	return s.hub.add(songKey{e}, fn)
}
