// Package host embeds a surface.Engine in a concurrent process. One goroutine
// owns the engine and the session; everything else talks to it through
// channels.
package host

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"go-surface/debug"
	"go-surface/midi"
	"go-surface/session"
	"go-surface/surface"
)

// Display refresh rate
const displayFPS = 30

// Highlight is the session box shown around the strips
type Highlight struct {
	Track, Scene, Width, Height int
}

// Runner is the actor around one engine. It implements surface.Host.
type Runner struct {
	ctrl   midi.Controller
	song   session.Song
	engine *surface.Engine

	calls   chan func()
	rebuild bool

	highlight Highlight
	messages  func(msg string)
	sendErrs  int
}

// Option configures a Runner
type Option func(*Runner)

// WithMessages routes ShowMessage text to fn
func WithMessages(fn func(msg string)) Option {
	return func(r *Runner) {
		r.messages = fn
	}
}

// New wires ctrl and song to a new engine of class
func New(ctrl midi.Controller, song session.Song, class surface.Class, opts ...Option) (*Runner, error) {
	r := &Runner{
		ctrl:  ctrl,
		song:  song,
		calls: make(chan func()),
	}
	for _, opt := range opts {
		opt(r)
	}
	e, err := surface.New(r, song, class)
	if err != nil {
		return nil, errors.Wrap(err, "create engine")
	}
	r.engine = e
	return r, nil
}

// Run serves the engine until ctx is done or the controller closes
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / displayFPS)
	defer ticker.Stop()
	defer r.engine.Disconnect()

	r.flush()
	frames := r.ctrl.Frames()
	for {
		select {
		case <-ctx.Done():
			debug.Log("host", "stopping: %v", ctx.Err())
			return nil
		case frame, ok := <-frames:
			if !ok {
				return errors.Errorf("controller %s closed", r.ctrl.ID())
			}
			r.engine.ReceiveMIDI(frame)
			r.flush()
		case fn := <-r.calls:
			fn()
			r.flush()
		case <-ticker.C:
			r.engine.UpdateDisplay()
			r.flush()
		}
	}
}

// flush runs the deferred rebuild once for the batch just processed
func (r *Runner) flush() {
	if !r.rebuild {
		return
	}
	r.rebuild = false
	r.engine.BuildMap()
}

// Do runs fn on the engine goroutine and waits for it
func (r *Runner) Do(ctx context.Context, fn func(e *surface.Engine, song session.Song)) error {
	done := make(chan struct{})
	call := func() {
		defer close(done)
		fn(r.engine, r.song)
	}
	select {
	case r.calls <- call:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendMIDI writes a frame to the controller
func (r *Runner) SendMIDI(frame []byte) {
	if err := r.ctrl.Send(frame); err != nil {
		r.sendErrs++
		debug.LogEvery(50, "host", "send to %s failed: %v", r.ctrl.ID(), err)
	}
}

// RequestRebuild defers BuildMap to the end of the current batch
func (r *Runner) RequestRebuild() {
	r.rebuild = true
}

func (r *Runner) ShowMessage(msg string) {
	debug.Log("host", "message: %s", msg)
	if r.messages != nil {
		r.messages(msg)
	}
}

func (r *Runner) SetSessionHighlight(track, scene, width, height int) {
	r.highlight = Highlight{Track: track, Scene: scene, Width: width, Height: height}
	debug.Fields("host", "session highlight", map[string]any{
		"track":  track,
		"scene":  scene,
		"width":  width,
		"height": height,
	})
}

// ToggleLock locks the macro controls to the selected track's rack, or
// releases the current lock
func (r *Runner) ToggleLock() {
	if d := r.engine.Locked(); d != nil {
		r.engine.UnlockFromDevice(d)
		return
	}
	t := r.song.SelectedTrack()
	if t == nil {
		return
	}
	r.engine.LockToDevice(session.FirstRack(t.Devices()))
}

// Highlight returns the last session highlight; call it from Do
func (r *Runner) Highlight() Highlight {
	return r.highlight
}
