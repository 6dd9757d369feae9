package main

import (
	"context"
	"fmt"
	"os"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-surface/host"
	"go-surface/midi"
	"go-surface/session"
	"go-surface/session/memory"
	"go-surface/surface"
)

func main() {
	if len(os.Args) < 4 {
		usage()
		return
	}

	class, err := surface.ParseClass(os.Args[2])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	out := os.Args[3]

	switch os.Args[1] {
	case "leds":
		err = withRunner(class, out, testLEDs)
	case "window":
		err = withRunner(class, out, testWindow)
	case "clear":
		err = withRunner(class, out, clearAll)
	default:
		usage()
		return
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Control surface LED tests")
	fmt.Println("")
	fmt.Println("Usage: surfacetest <command> <lv3|uc4> <output port>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  leds    - Walk mute, solo, arm and launch LEDs across the strips")
	fmt.Println("  window  - Scroll the track window and scene display")
	fmt.Println("  clear   - Push an empty session so every LED goes dark")
}

type step func(e *surface.Engine, song *memory.Song)

// withRunner drives a generated session on the output port and runs fn
// against it
func withRunner(class surface.Class, out string, fn func(do func(step)) error) error {
	port, err := midi.OpenPort("", out)
	if err != nil {
		return err
	}
	defer gomidi.CloseDriver()
	defer port.Close()

	song := testSession(16, 4)
	r, err := host.New(port, song, class, host.WithMessages(func(msg string) {
		fmt.Println(msg)
	}))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	do := func(s step) {
		if err := r.Do(ctx, func(e *surface.Engine, _ session.Song) { s(e, song) }); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		time.Sleep(100 * time.Millisecond)
	}
	err = fn(do)
	cancel()
	<-done
	fmt.Printf("Done! %d frames sent\n", midi.Sent())
	return err
}

func testSession(tracks, scenes int) *memory.Song {
	song := memory.NewSong(scenes)
	song.AddReturn("A")
	song.AddReturn("B")
	for i := 0; i < tracks; i++ {
		t := song.AddTrack(fmt.Sprintf("Track %d", i+1))
		t.Slot(i % scenes).SetClip(true)
	}
	return song
}

func testLEDs(do func(step)) error {
	fmt.Println("Walking strip LEDs...")
	do(func(e *surface.Engine, song *memory.Song) {})

	for i := 0; i < 8; i++ {
		i := i
		do(func(e *surface.Engine, song *memory.Song) {
			t := song.Tracks()[i]
			t.SetMute(true)
			t.SetSolo(true)
			t.SetArm(true)
			t.SetMonitorState(session.MonitorIn)
		})
	}
	do(func(e *surface.Engine, song *memory.Song) {
		song.Scenes()[0].SetFireButtonState(true)
	})

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	do(func(e *surface.Engine, song *memory.Song) {
		song.StopPlaying()
		for _, t := range song.Tracks() {
			t.SetMute(false)
			t.SetSolo(false)
			t.SetArm(false)
			t.SetMonitorState(session.MonitorOff)
		}
	})
	return nil
}

func testWindow(do func(step)) error {
	fmt.Println("Scrolling the track window and scenes...")
	for i := 0; i < 4; i++ {
		// the track window encoder only exists on the LV3 global channel
		do(func(e *surface.Engine, song *memory.Song) {
			if e.Class() == surface.ClassLV3 {
				e.ReceiveMIDI([]byte(midi.EncodeCC(11, 9, 1)))
			}
		})
	}
	for _, sc := range []int{1, 2, 3, 0} {
		sc := sc
		do(func(e *surface.Engine, song *memory.Song) {
			song.SetSelectedScene(song.Scenes()[sc])
		})
	}
	return nil
}

func clearAll(do func(step)) error {
	fmt.Println("Clearing...")
	do(func(e *surface.Engine, song *memory.Song) {
		for _, t := range append([]*memory.Track(nil), song.Tracks()...) {
			song.RemoveTrack(t)
		}
	})
	do(func(e *surface.Engine, song *memory.Song) {
		e.RefreshState()
	})
	return nil
}
