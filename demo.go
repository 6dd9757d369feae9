package main

import (
	"go-surface/config"
	"go-surface/session/memory"
)

// buildSession creates the in-memory session described by cfg
func buildSession(cfg config.SessionConfig) *memory.Song {
	song := memory.NewSong(cfg.Scenes)
	for _, name := range cfg.Returns {
		song.AddReturn(name)
	}

	folders := make(map[string]*memory.Track)
	for _, tc := range cfg.Tracks {
		var t *memory.Track
		switch {
		case tc.Folder:
			t = song.AddGroup(tc.Name)
			folders[tc.Name] = t
		case tc.Group != "":
			t = song.AddTrackIn(folders[tc.Group], tc.Name)
		default:
			t = song.AddTrack(tc.Name)
		}
		if tc.Rack > 0 {
			t.AddDevice(memory.NewRack(tc.Name+" Rack", tc.Rack))
		}
		for _, row := range tc.Clips {
			t.Slot(row).SetClip(true)
		}
	}
	return song
}
