package ui

// playbackTickMsg advances playback by one frame. Ticks from an older
// playback run carry a stale generation and are dropped.
type playbackTickMsg struct {
	gen int
}
