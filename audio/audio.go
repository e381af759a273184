// Package audio plays named looping sound effects and hands back stoppable
// stream handles. The speaker backend drives a real output device; the null
// backend is for headless servers, predictive peers, and tests.
package audio

import "errors"

var ErrUnknownSound = errors.New("audio: unknown sound")

// Stream is a playing sound that can be stopped once.
type Stream interface {
	Stop()
}

// Manager starts named sounds.
type Manager interface {
	// Play starts the named sound on a loop and returns its handle.
	Play(name string) (Stream, error)
}

// Null is a Manager that plays nothing.
type Null struct{}

func (Null) Play(string) (Stream, error) {
	return nopStream{}, nil
}

type nopStream struct{}

func (nopStream) Stop() {}
