package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// SpeakerManager mixes named sound buffers onto the system speaker.
type SpeakerManager struct {
	rate   beep.SampleRate
	sounds map[string]*beep.Buffer
}

// NewSpeakerManager initializes the speaker at the given sample rate.
func NewSpeakerManager(rate beep.SampleRate) (*SpeakerManager, error) {
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}
	return &SpeakerManager{
		rate:   rate,
		sounds: make(map[string]*beep.Buffer),
	}, nil
}

// LoadWAV decodes a wav stream and registers it under name, resampling to
// the speaker rate when needed.
func (m *SpeakerManager) LoadWAV(name string, r io.ReadCloser) error {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return fmt.Errorf("audio: decode %s: %w", name, err)
	}
	defer streamer.Close()

	target := beep.Format{SampleRate: m.rate, NumChannels: format.NumChannels, Precision: format.Precision}
	buf := beep.NewBuffer(target)
	if format.SampleRate == m.rate {
		buf.Append(streamer)
	} else {
		buf.Append(beep.Resample(4, format.SampleRate, m.rate, streamer))
	}
	m.sounds[name] = buf
	return nil
}

// Play loops the named sound until the returned handle is stopped.
func (m *SpeakerManager) Play(name string) (Stream, error) {
	buf, ok := m.sounds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSound, name)
	}
	ctrl := &beep.Ctrl{Streamer: beep.Loop(-1, buf.Streamer(0, buf.Len()))}
	speaker.Play(ctrl)
	return &speakerStream{ctrl: ctrl}, nil
}

type speakerStream struct {
	ctrl *beep.Ctrl
}

func (s *speakerStream) Stop() {
	speaker.Lock()
	s.ctrl.Paused = true
	s.ctrl.Streamer = nil
	speaker.Unlock()
}
