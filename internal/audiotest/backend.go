// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
	"sync"

	"github.com/ik5/audsink/output"
)

var (
	ErrNoDevice      = errors.New("no output device")
	ErrVoiceRejected = errors.New("voice rejected")
	ErrCloseFailed   = errors.New("close failed")
)

// Backend is an output.Backend that never touches hardware. Voices are
// pulled by calling Pump.
type Backend struct {
	mu sync.Mutex

	// Unavailable makes Open fail with ErrNoDevice.
	Unavailable bool
	// RejectVoices makes NewVoice fail with ErrVoiceRejected.
	RejectVoices bool
	// FailClose makes Stream.Close report ErrCloseFailed. The stream is
	// still marked closed.
	FailClose bool
	// SampleRate and Channels override the requested format when non-zero.
	SampleRate int
	Channels   int

	streams []*Stream
}

func (b *Backend) Open(sampleRate, channels int) (output.Stream, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Unavailable {
		return nil, ErrNoDevice
	}
	if b.SampleRate > 0 {
		sampleRate = b.SampleRate
	}
	if b.Channels > 0 {
		channels = b.Channels
	}

	s := &Stream{backend: b, sampleRate: sampleRate, channels: channels}
	b.streams = append(b.streams, s)
	return s, nil
}

// Streams returns every stream opened so far.
func (b *Backend) Streams() []*Stream {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Stream, len(b.streams))
	copy(out, b.streams)
	return out
}

// Last returns the most recently opened stream or nil.
func (b *Backend) Last() *Stream {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.streams) == 0 {
		return nil
	}
	return b.streams[len(b.streams)-1]
}

type Stream struct {
	mu         sync.Mutex
	backend    *Backend
	sampleRate int
	channels   int
	voices     []*Voice
	closed     bool
}

func (s *Stream) SampleRate() int { return s.sampleRate }
func (s *Stream) Channels() int   { return s.channels }

func (s *Stream) NewVoice(r io.Reader) (output.Voice, error) {
	s.backend.mu.Lock()
	reject := s.backend.RejectVoices
	s.backend.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, output.ErrClosed
	}
	if reject {
		return nil, ErrVoiceRejected
	}

	v := &Voice{r: r, playing: true}
	s.voices = append(s.voices, v)
	return v, nil
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for _, v := range s.voices {
		_ = v.Close()
	}

	s.backend.mu.Lock()
	fail := s.backend.FailClose
	s.backend.mu.Unlock()

	if fail {
		return ErrCloseFailed
	}
	return nil
}

func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Voice returns the i-th voice or nil.
func (s *Stream) Voice(i int) *Voice {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.voices) {
		return nil
	}
	return s.voices[i]
}

type Voice struct {
	mu      sync.Mutex
	r       io.Reader
	playing bool
	closed  bool
}

func (v *Voice) Play() {
	v.mu.Lock()
	v.playing = true
	v.mu.Unlock()
}

func (v *Voice) Pause() {
	v.mu.Lock()
	v.playing = false
	v.mu.Unlock()
}

func (v *Voice) Close() error {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	return nil
}

func (v *Voice) Playing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.playing
}

func (v *Voice) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Pump reads n bytes from the voice's reader the way a device callback
// would.
func (v *Voice) Pump(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(v.r, buf)
	return buf[:read], err
}
