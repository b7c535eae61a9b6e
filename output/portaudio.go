// SPDX-License-Identifier: EPL-2.0

//go:build portaudio

package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/gordonklaus/portaudio"
)

func init() {
	Register("portaudio", func() Backend { return NewPortAudio() })
}

// PortAudio plays through github.com/gordonklaus/portaudio. Each voice is a
// separate default-device stream.
type PortAudio struct {
	FramesPerBuffer int
}

func NewPortAudio() *PortAudio {
	return &PortAudio{FramesPerBuffer: 1024}
}

func (p *PortAudio) Open(sampleRate, channels int) (Stream, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, ErrInvalidFormat
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}

	if _, err := portaudio.DefaultOutputDevice(); err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("no default output device: %w", err)
	}

	return &paStream{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     p.FramesPerBuffer,
	}, nil
}

type paStream struct {
	mu         sync.Mutex
	sampleRate int
	channels   int
	frames     int
	voices     []*paVoice
	closed     bool
}

func (s *paStream) SampleRate() int { return s.sampleRate }
func (s *paStream) Channels() int   { return s.channels }

func (s *paStream) NewVoice(r io.Reader) (Voice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	v := &paVoice{r: r}
	stream, err := portaudio.OpenDefaultStream(0, s.channels, float64(s.sampleRate), s.frames, v.fill)
	if err != nil {
		return nil, fmt.Errorf("opening portaudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("starting portaudio stream: %w", err)
	}
	v.stream = stream

	s.voices = append(s.voices, v)
	return v, nil
}

func (s *paStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var first error
	for _, v := range s.voices {
		if err := v.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.voices = nil

	if err := portaudio.Terminate(); err != nil && first == nil {
		first = fmt.Errorf("terminating portaudio: %w", err)
	}
	return first
}

type paVoice struct {
	mu     sync.Mutex
	r      io.Reader
	stream *portaudio.Stream
	buf    []byte
	paused bool
	done   bool
}

// fill runs on the portaudio callback thread.
func (v *paVoice) fill(out []int16) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.paused || v.done {
		clear(out)
		return
	}

	need := len(out) * BytesPerSample
	if cap(v.buf) < need {
		v.buf = make([]byte, need)
	}
	v.buf = v.buf[:need]

	n, err := io.ReadFull(v.r, v.buf)
	samples := n / BytesPerSample
	for i := range samples {
		out[i] = int16(binary.LittleEndian.Uint16(v.buf[i*2:]))
	}
	clear(out[samples:])

	if err != nil {
		v.done = true
	}
}

func (v *paVoice) Play() {
	v.mu.Lock()
	v.paused = false
	v.mu.Unlock()
}

func (v *paVoice) Pause() {
	v.mu.Lock()
	v.paused = true
	v.mu.Unlock()
}

func (v *paVoice) Close() error {
	v.mu.Lock()
	stream := v.stream
	v.stream = nil
	v.done = true
	v.mu.Unlock()

	if stream == nil {
		return nil
	}
	if err := stream.Stop(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("stopping portaudio stream: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("closing portaudio stream: %w", err)
	}
	return nil
}
