// SPDX-License-Identifier: EPL-2.0

//go:build malgo

package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/gen2brain/malgo"
)

func init() {
	Register("malgo", func() Backend { return NewMalgo() })
}

// Malgo plays through miniaudio via github.com/gen2brain/malgo. Every voice
// gets its own playback device on one shared malgo context per stream.
type Malgo struct{}

func NewMalgo() *Malgo {
	return &Malgo{}
}

func (m *Malgo) Open(sampleRate, channels int) (Stream, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, ErrInvalidFormat
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	return &malgoStream{
		ctx:        ctx,
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

type malgoStream struct {
	mu         sync.Mutex
	ctx        *malgo.AllocatedContext
	sampleRate int
	channels   int
	voices     []*malgoVoice
	closed     bool
}

func (s *malgoStream) SampleRate() int { return s.sampleRate }
func (s *malgoStream) Channels() int   { return s.channels }

func (s *malgoStream) NewVoice(r io.Reader) (Voice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	v := &malgoVoice{r: r}

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatS16
	cfg.Playback.Channels = uint32(s.channels)
	cfg.SampleRate = uint32(s.sampleRate)
	cfg.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(s.ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: func(out, _ []byte, _ uint32) { v.fill(out) },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("failed to start device: %w", err)
	}
	v.device = device

	s.voices = append(s.voices, v)
	return v, nil
}

func (s *malgoStream) Close() error {
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

	if err := s.ctx.Uninit(); err != nil && first == nil {
		first = fmt.Errorf("malgo context uninit: %w", err)
	}
	s.ctx.Free()
	return first
}

type malgoVoice struct {
	mu     sync.Mutex
	r      io.Reader
	device *malgo.Device
	paused bool
	done   bool
}

// fill runs on the miniaudio callback thread. out is already S16LE sized.
func (v *malgoVoice) fill(out []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.paused || v.done {
		clear(out)
		return
	}

	n, err := io.ReadFull(v.r, out)
	clear(out[n:])
	if err != nil {
		v.done = true
	}
}

func (v *malgoVoice) Play() {
	v.mu.Lock()
	v.paused = false
	v.mu.Unlock()
}

func (v *malgoVoice) Pause() {
	v.mu.Lock()
	v.paused = true
	v.mu.Unlock()
}

func (v *malgoVoice) Close() error {
	v.mu.Lock()
	device := v.device
	v.device = nil
	v.done = true
	v.mu.Unlock()

	if device == nil {
		return nil
	}
	err := device.Stop()
	device.Uninit()
	if err != nil {
		return fmt.Errorf("stopping malgo device: %w", err)
	}
	return nil
}
