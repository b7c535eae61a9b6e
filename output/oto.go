// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

func init() {
	Register("oto", func() Backend { return NewOto() })
}

// oto allows a single context per process, so it is shared by every Oto
// backend and never torn down.
var shared struct {
	mu         sync.Mutex
	ctx        *oto.Context
	err        error
	sampleRate int
	channels   int
}

// Oto plays through github.com/ebitengine/oto/v3.
type Oto struct {
	// BufferSize is the device buffer length; zero lets oto decide.
	BufferSize time.Duration
	Logger     *log.Logger
}

func NewOto() *Oto {
	return &Oto{BufferSize: 100 * time.Millisecond}
}

func (o *Oto) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// Open initializes the process context on first use. Later calls with a
// different format get a stream in the format the context was created with.
func (o *Oto) Open(sampleRate, channels int) (Stream, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, ErrInvalidFormat
	}

	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.err != nil {
		return nil, shared.err
	}

	if shared.ctx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   o.BufferSize,
		}

		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			shared.err = fmt.Errorf("creating oto context: %w", err)
			return nil, shared.err
		}
		<-ready

		shared.ctx = ctx
		shared.sampleRate = sampleRate
		shared.channels = channels
		o.logger().Printf("audio output initialized: %dHz, %d channels", sampleRate, channels)
	} else if shared.sampleRate != sampleRate || shared.channels != channels {
		o.logger().Printf("audio output already running at %dHz %dch, requested %dHz %dch",
			shared.sampleRate, shared.channels, sampleRate, channels)
	}

	if err := shared.ctx.Err(); err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}

	if err := shared.ctx.Resume(); err != nil {
		return nil, fmt.Errorf("resuming oto context: %w", err)
	}

	return &otoStream{
		ctx:        shared.ctx,
		sampleRate: shared.sampleRate,
		channels:   shared.channels,
	}, nil
}

type otoStream struct {
	mu         sync.Mutex
	ctx        *oto.Context
	sampleRate int
	channels   int
	voices     []*otoVoice
	closed     bool
}

func (s *otoStream) SampleRate() int { return s.sampleRate }
func (s *otoStream) Channels() int   { return s.channels }

func (s *otoStream) NewVoice(r io.Reader) (Voice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	p := s.ctx.NewPlayer(r)
	p.Play()

	v := &otoVoice{player: p}
	s.voices = append(s.voices, v)
	return v, nil
}

// Close stops every voice on the stream. The shared context stays up.
func (s *otoStream) Close() error {
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
	return first
}

type otoVoice struct {
	mu     sync.Mutex
	player *oto.Player
}

func (v *otoVoice) Play() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.player != nil {
		v.player.Play()
	}
}

func (v *otoVoice) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.player != nil {
		v.player.Pause()
	}
}

func (v *otoVoice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.player == nil {
		return nil
	}
	err := v.player.Close()
	v.player = nil
	if err != nil {
		return fmt.Errorf("closing oto player: %w", err)
	}
	return nil
}
