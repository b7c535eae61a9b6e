// SPDX-License-Identifier: EPL-2.0

package audsink

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/ik5/audsink/audio"
	"github.com/ik5/audsink/formats"
	"github.com/ik5/audsink/output"
	"github.com/ik5/audsink/sink"
)

// Player keeps one sink and the stream it plays on. Both are set together
// by Load and cleared together by Stop, Close or a failed Load.
type Player struct {
	mu sync.Mutex

	backend    output.Backend
	registry   *audio.Registry
	logger     *log.Logger
	sampleRate int
	channels   int

	volume float64 // 1.0 is unity gain
	speed  float64

	sink   *sink.Sink
	stream output.Stream
	format string
	err    error
}

// State is a snapshot of the player.
type State struct {
	Loaded bool    `json:"loaded"`
	Paused bool    `json:"paused"`
	Empty  bool    `json:"empty"`
	Volume float64 `json:"volume"` // percent
	Speed  float64 `json:"speed"`
	Format string  `json:"format,omitempty"`
}

func NewPlayer(opts ...Option) *Player {
	p := &Player{
		volume:     1,
		speed:      1,
		sampleRate: DefaultSampleRate,
		channels:   DefaultChannels,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.backend == nil {
		p.backend = output.NewOto()
	}
	if p.registry == nil {
		p.registry = formats.Default()
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	p.speed = sink.ClampSpeed(p.speed)

	return p
}

// Load replaces whatever is loaded with data and starts playing it. It
// returns false when no output device can be opened or data cannot be
// decoded; the player is then empty.
func (p *Player) Load(data []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.release(); err != nil {
		p.logger.Printf("audsink: releasing previous stream: %v", err)
	}

	stream, err := p.backend.Open(p.sampleRate, p.channels)
	if err != nil {
		return p.fail(fmt.Errorf("opening output stream: %w", err))
	}

	s, err := sink.New(stream)
	if err != nil {
		_ = stream.Close()
		return p.fail(fmt.Errorf("creating sink: %w", err))
	}
	s.SetVolume(p.volume)
	s.SetSpeed(p.speed)

	src, format, err := p.registry.Decode(bytes.NewReader(data))
	if err == nil {
		err = s.Append(src)
		if err != nil {
			_ = src.Close()
		}
	}
	if err != nil {
		s.Stop()
		_ = stream.Close()
		return p.fail(fmt.Errorf("decoding: %w", err))
	}

	p.sink = s
	p.stream = stream
	p.format = format
	p.err = nil

	p.logger.Printf("audsink: loaded %s, %d bytes, output %d Hz %d ch",
		format, len(data), stream.SampleRate(), stream.Channels())
	return true
}

// Play resumes playback. It reports false when nothing is loaded or the
// loaded audio has finished.
func (p *Player) Play() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sink == nil {
		p.err = ErrNoSink
		return false
	}
	if p.sink.Empty() {
		p.err = ErrDrained
		return false
	}

	p.sink.Play()
	p.err = nil
	return true
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sink != nil {
		p.sink.Pause()
	}
}

// Stop ends playback and releases the sink and stream.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.release(); err != nil {
		p.logger.Printf("audsink: stop: %v", err)
	}
}

// SetVolume takes a percentage (0..100, clamped). Without a loaded sink
// the call is ignored and the stored volume is unchanged.
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sink == nil {
		return
	}

	p.volume = clampPercent(level) / 100
	p.sink.SetVolume(p.volume)
}

// SetSpeed sets the playback rate multiplier, clamped to
// [sink.MinSpeed, sink.MaxSpeed]. It is kept for later loads even when
// nothing is loaded.
func (p *Player) SetSpeed(speed float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.speed = sink.ClampSpeed(speed)
	if p.sink != nil {
		p.sink.SetSpeed(p.speed)
	}
}

// Empty reports true when nothing is loaded or playback has finished.
func (p *Player) Empty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.sink == nil || p.sink.Empty()
}

// Volume returns the stored volume as a percentage.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume * 100
}

func (p *Player) Speed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sink != nil && p.sink.IsPaused()
}

// Err returns the reason behind the last failed call, or nil after a
// successful Load or Play. Decode errors hit during playback are reported
// once the track has been dropped.
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err == nil && p.sink != nil {
		return p.sink.Err()
	}
	return p.err
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := State{
		Loaded: p.sink != nil,
		Empty:  true,
		Volume: p.volume * 100,
		Speed:  p.speed,
	}
	if p.sink != nil {
		st.Paused = p.sink.IsPaused()
		st.Empty = p.sink.Empty()
		st.Format = p.format
	}
	return st
}

// Close stops playback. The player can still be loaded again afterwards.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.release()
}

// release drops the sink and stream together. Must hold p.mu.
func (p *Player) release() error {
	if p.sink == nil {
		return nil
	}

	p.sink.Stop()
	err := p.stream.Close()

	p.sink = nil
	p.stream = nil
	p.format = ""

	if err != nil {
		return fmt.Errorf("closing output stream: %w", err)
	}
	return nil
}

func (p *Player) fail(err error) bool {
	p.err = err
	p.logger.Printf("audsink: load failed: %v", err)
	return false
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
