// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/ik5/audsink/audio"
	"github.com/ik5/audsink/output"
	"github.com/ik5/audsink/utils"
)

// Speed limits accepted by SetSpeed.
const (
	MinSpeed = 0.25
	MaxSpeed = 4.0
)

type track struct {
	res *audio.Resampler
	src audio.Source // res, channel mapped to the stream
}

// Sink renders its queue as signed 16-bit little-endian PCM.
type Sink struct {
	mu sync.Mutex

	voice    output.Voice
	rate     int
	channels int

	queue   []*track
	paused  bool
	stopped bool
	volume  float64
	speed   float64

	buf []float32
	err error
}

// New attaches a voice reading from the sink to stream. The sink starts
// unpaused with unity volume and speed.
func New(stream output.Stream) (*Sink, error) {
	s := &Sink{
		rate:     stream.SampleRate(),
		channels: stream.Channels(),
		volume:   1,
		speed:    1,
	}
	if s.rate <= 0 || s.channels <= 0 {
		return nil, output.ErrInvalidFormat
	}

	voice, err := stream.NewVoice(s)
	if err != nil {
		return nil, fmt.Errorf("creating voice: %w", err)
	}

	s.mu.Lock()
	s.voice = voice
	s.mu.Unlock()

	return s, nil
}

// Append queues src behind whatever is already playing.
func (s *Sink) Append(src audio.Source) error {
	if src == nil {
		return ErrNilSource
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}

	if err := audio.CheckFormat(src.SampleRate(), src.Channels()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}

	res := audio.NewResampler(src, s.targetRate())
	mapped, err := audio.NewChannelMixer(res, s.channels)
	if err != nil {
		return fmt.Errorf("mapping channels: %w", err)
	}

	s.queue = append(s.queue, &track{res: res, src: mapped})
	return nil
}

func (s *Sink) Play() {
	s.mu.Lock()
	s.paused = false
	v := s.voice
	s.mu.Unlock()

	if v != nil {
		v.Play()
	}
}

// Pause keeps the queue position; the voice is fed silence until Play.
func (s *Sink) Pause() {
	s.mu.Lock()
	s.paused = true
	v := s.voice
	s.mu.Unlock()

	if v != nil {
		v.Pause()
	}
}

func (s *Sink) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Stop drops the queue and closes the voice. A stopped sink cannot be
// reused.
func (s *Sink) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for _, t := range s.queue {
		_ = t.src.Close()
	}
	s.queue = nil
	v := s.voice
	s.voice = nil
	s.mu.Unlock()

	// The device may be blocked in Read waiting for s.mu; close outside it.
	if v != nil {
		_ = v.Close()
	}
}

// SetVolume sets the linear gain; negative values are treated as zero.
func (s *Sink) SetVolume(v float64) {
	if v < 0 || math.IsNaN(v) {
		v = 0
	}

	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()
}

func (s *Sink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetSpeed changes the playback rate of every queued source. It is clamped
// to [MinSpeed, MaxSpeed]; pitch follows the rate.
func (s *Sink) SetSpeed(speed float64) {
	speed = ClampSpeed(speed)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.speed = speed
	rate := s.targetRate()
	for _, t := range s.queue {
		t.res.SetRate(rate)
	}
}

func (s *Sink) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// Empty reports whether every queued source has finished.
func (s *Sink) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) == 0
}

// Len is the number of sources still queued, including the one playing.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Err returns the last decode error hit while rendering.
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Read implements io.Reader for the output voice.
func (s *Sink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0, io.EOF
	}

	frameBytes := output.BytesPerSample * s.channels
	samples := len(p) / frameBytes * s.channels
	if samples == 0 {
		return 0, nil
	}
	size := samples * output.BytesPerSample

	if s.paused || len(s.queue) == 0 {
		clear(p[:size])
		return size, nil
	}

	if cap(s.buf) < samples {
		s.buf = make([]float32, samples)
	}
	buf := s.buf[:samples]

	filled := s.fill(buf)
	clear(buf[filled:])

	return utils.PutPCM16(p, buf, float32(s.volume)), nil
}

// fill reads from the head of the queue, moving to the next source when
// one ends. Must be called with s.mu held.
func (s *Sink) fill(buf []float32) int {
	filled := 0
	for filled < len(buf) && len(s.queue) > 0 {
		n, err := s.queue[0].src.ReadSamples(buf[filled:])
		filled += n

		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = fmt.Errorf("reading source: %w", err)
			}
			s.pop()
			continue
		}
		if n == 0 {
			break
		}
	}
	return filled
}

func (s *Sink) pop() {
	_ = s.queue[0].src.Close()
	s.queue[0] = nil
	s.queue = s.queue[1:]
}

func (s *Sink) targetRate() int {
	return int(math.Round(float64(s.rate) / s.speed))
}

// ClampSpeed bounds speed to [MinSpeed, MaxSpeed]. Zero, negative and NaN
// values become 1.
func ClampSpeed(speed float64) float64 {
	switch {
	case math.IsNaN(speed) || speed <= 0:
		return 1
	case speed < MinSpeed:
		return MinSpeed
	case speed > MaxSpeed:
		return MaxSpeed
	}
	return speed
}
