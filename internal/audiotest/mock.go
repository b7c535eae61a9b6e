// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic sources and an in-memory output
// backend for tests.
package audiotest

import (
	"errors"
	"io"
	"math"
	"sync"
)

// MockSource generates totalFrames frames from a waveform function. It
// satisfies audio.Source without importing it.
type MockSource struct {
	mu          sync.Mutex
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    func(frame int, channel int) float32
	failAfter   int
	closed      bool
}

// ErrMockFailure is returned by sources built with FailAfter.
var ErrMockFailure = errors.New("mock source failure")

func NewMockSource(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
		failAfter:   -1,
	}
}

func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalFrames, 0)
}

func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 {
		return value
	})
}

func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// FailAfter makes ReadSamples return ErrMockFailure once frames frames have
// been produced.
func (m *MockSource) FailAfter(frames int) *MockSource {
	m.failAfter = frames
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockSource) Reset() {
	m.mu.Lock()
	m.generated = 0
	m.mu.Unlock()
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAfter >= 0 && m.generated >= m.failAfter {
		return 0, ErrMockFailure
	}
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalFrames-m.generated)
	if m.failAfter >= 0 {
		frames = min(frames, m.failAfter-m.generated)
	}

	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += frames

	if m.generated >= m.totalFrames {
		return frames * m.channels, io.EOF
	}
	return frames * m.channels, nil
}
