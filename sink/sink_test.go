// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audsink/audio"
	"github.com/ik5/audsink/internal/audiotest"
)

func newTestSink(t *testing.T, rate, channels int) (*Sink, *audiotest.Voice) {
	t.Helper()

	backend := &audiotest.Backend{}
	stream, err := backend.Open(rate, channels)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	s, err := New(stream)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return s, backend.Last().Voice(0)
}

func pumpSamples(t *testing.T, v *audiotest.Voice, samples int) []int16 {
	t.Helper()

	buf, err := v.Pump(samples * 2)
	if err != nil {
		t.Fatalf("Pump() error = %v", err)
	}

	out := make([]int16, len(buf)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}
	return out
}

func TestSink_Defaults(t *testing.T) {
	t.Parallel()

	s, v := newTestSink(t, 48000, 2)

	if s.Volume() != 1 {
		t.Errorf("Volume() = %v, want 1", s.Volume())
	}
	if s.Speed() != 1 {
		t.Errorf("Speed() = %v, want 1", s.Speed())
	}
	if s.IsPaused() {
		t.Error("IsPaused() = true, want false")
	}
	if !s.Empty() {
		t.Error("Empty() = false on a new sink")
	}
	if !v.Playing() {
		t.Error("voice should start playing")
	}
}

func TestSink_RendersQueuedSource(t *testing.T) {
	t.Parallel()

	s, v := newTestSink(t, 48000, 1)
	if err := s.Append(audiotest.NewConstantSource(48000, 1, 1000, 0.5)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	for i, got := range pumpSamples(t, v, 16) {
		if got != 16383 {
			t.Errorf("sample[%d] = %d, want 16383", i, got)
		}
	}
	if s.Empty() {
		t.Error("Empty() = true while the source still has frames")
	}
}

func TestSink_Volume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		volume float64
		want   int16
	}{
		{"unity", 1, 16383},
		{"half", 0.5, 8191},
		{"mute", 0, 0},
		{"negative is mute", -2, 0},
		{"boost clamps", 4, 32767},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, v := newTestSink(t, 8000, 1)
			s.SetVolume(tt.volume)
			if err := s.Append(audiotest.NewConstantSource(8000, 1, 1000, 0.5)); err != nil {
				t.Fatalf("Append() error = %v", err)
			}

			got := pumpSamples(t, v, 4)
			for i := range got {
				if got[i] != tt.want {
					t.Errorf("sample[%d] = %d, want %d", i, got[i], tt.want)
				}
			}
		})
	}
}

func TestSink_PauseRendersSilence(t *testing.T) {
	t.Parallel()

	s, v := newTestSink(t, 8000, 1)
	src := audiotest.NewConstantSource(8000, 1, 1000, 0.5)
	if err := s.Append(src); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	s.Pause()
	if !s.IsPaused() {
		t.Fatal("IsPaused() = false after Pause")
	}
	if v.Playing() {
		t.Error("voice still playing after Pause")
	}

	for i, got := range pumpSamples(t, v, 32) {
		if got != 0 {
			t.Fatalf("sample[%d] = %d while paused, want 0", i, got)
		}
	}

	s.Play()
	if got := pumpSamples(t, v, 1)[0]; got != 16383 {
		t.Errorf("first sample after Play = %d, want 16383", got)
	}
}

func TestSink_AdvancesThroughQueue(t *testing.T) {
	t.Parallel()

	s, v := newTestSink(t, 8000, 1)
	first := audiotest.NewConstantSource(8000, 1, 16, 0.5)
	second := audiotest.NewConstantSource(8000, 1, 16, -0.5)

	if err := s.Append(first); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Append(second); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	var sawFirst, sawSecond bool
	for _, got := range pumpSamples(t, v, 128) {
		switch got {
		case 16383:
			if sawSecond {
				t.Fatal("first source played after the second")
			}
			sawFirst = true
		case -16383:
			sawSecond = true
		}
	}

	if !sawFirst || !sawSecond {
		t.Errorf("sawFirst = %v, sawSecond = %v, want both", sawFirst, sawSecond)
	}
	if !s.Empty() {
		t.Errorf("Empty() = false after draining, Len() = %d", s.Len())
	}
	if !first.Closed() || !second.Closed() {
		t.Error("drained sources should be closed")
	}
}

func TestSink_DrainedRendersSilence(t *testing.T) {
	t.Parallel()

	s, v := newTestSink(t, 8000, 1)
	if err := s.Append(audiotest.NewConstantSource(8000, 1, 8, 0.5)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	pumpSamples(t, v, 64)
	if !s.Empty() {
		t.Fatal("Empty() = false after draining")
	}

	for i, got := range pumpSamples(t, v, 16) {
		if got != 0 {
			t.Fatalf("sample[%d] = %d after drain, want 0", i, got)
		}
	}
}

func TestSink_MonoToStereo(t *testing.T) {
	t.Parallel()

	s, v := newTestSink(t, 8000, 2)
	if err := s.Append(audiotest.NewConstantSource(8000, 1, 1000, 0.5)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got := pumpSamples(t, v, 8)
	for i := range got {
		if got[i] != 16383 {
			t.Errorf("sample[%d] = %d, want 16383", i, got[i])
		}
	}
}

func TestSink_Stop(t *testing.T) {
	t.Parallel()

	s, v := newTestSink(t, 8000, 1)
	src := audiotest.NewConstantSource(8000, 1, 1000, 0.5)
	if err := s.Append(src); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	s.Stop()
	s.Stop()

	if !s.Empty() {
		t.Error("Empty() = false after Stop")
	}
	if !src.Closed() {
		t.Error("queued source not closed by Stop")
	}
	if !v.Closed() {
		t.Error("voice not closed by Stop")
	}

	if n, err := s.Read(make([]byte, 64)); n != 0 || err != io.EOF {
		t.Errorf("Read() after Stop = %d, %v, want 0, EOF", n, err)
	}

	err := s.Append(audiotest.NewSilentSource(8000, 1, 10))
	if !errors.Is(err, ErrStopped) {
		t.Errorf("Append() after Stop error = %v, want ErrStopped", err)
	}
}

func TestSink_SourceFailure(t *testing.T) {
	t.Parallel()

	s, v := newTestSink(t, 8000, 1)
	if err := s.Append(audiotest.NewConstantSource(8000, 1, 1000, 0.5).FailAfter(8)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	pumpSamples(t, v, 64)

	if !s.Empty() {
		t.Error("failed source should be dropped from the queue")
	}
	if !errors.Is(s.Err(), audiotest.ErrMockFailure) {
		t.Errorf("Err() = %v, want ErrMockFailure", s.Err())
	}
}

func TestSink_SpeedShortensPlayback(t *testing.T) {
	t.Parallel()

	count := func(speed float64) int {
		s, _ := newTestSink(t, 8000, 1)
		s.SetSpeed(speed)
		if err := s.Append(audiotest.NewConstantSource(8000, 1, 800, 0.5)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		buf := make([]byte, 64)
		reads := 0
		for !s.Empty() && reads < 10000 {
			if _, err := s.Read(buf); err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			reads++
		}
		return reads
	}

	normal := count(1)
	fast := count(2)

	if fast >= normal {
		t.Errorf("reads at 2x = %d, at 1x = %d; want fewer at 2x", fast, normal)
	}
}

func TestSink_New_VoiceRejected(t *testing.T) {
	t.Parallel()

	backend := &audiotest.Backend{RejectVoices: true}
	stream, err := backend.Open(8000, 1)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if _, err := New(stream); !errors.Is(err, audiotest.ErrVoiceRejected) {
		t.Errorf("New() error = %v, want ErrVoiceRejected", err)
	}
}

func TestSink_AppendNil(t *testing.T) {
	t.Parallel()

	s, _ := newTestSink(t, 8000, 1)
	if err := s.Append(nil); !errors.Is(err, ErrNilSource) {
		t.Errorf("Append(nil) error = %v, want ErrNilSource", err)
	}
}

func TestSink_AppendRejectsUnplayableFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate, ch int
		want     error
	}{
		{"zero rate", 0, 1, audio.ErrInvalidRate},
		{"negative rate", -8000, 2, audio.ErrInvalidRate},
		{"zero channels", 8000, 0, audio.ErrInvalidChannels},
		{"too many channels", 8000, audio.MaxChannels + 1, audio.ErrInvalidChannels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, v := newTestSink(t, 8000, 1)
			src := audiotest.NewConstantSource(tt.rate, tt.ch, 100, 0.5)

			err := s.Append(src)
			if !errors.Is(err, ErrInvalidSource) || !errors.Is(err, tt.want) {
				t.Fatalf("Append() error = %v, want ErrInvalidSource wrapping %v", err, tt.want)
			}
			if !s.Empty() {
				t.Error("rejected source was queued")
			}
			if got := pumpSamples(t, v, 16); got[0] != 0 {
				t.Errorf("sink rendered %d, want silence", got[0])
			}
		})
	}
}

func TestClampSpeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want float64
	}{
		{1, 1},
		{1.5, 1.5},
		{0.1, MinSpeed},
		{10, MaxSpeed},
		{0, 1},
		{-3, 1},
	}

	for _, tt := range tests {
		if got := ClampSpeed(tt.in); got != tt.want {
			t.Errorf("ClampSpeed(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func BenchmarkSink_Read(b *testing.B) {
	backend := &audiotest.Backend{}
	stream, _ := backend.Open(48000, 2)
	s, _ := New(stream)
	_ = s.Append(audiotest.NewSineSource(44100, 2, 1<<30, 440))

	buf := make([]byte, 4096)
	b.ResetTimer()
	for b.Loop() {
		_, _ = s.Read(buf)
	}
}
