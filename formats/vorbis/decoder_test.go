// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// mockOggVorbisReader behaves like oggvorbis.Reader: Read returns values.
type mockOggVorbisReader struct {
	sampleRate int
	channels   int
	samples    []float32
	offset     int
	err        error
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := copy(buf, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("This is not Ogg Vorbis data")},
		{"ogg page without vorbis", append([]byte("OggS"), make([]byte, 60)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		samples  []float32
		bufLen   int
	}{
		{"mono", 1, []float32{0.1, 0.2, 0.3, 0.4, 0.5}, 2},
		{"stereo", 2, []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}, 4},
		{"5.1 with ragged buffer", 6, make([]float32, 36), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &source{dec: &mockOggVorbisReader{
				sampleRate: 44100,
				channels:   tt.channels,
				samples:    tt.samples,
			}}

			if src.Channels() != tt.channels || src.SampleRate() != 44100 {
				t.Fatalf("metadata = %d ch @ %d, want %d ch @ 44100", src.Channels(), src.SampleRate(), tt.channels)
			}

			var got []float32
			buf := make([]float32, tt.bufLen)
			for range 100 {
				n, err := src.ReadSamples(buf)
				if n%tt.channels != 0 {
					t.Fatalf("ReadSamples() n = %d, not a whole number of frames", n)
				}
				got = append(got, buf[:n]...)
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("ReadSamples() error = %v", err)
				}
			}

			if len(got) != len(tt.samples) {
				t.Fatalf("read %d samples, want %d", len(got), len(tt.samples))
			}
			for i := range got {
				if got[i] != tt.samples[i] {
					t.Errorf("got[%d] = %v, want %v", i, got[i], tt.samples[i])
				}
			}
		})
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggVorbisReader{channels: 2, err: io.ErrUnexpectedEOF}}
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want ErrUnexpectedEOF", err)
	}
}

func TestSource_ReadSamples_ShortBuffer(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggVorbisReader{channels: 2, samples: []float32{1, 1}}}
	if n, err := src.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples(1) = %d, %v, want 0, nil", n, err)
	}
}

func TestSniff(t *testing.T) {
	t.Parallel()

	page := func(packet string) []byte {
		h := make([]byte, 28, 64)
		copy(h, "OggS")
		return append(h, packet...)
	}

	tests := []struct {
		name   string
		header []byte
		want   bool
	}{
		{"vorbis", page("\x01vorbis\x00\x00\x00\x00"), true},
		{"opus", page("OpusHead\x01\x02"), false},
		{"not ogg", []byte("fLaC\x00\x00\x00\x22"), false},
	}

	for _, tt := range tests {
		if got := Sniff(tt.header); got != tt.want {
			t.Errorf("Sniff(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
