// SPDX-License-Identifier: EPL-2.0

//go:build opus

package opus

import (
	"bytes"
	"io"
	"testing"
)

type mockStream struct {
	frames int
	closed bool
}

func (m *mockStream) ReadFloat32(pcm []float32) (int, error) {
	if m.frames == 0 {
		return 0, io.EOF
	}
	n := min(m.frames, len(pcm)/2)
	for i := range n * 2 {
		pcm[i] = 0.25
	}
	m.frames -= n
	return n, nil
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	dec := &mockStream{frames: 5}
	src := &source{dec: dec, channels: 2}

	buf := make([]float32, 7)
	n, err := src.ReadSamples(buf)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 6 {
		t.Errorf("ReadSamples() n = %d, want 6 (three stereo frames)", n)
	}

	if n, _ = src.ReadSamples(buf); n != 4 {
		t.Errorf("second read n = %d, want 4", n)
	}
	if n, err = src.ReadSamples(buf); n != 0 || err != io.EOF {
		t.Errorf("third read = %d, %v, want 0, EOF", n, err)
	}

	if err := src.Close(); err != nil || !dec.closed {
		t.Errorf("Close() = %v, closed = %v", err, dec.closed)
	}
}

func TestDecoder_RejectsNonOpus(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("RIFF\x00\x00\x00\x00WAVE"))); err == nil {
		t.Error("Decode() error = nil for WAV input")
	}
}
