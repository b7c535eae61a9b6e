// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts go-audio integer PCM decoders (WAV, AIFF) to
// audio.Source.
package intpcm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audsink/audio"
)

var ErrUnsupportedBitDepth = errors.New("unsupported bit depth")

// Reader is the part of the go-audio wav and aiff decoders the source uses.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts integer PCM to float32.
type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	scale      float32
	offset     int
	intBuf     *goaudio.IntBuffer
}

// New returns a Source for dec. unsigned8 marks 8-bit data stored
// unsigned, as WAV does.
func New(dec Reader, sampleRate, channels, bitDepth int, unsigned8 bool) (*Source, error) {
	if err := audio.CheckFormat(sampleRate, channels); err != nil {
		return nil, err
	}

	s := &Source{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
	}

	switch bitDepth {
	case 8:
		s.scale = 128
		if unsigned8 {
			s.offset = 128
		}
	case 16:
		s.scale = 32768
	case 24:
		s.scale = 8388608
	case 32:
		s.scale = 2147483648
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	s.intBuf = &goaudio.IntBuffer{
		Data:           make([]int, 4096),
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
	}

	return s, nil
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }
func (s *Source) BufSize() int    { return cap(s.intBuf.Data) }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if cap(s.intBuf.Data) < len(dst) {
		s.intBuf.Data = make([]int, len(dst))
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]-s.offset) / s.scale
	}

	if err != nil {
		return n, io.EOF
	}
	return n, nil
}

// ReadSeeker returns r when it can seek; otherwise the whole input is
// buffered in memory. go-audio decoders need to seek between chunks.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}
