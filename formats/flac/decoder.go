// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ik5/audsink/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// frameReader is the part of flac.Stream the source uses.
type frameReader interface {
	ParseNext() (*frame.Frame, error)
}

type source struct {
	dec        frameReader
	sampleRate int
	channels   int
	scale      float32

	pending []float32 // interleaved samples of the current frame
	pos     int
	eof     bool
}

func newSource(dec frameReader, sampleRate, channels, bitsPerSample int) (*source, error) {
	if sampleRate <= 0 || channels <= 0 || bitsPerSample < 4 || bitsPerSample > 32 {
		return nil, ErrInvalidStreamInfo
	}

	return &source{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		scale:      float32(int64(1) << (bitsPerSample - 1)),
	}, nil
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return max(cap(s.pending), 4096) }

func (s *source) ReadSamples(dst []float32) (int, error) {
	written := 0
	for written < len(dst) {
		if s.pos >= len(s.pending) {
			if s.eof {
				break
			}
			if err := s.next(); err != nil {
				return written, err
			}
			continue
		}

		n := copy(dst[written:], s.pending[s.pos:])
		s.pos += n
		written += n
	}

	if written == 0 && s.eof {
		return 0, io.EOF
	}
	return written, nil
}

// next decodes one FLAC frame into pending.
func (s *source) next() error {
	f, err := s.dec.ParseNext()
	if err == io.EOF {
		s.eof = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	if len(f.Subframes) != s.channels {
		return ErrChannelMismatch
	}

	frames := len(f.Subframes[0].Samples)
	need := frames * s.channels
	if cap(s.pending) < need {
		s.pending = make([]float32, need)
	}
	s.pending = s.pending[:need]

	for c, sub := range f.Subframes {
		for i, v := range sub.Samples[:frames] {
			s.pending[i*s.channels+c] = float32(v) / s.scale
		}
	}
	s.pos = 0
	return nil
}

// Sniff matches the fLaC stream marker.
func Sniff(header []byte) bool {
	return bytes.HasPrefix(header, []byte("fLaC"))
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if stream.Info == nil {
		return nil, ErrInvalidStreamInfo
	}

	return newSource(stream,
		int(stream.Info.SampleRate),
		int(stream.Info.NChannels),
		int(stream.Info.BitsPerSample))
}
