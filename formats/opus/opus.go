// SPDX-License-Identifier: EPL-2.0

//go:build opus

package opus

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ik5/audsink/audio"
	"gopkg.in/hraban/opus.v2"
)

// streamReader is the part of opus.Stream the source uses. ReadFloat32
// returns samples per channel.
type streamReader interface {
	ReadFloat32(pcm []float32) (int, error)
	Close() error
}

type source struct {
	dec      streamReader
	channels int
}

func (s *source) SampleRate() int { return SampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 5760 * s.channels }

func (s *source) Close() error {
	if err := s.dec.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	dst = dst[:len(dst)/s.channels*s.channels]
	if len(dst) == 0 {
		return 0, nil
	}

	frames, err := s.dec.ReadFloat32(dst)
	if err != nil && err != io.EOF {
		return frames * s.channels, fmt.Errorf("%w", err)
	}
	return frames * s.channels, err
}

// Decoder reads Ogg Opus through libopusfile.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	br := bufio.NewReaderSize(r, audio.HeaderSize)
	header, err := br.Peek(audio.HeaderSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	channels, err := Channels(header)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(br)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{dec: stream, channels: channels}, nil
}
