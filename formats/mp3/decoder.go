// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audsink/audio"
	"github.com/ik5/audsink/utils"
)

// go-mp3 always produces interleaved stereo 16-bit little-endian PCM.
const channels = 2

// mp3Reader is the part of gomp3.Decoder the source uses.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n, err := s.dec.Read(s.buf)
	samples := n / 2
	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}

	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("%w", err)
	}
	if samples == 0 && err == nil {
		// go-mp3 may return 0, nil between frames; report nothing yet.
		return 0, nil
	}
	return samples, err
}

// Sniff matches an ID3v2 tag or an MPEG audio frame sync with a valid
// layer.
func Sniff(header []byte) bool {
	if bytes.HasPrefix(header, []byte("ID3")) {
		return true
	}
	if len(header) < 2 {
		return false
	}
	// 11 sync bits, then version and layer; layer 00 is reserved (ADTS uses it).
	return header[0] == 0xFF && header[1]&0xE0 == 0xE0 && header[1]&0x06 != 0
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}
