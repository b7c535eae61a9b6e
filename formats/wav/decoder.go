// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/audsink/audio"
	"github.com/ik5/audsink/formats/internal/intpcm"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// Sniff matches a RIFF/WAVE header.
func Sniff(header []byte) bool {
	return len(header) >= 12 &&
		bytes.Equal(header[0:4], []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

// Decoder reads 8, 16, 24 and 32-bit integer PCM.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := intpcm.ReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	dec.ReadInfo()

	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	if dec.SampleRate == 0 {
		return nil, ErrInvalidSampleRate
	}
	if dec.NumChans == 0 || int(dec.NumChans) > audio.MaxChannels {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, dec.NumChans)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("locating data chunk: %w", err)
	}
	if err := checkDataLen(rs, dec.PCMLen()); err != nil {
		return nil, err
	}

	src, err := intpcm.New(dec, int(dec.SampleRate), int(dec.NumChans), int(dec.BitDepth), true)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return src, nil
}

// checkDataLen fails when the data chunk claims more bytes than rs holds
// past the current position.
func checkDataLen(rs io.ReadSeeker, size int64) error {
	cur, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	if _, err := rs.Seek(cur, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}

	if size > end-cur {
		return fmt.Errorf("%w: data chunk has %d of %d bytes", ErrTruncatedData, end-cur, size)
	}
	return nil
}
