// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/ik5/audsink/audio"
	"github.com/ik5/audsink/formats/internal/intpcm"
)

// Sniff matches FORM/AIFF and FORM/AIFC headers.
func Sniff(header []byte) bool {
	if len(header) < 12 || !bytes.Equal(header[0:4], []byte("FORM")) {
		return false
	}
	kind := string(header[8:12])
	return kind == "AIFF" || kind == "AIFC"
}

// Decoder reads 8, 16, 24 and 32-bit big-endian PCM.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := intpcm.ReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.NumChannels > audio.MaxChannels || format.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	src, err := intpcm.New(dec, format.SampleRate, format.NumChannels, int(dec.BitDepth), false)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return src, nil
}
