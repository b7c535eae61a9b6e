// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"errors"
)

// SampleRate is the rate libopusfile always decodes at.
const SampleRate = 48000

var (
	ErrNoOpusHead      = errors.New("no OpusHead packet in the first Ogg page")
	ErrInvalidChannels = errors.New("invalid OpusHead channel count")
)

var opusHead = []byte("OpusHead")

// Sniff matches an Ogg page carrying an OpusHead packet.
func Sniff(header []byte) bool {
	return bytes.HasPrefix(header, []byte("OggS")) && bytes.Contains(header, opusHead)
}

// Channels reads the output channel count from the OpusHead packet found in
// header.
func Channels(header []byte) (int, error) {
	idx := bytes.Index(header, opusHead)
	// magic(8) version(1) channels(1)
	if idx < 0 || len(header) < idx+10 {
		return 0, ErrNoOpusHead
	}

	ch := int(header[idx+9])
	if ch == 0 {
		return 0, ErrInvalidChannels
	}
	return ch, nil
}
