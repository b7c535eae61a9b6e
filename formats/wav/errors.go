// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrUnsupportedEncoding = errors.New("only integer PCM WAV is supported")
	ErrInvalidChannels     = errors.New("channel count out of range")
	ErrInvalidSampleRate   = errors.New("sample rate must be positive")
	ErrTruncatedData       = errors.New("data chunk is truncated")
	ErrPartialFrame        = errors.New("sample count is not a multiple of the channel count")
)
