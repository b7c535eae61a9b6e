// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize  = errors.New("dst size must be multiple of channels")
	ErrUnknownFormat   = errors.New("unknown audio format")
	ErrInvalidChannels = errors.New("channel count out of range")
	ErrInvalidRate     = errors.New("sample rate must be positive")
)
