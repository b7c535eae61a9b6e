// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	ErrInvalidStreamInfo = errors.New("invalid FLAC stream info")
	ErrChannelMismatch   = errors.New("frame channel count differs from stream info")
)
