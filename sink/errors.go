// SPDX-License-Identifier: EPL-2.0

package sink

import "errors"

var (
	ErrStopped       = errors.New("sink stopped")
	ErrNilSource     = errors.New("nil source")
	// ErrInvalidSource wraps audio.ErrInvalidRate or audio.ErrInvalidChannels.
	ErrInvalidSource = errors.New("source format not playable")
)
