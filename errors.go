// SPDX-License-Identifier: EPL-2.0

package audsink

import "errors"

var (
	ErrNoSink  = errors.New("nothing loaded")
	ErrDrained = errors.New("playback queue is drained")
	ErrNoAudio = errors.New("no audio frames")
)
