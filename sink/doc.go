// SPDX-License-Identifier: EPL-2.0

// Package sink queues decoded sources onto an output stream.
//
// A Sink is the reader behind a single output voice. Every appended source
// is resampled and channel-mapped to the stream format, then played in
// order. Volume and speed apply to the whole queue:
//
//	s, err := sink.New(stream)
//	if err != nil {
//		return err
//	}
//	if err := s.Append(src); err != nil {
//		return err
//	}
//	s.SetVolume(0.85)
//
// A paused or drained sink keeps the voice fed with silence; after Stop the
// reader reports io.EOF.
package sink
