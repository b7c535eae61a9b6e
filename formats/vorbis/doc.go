// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis through github.com/jfreymuth/oggvorbis.
//
//	src, err := vorbis.Decoder{}.Decode(file)
//
// The decoder already produces float32 samples, so they are passed through
// unchanged in whole frames.
package vorbis
