// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III through
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces stereo, so every source reports two channels;
// mono files come out duplicated.
//
//	src, err := mp3.Decoder{}.Decode(file)
//
// Sniff accepts an ID3v2 tag or a bare frame sync.
package mp3
