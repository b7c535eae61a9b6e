// SPDX-License-Identifier: EPL-2.0

// Package formats assembles every compiled-in decoder into a registry.
package formats

import (
	"github.com/ik5/audsink/audio"
	"github.com/ik5/audsink/formats/aiff"
	"github.com/ik5/audsink/formats/flac"
	"github.com/ik5/audsink/formats/mp3"
	"github.com/ik5/audsink/formats/vorbis"
	"github.com/ik5/audsink/formats/wav"
)

// Format keys used in the default registry.
const (
	WAV    = "wav"
	FLAC   = "flac"
	Vorbis = "ogg vorbis"
	Opus   = "ogg opus"
	AIFF   = "aiff"
	MP3    = "mp3"
)

// optional registrations added by build-tagged files
var optional []func(*audio.Registry)

// Default returns a registry holding every decoder with its sniffer. MP3
// is tried last since its frame-sync check is the loosest.
func Default() *audio.Registry {
	r := audio.NewRegistry()
	r.RegisterSniffer(WAV, wav.Decoder{}, wav.Sniff)
	r.RegisterSniffer(FLAC, flac.Decoder{}, flac.Sniff)
	r.RegisterSniffer(Vorbis, vorbis.Decoder{}, vorbis.Sniff)
	for _, fn := range optional {
		fn(r)
	}
	r.RegisterSniffer(AIFF, aiff.Decoder{}, aiff.Sniff)
	r.RegisterSniffer(MP3, mp3.Decoder{}, mp3.Sniff)
	return r
}
