// SPDX-License-Identifier: EPL-2.0

// Package audsink is a small playback adapter for an embedding host.
//
// A Player holds at most one output stream and one sink on it. The host
// loads an encoded buffer, then drives it with play, pause, stop and
// volume calls; every call that can fail reports a bool:
//
//	p := audsink.NewPlayer(audsink.WithVolume(85))
//	defer p.Close()
//
//	if !p.Load(data) {
//		log.Printf("load failed: %v", p.Err())
//	}
//	p.SetVolume(50)
//	for !p.Empty() {
//		time.Sleep(100 * time.Millisecond)
//	}
//
// # Formats
//
// Decoding goes through an audio.Registry; the default one from
// formats.Default covers:
//   - WAV (8/16/24/32-bit PCM) via formats/wav
//   - FLAC via formats/flac
//   - Ogg Vorbis via formats/vorbis
//   - Ogg Opus via formats/opus (build tag opus)
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3
//
// The container is detected from the leading bytes; file names are never
// consulted.
//
// # Output
//
// Streams come from an output.Backend. The default is oto
// (github.com/ebitengine/oto/v3). PortAudio is available with the
// portaudio build tag and miniaudio (github.com/gen2brain/malgo) with the
// malgo build tag; output.Lookup finds a backend by name. Sources are
// resampled and channel mapped to the stream format by the sink package.
//
// # Probe
//
// Probe decodes a whole buffer without opening a device and reports its
// format, rate, channel count and duration.
package audsink
