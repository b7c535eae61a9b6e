// SPDX-License-Identifier: EPL-2.0

// Package output is the device side of the player: a Backend opens a
// Stream (the device handle), and a Stream plays Voices that pull signed
// 16-bit little-endian PCM from an io.Reader.
//
// The "oto" backend (github.com/ebitengine/oto/v3) is always compiled in.
// Building with -tags portaudio adds a "portaudio" backend, and -tags malgo
// a "malgo" (miniaudio) backend.
//
//	backend, err := output.Lookup("oto")
//	stream, err := backend.Open(48000, 2)
//	voice, err := stream.NewVoice(pcm)
//	defer stream.Close()
package output
