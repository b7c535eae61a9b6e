// SPDX-License-Identifier: EPL-2.0

// Package wav decodes RIFF/WAVE integer PCM through github.com/go-audio/wav
// and writes 16-bit PCM files.
//
// Decoding:
//
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrNotWavFile) {
//		// not RIFF/WAVE
//	}
//
// 8-bit (unsigned), 16, 24 and 32-bit signed samples are normalized to
// float32 in [-1, 1]. Float and compressed WAV encodings are rejected with
// ErrUnsupportedEncoding.
//
// Inputs that do not implement io.Seeker are buffered in memory first.
//
// Writing:
//
//	var buf bytes.Buffer
//	err := wav.WriteWAV16(&buf, 44100, 2, samples)
package wav
