// SPDX-License-Identifier: EPL-2.0

// Package audio provides the low-level building blocks the player renders
// through.
//
//   - Source, the pull interface every decoder returns
//   - Registry, mapping format keys to decoders and sniffing formats from
//     their magic bytes
//   - Resampler, cubic sample rate conversion that can be retargeted while
//     playing (used for playback speed)
//   - ChannelMixer, mapping one channel layout onto another
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 in [-1.0, 1.0]. A read that returns
// io.EOF may still carry samples; n == 0 with io.EOF means the stream is
// finished.
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.RegisterSniffer("wav", wav.Decoder{}, wav.Sniff)
//	src, format, err := registry.Decode(bytes.NewReader(data))
//
// formats.Default returns a registry with every compiled-in decoder.
//
// # Adapting a Source to a Device
//
//	r := audio.NewResampler(src, 48000)
//	m, err := audio.NewChannelMixer(r, 2)
//
// Calling r.SetRate(48000 / speed) later changes the playback speed of
// everything downstream.
package audio
