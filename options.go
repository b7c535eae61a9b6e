// SPDX-License-Identifier: EPL-2.0

package audsink

import (
	"log"

	"github.com/ik5/audsink/audio"
	"github.com/ik5/audsink/output"
)

// Device format requested from the backend unless WithFormat is given.
const (
	DefaultSampleRate = 48000
	DefaultChannels   = 2
)

type Option func(*Player)

// WithBackend selects the output backend. The default is oto.
func WithBackend(b output.Backend) Option {
	return func(p *Player) { p.backend = b }
}

// WithRegistry replaces the decoder registry.
func WithRegistry(r *audio.Registry) Option {
	return func(p *Player) { p.registry = r }
}

// WithVolume sets the initial volume as a percentage, clamped to 0..100.
func WithVolume(percent float64) Option {
	return func(p *Player) { p.volume = clampPercent(percent) / 100 }
}

// WithSpeed sets the initial playback rate.
func WithSpeed(speed float64) Option {
	return func(p *Player) { p.speed = speed }
}

// WithFormat sets the sample rate and channel count requested when a
// stream is opened. The backend may still pick another format.
func WithFormat(sampleRate, channels int) Option {
	return func(p *Player) {
		p.sampleRate = sampleRate
		p.channels = channels
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *Player) { p.logger = l }
}
