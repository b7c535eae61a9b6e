// SPDX-License-Identifier: EPL-2.0

package output

import (
	"io"
	"sort"
	"sync"
)

// Backend opens streams on an audio device.
type Backend interface {
	// Open returns a stream on the default device. The stream may run at a
	// different rate or channel count than requested; callers must check.
	Open(sampleRate, channels int) (Stream, error)
}

// Stream owns a device handle. Voices attached to it are mixed by the
// device layer.
type Stream interface {
	SampleRate() int
	Channels() int
	// NewVoice starts pulling signed 16-bit little-endian interleaved PCM
	// from r. The voice starts playing immediately.
	NewVoice(r io.Reader) (Voice, error)
	Close() error
}

// Voice is a single reader playing on a Stream.
type Voice interface {
	Play()
	Pause()
	Close() error
}

// BytesPerSample of the PCM every voice consumes.
const BytesPerSample = 2

var (
	backendsMu sync.Mutex
	backends   = map[string]func() Backend{}
)

// Register makes a backend constructor available to Lookup.
func Register(name string, fn func() Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()

	backends[name] = fn
}

// Lookup builds the backend registered under name.
func Lookup(name string) (Backend, error) {
	backendsMu.Lock()
	defer backendsMu.Unlock()

	fn, ok := backends[name]
	if !ok {
		return nil, ErrUnknownBackend
	}
	return fn(), nil
}

// Backends lists registered backend names, sorted.
func Backends() []string {
	backendsMu.Lock()
	defer backendsMu.Unlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
