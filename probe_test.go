// SPDX-License-Identifier: EPL-2.0

package audsink

import (
	"errors"
	"testing"
	"time"

	"github.com/ik5/audsink/audio"
)

func TestProbe(t *testing.T) {
	t.Parallel()

	info, err := Probe(constantWAV(t, 8000, 4000, 10))
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	want := Info{Format: "wav", SampleRate: 8000, Channels: 1, Frames: 4000, Duration: 500 * time.Millisecond}
	if info != want {
		t.Errorf("Probe() = %+v, want %+v", info, want)
	}
}

func TestProbe_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Probe([]byte("nope")); !errors.Is(err, audio.ErrUnknownFormat) {
		t.Errorf("Probe(garbage) error = %v, want ErrUnknownFormat", err)
	}
}
