// SPDX-License-Identifier: EPL-2.0

package audsink

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audsink/audio"
	"github.com/ik5/audsink/formats"
)

// Info describes a decoded buffer.
type Info struct {
	Format     string        `json:"format"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Frames     int64         `json:"frames"`
	Duration   time.Duration `json:"duration"`
}

// Probe decodes all of data with the default registry.
func Probe(data []byte) (Info, error) {
	return ProbeWith(formats.Default(), data)
}

// ProbeWith decodes all of data with registry and counts its frames.
func ProbeWith(registry *audio.Registry, data []byte) (Info, error) {
	src, format, err := registry.Decode(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("decoding: %w", err)
	}
	defer src.Close()

	info := Info{
		Format:     format,
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
	}
	if err := audio.CheckFormat(info.SampleRate, info.Channels); err != nil {
		return info, err
	}

	buf := make([]float32, max(src.BufSize(), 1024)/info.Channels*info.Channels)
	var samples int64
	for {
		n, err := src.ReadSamples(buf)
		samples += int64(n)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return info, fmt.Errorf("reading %s: %w", format, err)
		}
		if n == 0 {
			break
		}
	}

	info.Frames = samples / int64(info.Channels)
	if info.Frames == 0 {
		return info, ErrNoAudio
	}
	info.Duration = time.Duration(info.Frames) * time.Second / time.Duration(info.SampleRate)

	return info, nil
}
