// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer maps the interleaved channels of src onto a different
// channel count.
//
//   - N -> 1 averages every channel.
//   - 1 -> M duplicates the mono signal.
//   - N -> M (N > M) averages source channels whose index is congruent to
//     the output channel modulo M.
//   - N -> M (N < M) repeats source channel c%N on output channel c.
type ChannelMixer struct {
	src      Source
	channels int
	tmp      []float32
}

func NewChannelMixer(src Source, channels int) (*ChannelMixer, error) {
	if channels <= 0 || channels > MaxChannels || src.Channels() <= 0 || src.Channels() > MaxChannels {
		return nil, ErrInvalidChannels
	}

	return &ChannelMixer{
		src:      src,
		channels: channels,
		tmp:      make([]float32, 4096),
	}, nil
}

// NewMonoMixer downmixes src to a single channel.
func NewMonoMixer(src Source) *ChannelMixer {
	return &ChannelMixer{
		src:      src,
		channels: 1,
		tmp:      make([]float32, 4096),
	}
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.channels }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }

func (m *ChannelMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// ReadSamples fills dst with whole output frames. len(dst) should be a
// multiple of Channels(); a trailing partial frame is left untouched.
func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	in := m.src.Channels()
	out := m.channels

	if in == out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / out
	if frames == 0 {
		return 0, nil
	}

	needed := frames * in
	if cap(m.tmp) < needed {
		m.tmp = make([]float32, max(needed, 8192))
	}
	m.tmp = m.tmp[:needed]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	got := n / in

	switch {
	case out == 1:
		inv := float32(1.0) / float32(in)
		if in == 2 {
			for f := range got {
				idx := f << 1
				dst[f] = (m.tmp[idx] + m.tmp[idx+1]) * 0.5
			}
			break
		}
		for f := range got {
			var sum float32
			base := f * in
			for c := range in {
				sum += m.tmp[base+c]
			}
			dst[f] = sum * inv
		}

	case in == 1:
		for f := range got {
			v := m.tmp[f]
			base := f * out
			for c := range out {
				dst[base+c] = v
			}
		}

	case in > out:
		for f := range got {
			src := m.tmp[f*in : f*in+in]
			base := f * out
			for c := range out {
				var sum float32
				var cnt int
				for k := c; k < in; k += out {
					sum += src[k]
					cnt++
				}
				dst[base+c] = sum / float32(cnt)
			}
		}

	default:
		for f := range got {
			src := m.tmp[f*in : f*in+in]
			base := f * out
			for c := range out {
				dst[base+c] = src[c%in]
			}
		}
	}

	return got * out, err
}
