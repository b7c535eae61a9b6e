// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// HeaderSize is the number of leading bytes handed to sniffers.
const HeaderSize = 64

// MaxChannels is the largest channel count a Source may report.
const MaxChannels = 255

// CheckFormat rejects a sample rate or channel count no Source may have.
func CheckFormat(sampleRate, channels int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRate, sampleRate)
	}
	if channels <= 0 || channels > MaxChannels {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	return nil
}

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Sniffer reports whether header looks like the start of its format.
type Sniffer func(header []byte) bool

type entry struct {
	name    string
	decoder Decoder
	sniff   Sniffer
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg vorbis").
// Detection walks formats in registration order.
type Registry struct {
	codecs map[string]*entry
	order  []string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]*entry),
		mtx:    &sync.Mutex{},
	}
}

// Register adds a decoder without a sniffer; it can be fetched by name but
// is never picked by Detect.
func (r *Registry) Register(format string, d Decoder) {
	r.RegisterSniffer(format, d, nil)
}

func (r *Registry) RegisterSniffer(format string, d Decoder, sniff Sniffer) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.codecs[format]; !ok {
		r.order = append(r.order, format)
	}
	r.codecs[format] = &entry{name: format, decoder: d, sniff: sniff}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	e, ok := r.codecs[format]
	if !ok {
		return nil, false
	}
	return e.decoder, true
}

// Formats lists registered format keys in registration order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Detect returns the first registered format whose sniffer accepts header.
func (r *Registry) Detect(header []byte) (string, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, name := range r.order {
		e := r.codecs[name]
		if e.sniff != nil && e.sniff(header) {
			return name, true
		}
	}
	return "", false
}

// Decode sniffs the stream and hands it to the matching decoder. The bytes
// used for detection are not consumed.
func (r *Registry) Decode(rd io.Reader) (Source, string, error) {
	br := bufio.NewReaderSize(rd, HeaderSize)
	header, err := br.Peek(HeaderSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("reading header: %w", err)
	}

	name, ok := r.Detect(header)
	if !ok {
		return nil, "", ErrUnknownFormat
	}

	dec, _ := r.Get(name)

	// Seekable inputs go straight to the decoder; some of them need io.Seeker.
	if rs, isSeeker := rd.(io.ReadSeeker); isSeeker {
		if _, err := rs.Seek(-int64(br.Buffered()), io.SeekCurrent); err == nil {
			src, err := dec.Decode(rs)
			if err != nil {
				return nil, name, fmt.Errorf("%s: %w", name, err)
			}
			return src, name, nil
		}
	}

	src, err := dec.Decode(br)
	if err != nil {
		return nil, name, fmt.Errorf("%s: %w", name, err)
	}
	return src, name, nil
}
