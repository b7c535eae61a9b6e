// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

const headerSize = 44

// WriteWAV16 writes interleaved 16-bit PCM as a canonical 44-byte header
// WAV. Output goes to any io.Writer, so tones and fixtures can be built in
// memory.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels <= 0 {
		return ErrInvalidChannels
	}
	if len(samples)%channels != 0 {
		return ErrPartialFrame
	}

	const bitsPerSample = 16
	blockAlign := channels * bitsPerSample / 8
	dataSize := uint32(len(samples) * 2)

	header := make([]byte, headerSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], headerSize-8+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	// 8KB chunks
	const chunk = 4096
	buf := make([]byte, min(len(samples), chunk)*2)
	for i := 0; i < len(samples); i += chunk {
		part := samples[i:min(i+chunk, len(samples))]
		for j, s := range part {
			binary.LittleEndian.PutUint16(buf[j*2:], uint16(s))
		}
		if _, err := w.Write(buf[:len(part)*2]); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
	}

	return nil
}
