// SPDX-License-Identifier: EPL-2.0

package utils

import "encoding/binary"

// Float32ToInt16 clamps x to [-1, 1] and scales it to int16. 32767 is used
// for the positive peak to avoid overflow.
func Float32ToInt16(x float32) int16 {
	return int16(Clamp(x) * 32767.0)
}

// Int16ToFloat32 is the inverse scale of Float32ToInt16 using 32768 so that
// -32768 maps to exactly -1.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// PutPCM16 scales every sample of src by gain, clamps and writes it to dst
// as little-endian int16. dst must hold 2*len(src) bytes. Returns the number
// of bytes written.
func PutPCM16(dst []byte, src []float32, gain float32) int {
	for i, x := range src {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(Float32ToInt16(x*gain)))
	}
	return len(src) * 2
}
