// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF and uncompressed AIFC through
// github.com/go-audio/aiff.
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//		// not FORM/AIFF
//	}
//
// AIFF stores big-endian signed PCM; 8, 16, 24 and 32-bit samples are
// normalized to float32 in [-1, 1]. Inputs that cannot seek are buffered
// in memory first.
package aiff
