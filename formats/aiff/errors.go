// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input is not FORM/AIFF or FORM/AIFC.
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedAiffLayout indicates a file with no usable COMM chunk.
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
