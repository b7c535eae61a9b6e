// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var (
	ErrClosed         = errors.New("output stream closed")
	ErrUnknownBackend = errors.New("unknown output backend")
	ErrInvalidFormat  = errors.New("sample rate and channels must be positive")
)
