// SPDX-License-Identifier: EPL-2.0

package bridge

import "errors"

var (
	ErrControlLocked = errors.New("control locked")
	ErrUnknownOp     = errors.New("unknown op")
	ErrNoAudio       = errors.New("load needs data or path")
	ErrMissingValue  = errors.New("missing value")
	ErrLoadFailed    = errors.New("load failed")
	ErrPlayFailed    = errors.New("play failed")
	ErrNotStarted    = errors.New("server not started")
	ErrStopping      = errors.New("server stopping")
)
