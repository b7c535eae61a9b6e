// SPDX-License-Identifier: EPL-2.0

// Package opus decodes Ogg Opus through gopkg.in/hraban/opus.v2.
//
// The decoder needs cgo with libopus and libopusfile and is only compiled
// with the opus build tag:
//
//	go build -tags opus ./...
//
// Sniff and Channels are always available so the header can be inspected
// without the C libraries.
package opus
