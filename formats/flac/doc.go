// SPDX-License-Identifier: EPL-2.0

// Package flac decodes native FLAC streams through github.com/mewkiz/flac.
//
// Frames are decoded one at a time and their subframes interleaved, so
// memory use stays at one block regardless of file length.
package flac
