// SPDX-License-Identifier: EPL-2.0

// Package bridge exposes a Player over a local WebSocket endpoint so an
// editor or browser host can drive playback with JSON messages.
//
// Every request gets exactly one reply carrying the player state. Control
// operations (load, play, pause, stop, volume, speed) belong to a single
// session at a time: the first one to issue a control op. Other sessions
// may still ask for status or empty. When the controlling session
// disconnects, playback stops and control is released.
//
// Once loaded audio drains, the controller receives {"event":"end"}.
package bridge
