// SPDX-License-Identifier: EPL-2.0

package bridge

import "github.com/ik5/audsink"

// Operations accepted in Request.Op.
const (
	OpLoad   = "load"
	OpPlay   = "play"
	OpPause  = "pause"
	OpStop   = "stop"
	OpVolume = "volume"
	OpSpeed  = "speed"
	OpEmpty  = "empty"
	OpStatus = "status"
)

// EventEnd is pushed to the controlling session when playback drains.
const EventEnd = "end"

// Request is one host command. Data is base64 in JSON.
type Request struct {
	ID    string   `json:"id,omitempty"`
	Op    string   `json:"op"`
	Data  []byte   `json:"data,omitempty"`
	Path  string   `json:"path,omitempty"`
	Level *float64 `json:"level,omitempty"`
	Speed *float64 `json:"speed,omitempty"`
	// Play false loads paused.
	Play *bool `json:"play,omitempty"`
}

// Reply answers exactly one Request and echoes its ID.
type Reply struct {
	ID      string         `json:"id,omitempty"`
	Op      string         `json:"op"`
	OK      bool           `json:"ok"`
	Empty   bool           `json:"empty"`
	Error   string         `json:"error,omitempty"`
	Info    *audsink.Info  `json:"info,omitempty"`
	State   *audsink.State `json:"state,omitempty"`
	Session string         `json:"session,omitempty"`
	Owner   bool           `json:"owner"`
}

// Event is sent without a request.
type Event struct {
	Event string `json:"event"`
}

func isControl(op string) bool {
	switch op {
	case OpLoad, OpPlay, OpPause, OpStop, OpVolume, OpSpeed:
		return true
	}
	return false
}
