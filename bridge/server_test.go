// SPDX-License-Identifier: EPL-2.0

package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ik5/audsink"
	"github.com/ik5/audsink/formats/wav"
	"github.com/ik5/audsink/internal/audiotest"
)

var quiet = log.New(io.Discard, "", 0)

func toneWAV(t *testing.T, frames int) []byte {
	t.Helper()

	samples := make([]int16, frames)
	for i := range samples {
		samples[i] = 8000
	}

	var buf bytes.Buffer
	if err := wav.WriteWAV16(&buf, 48000, 1, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}
	return buf.Bytes()
}

type fixture struct {
	backend *audiotest.Backend
	player  *audsink.Player
	server  *Server
	url     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := &audiotest.Backend{}
	player := audsink.NewPlayer(audsink.WithBackend(backend), audsink.WithLogger(quiet))
	srv := New(player, Config{WatchInterval: 5 * time.Millisecond, Logger: quiet})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &fixture{
		backend: backend,
		player:  player,
		server:  srv,
		url:     "ws" + strings.TrimPrefix(ts.URL, "http") + srv.Path(),
	}
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(f.url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func call(t *testing.T, conn *websocket.Conn, req Request) Reply {
	t.Helper()

	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var reply Reply
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return reply
}

func ptr[T any](v T) *T { return &v }

func TestServer_LoadInline(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	conn := f.dial(t)

	reply := call(t, conn, Request{ID: "1", Op: OpLoad, Data: toneWAV(t, 4800)})
	if !reply.OK {
		t.Fatalf("load reply = %+v, want ok", reply)
	}
	if reply.ID != "1" || reply.Op != OpLoad {
		t.Errorf("reply id/op = %q/%q, want 1/load", reply.ID, reply.Op)
	}
	if reply.Empty {
		t.Error("reply.Empty = true after load")
	}
	if !reply.Owner {
		t.Error("loading session should own control")
	}
	if reply.Session == "" {
		t.Error("reply has no session id")
	}
	if reply.Info == nil || reply.Info.Format != "wav" || reply.Info.Frames != 4800 {
		t.Errorf("reply.Info = %+v, want wav with 4800 frames", reply.Info)
	}
	if reply.State == nil || !reply.State.Loaded {
		t.Errorf("reply.State = %+v, want loaded", reply.State)
	}
}

func TestServer_LoadBase64OnTheWire(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	conn := f.dial(t)

	raw, err := json.Marshal(map[string]any{"op": "load", "data": toneWAV(t, 480)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.Contains(raw, []byte(`"data":"UklGR`)) {
		t.Fatalf("payload is not base64 encoded: %.40s", raw)
	}

	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	var reply Reply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if !reply.OK {
		t.Errorf("reply = %+v, want ok", reply)
	}
}

func TestServer_LoadPath(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	conn := f.dial(t)

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := os.WriteFile(path, toneWAV(t, 4800), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	reply := call(t, conn, Request{Op: OpLoad, Path: path, Play: ptr(false)})
	if !reply.OK {
		t.Fatalf("load reply = %+v, want ok", reply)
	}
	if !reply.State.Paused {
		t.Error("play:false should leave the player paused")
	}

	missing := call(t, conn, Request{Op: OpLoad, Path: filepath.Join(t.TempDir(), "missing.wav")})
	if missing.OK || missing.Error == "" {
		t.Errorf("load of missing file = %+v, want an error", missing)
	}
}

func TestServer_LoadFailures(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	conn := f.dial(t)

	if r := call(t, conn, Request{Op: OpLoad}); r.OK || !strings.Contains(r.Error, ErrNoAudio.Error()) {
		t.Errorf("load without audio = %+v, want %q", r, ErrNoAudio)
	}

	r := call(t, conn, Request{Op: OpLoad, Data: []byte("garbage")})
	if r.OK || r.Error == "" {
		t.Errorf("load of garbage = %+v, want an error", r)
	}
	if !r.Empty {
		t.Error("player should be empty after a failed load")
	}
}

func TestServer_ControlOps(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	conn := f.dial(t)

	if r := call(t, conn, Request{Op: OpPlay}); r.OK {
		t.Errorf("play before load = %+v, want failure", r)
	}

	call(t, conn, Request{Op: OpLoad, Data: toneWAV(t, 48000)})

	r := call(t, conn, Request{Op: OpPause})
	if !r.OK || !r.State.Paused {
		t.Errorf("pause reply = %+v, want ok and paused", r)
	}

	r = call(t, conn, Request{Op: OpPlay})
	if !r.OK || r.State.Paused {
		t.Errorf("play reply = %+v, want ok and playing", r)
	}

	r = call(t, conn, Request{Op: OpVolume, Level: ptr(40.0)})
	if !r.OK || r.State.Volume != 40 {
		t.Errorf("volume reply = %+v, want ok at 40", r)
	}

	if r = call(t, conn, Request{Op: OpVolume}); r.OK {
		t.Error("volume without level should fail")
	}

	r = call(t, conn, Request{Op: OpSpeed, Speed: ptr(1.5)})
	if !r.OK || r.State.Speed != 1.5 {
		t.Errorf("speed reply = %+v, want ok at 1.5", r)
	}

	r = call(t, conn, Request{Op: OpStop})
	if !r.OK || !r.Empty || r.State.Loaded {
		t.Errorf("stop reply = %+v, want ok, empty, unloaded", r)
	}

	if r = call(t, conn, Request{Op: "rewind"}); r.OK || !strings.Contains(r.Error, ErrUnknownOp.Error()) {
		t.Errorf("unknown op reply = %+v", r)
	}
}

func TestServer_ControlLock(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := f.dial(t)
	observer := f.dial(t)

	if r := call(t, owner, Request{Op: OpLoad, Data: toneWAV(t, 48000)}); !r.OK {
		t.Fatalf("owner load = %+v", r)
	}

	r := call(t, observer, Request{Op: OpPause})
	if r.OK || r.Error != ErrControlLocked.Error() {
		t.Errorf("observer pause = %+v, want %q", r, ErrControlLocked)
	}
	if r.Owner {
		t.Error("observer reported as owner")
	}

	r = call(t, observer, Request{Op: OpStatus})
	if !r.OK || r.State == nil || !r.State.Loaded {
		t.Errorf("observer status = %+v, want ok with state", r)
	}

	r = call(t, observer, Request{Op: OpEmpty})
	if !r.OK || r.Empty {
		t.Errorf("observer empty = %+v, want ok and not empty", r)
	}

	// the owner leaving stops playback and frees control
	owner.Close()
	deadline := time.Now().Add(5 * time.Second)
	for !f.player.Empty() {
		if time.Now().After(deadline) {
			t.Fatal("playback not stopped after the owner disconnected")
		}
		time.Sleep(5 * time.Millisecond)
	}

	r = call(t, observer, Request{Op: OpVolume, Level: ptr(10.0)})
	if !r.OK || !r.Owner {
		t.Errorf("observer after owner left = %+v, want control", r)
	}
}

func TestServer_EndEvent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	conn := f.dial(t)

	if r := call(t, conn, Request{Op: OpLoad, Data: toneWAV(t, 480)}); !r.OK {
		t.Fatalf("load = %+v", r)
	}

	// play the whole track through the fake device
	if _, err := f.backend.Last().Voice(0).Pump(8192); err != nil {
		t.Fatalf("Pump() error = %v", err)
	}

	var ev Event
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if ev.Event != EventEnd {
		t.Errorf("event = %q, want %q", ev.Event, EventEnd)
	}
}

func TestServer_CheckOrigin(t *testing.T) {
	t.Parallel()

	srv := New(nil, Config{Logger: quiet})

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:3000", true},
		{"http://127.0.0.1", true},
		{"vscode-webview://abc", false},
		{"https://example.com", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/player", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := srv.checkOrigin(r); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestServer_StartStop(t *testing.T) {
	t.Parallel()

	player := audsink.NewPlayer(audsink.WithBackend(&audiotest.Backend{}), audsink.WithLogger(quiet))
	srv := New(player, Config{Addr: "127.0.0.1:0", Logger: quiet})

	if err := srv.Stop(context.Background()); err != ErrNotStarted {
		t.Errorf("Stop() before Start error = %v, want ErrNotStarted", err)
	}

	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr().String()+"/player", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if r := call(t, conn, Request{Op: OpStatus}); !r.OK {
		t.Errorf("status = %+v", r)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/player", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("connect after Stop: status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
