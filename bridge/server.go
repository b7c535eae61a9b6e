// SPDX-License-Identifier: EPL-2.0

package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ik5/audsink"
)

// Player is the playback surface driven by the bridge. *audsink.Player
// implements it.
type Player interface {
	Load(data []byte) bool
	Play() bool
	Pause()
	Stop()
	SetVolume(level float64)
	SetSpeed(speed float64)
	Empty() bool
	Err() error
	State() audsink.State
}

// Config holds server settings. Zero values get defaults in New.
type Config struct {
	// Addr is the listen address, e.g. "127.0.0.1:8931".
	Addr string
	// Path of the WebSocket endpoint; default "/player".
	Path string
	// MaxMessageSize bounds a single request; default 64 MiB.
	MaxMessageSize int64
	// WatchInterval is how often a playing sink is checked for the end
	// of playback; default 200ms.
	WatchInterval time.Duration
	Logger        *log.Logger
}

type Server struct {
	cfg      Config
	player   Player
	logger   *log.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	httpServer *http.Server
	listener   net.Listener

	mu       sync.Mutex
	sessions map[string]*session
	owner    *session
	watch    context.CancelFunc
	stopping bool

	wg sync.WaitGroup
}

type session struct {
	id     string
	remote string
	conn   *websocket.Conn
	wmu    sync.Mutex
}

func (s *session) send(v any) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.conn.WriteJSON(v)
}

func New(player Player, cfg Config) *Server {
	if cfg.Path == "" {
		cfg.Path = "/player"
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 64 << 20
	}
	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = 200 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:      cfg,
		player:   player,
		logger:   logger,
		mux:      http.NewServeMux(),
		sessions: make(map[string]*session),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	s.mux.HandleFunc(cfg.Path, s.handleWebSocket)

	return s
}

// Handler exposes the endpoint for embedding in another http.Server.
func (s *Server) Handler() http.Handler { return s.mux }

// Path returns the WebSocket endpoint path.
func (s *Server) Path() string { return s.cfg.Path }

// Start listens on cfg.Addr and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Printf("bridge: listening on ws://%s%s", ln.Addr(), s.cfg.Path)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("bridge: serve error: %v", err)
		}
	}()

	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes every session, stops playback and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	if srv == nil {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.stopping = true
	s.stopWatchLocked()
	conns := make([]*websocket.Conn, 0, len(s.sessions))
	for _, sess := range s.sessions {
		conns = append(conns, sess.conn)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}

	err := srv.Shutdown(ctx)
	s.wg.Wait()
	s.player.Stop()

	if err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Printf("bridge: stopped")
	return nil
}

// checkOrigin accepts non-browser clients and local pages only.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	s.logger.Printf("bridge: rejecting origin %s", origin)
	return false
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Handlers join wg under s.mu; Stop sets stopping before it waits.
	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		http.Error(w, ErrStopping.Error(), http.StatusServiceUnavailable)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("bridge: upgrade error: %v", err)
		return
	}
	conn.SetReadLimit(s.cfg.MaxMessageSize)

	sess := &session{id: uuid.New().String(), remote: r.RemoteAddr, conn: conn}

	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Printf("bridge: session %s connected from %s", sess.id, sess.remote)

	defer s.drop(sess)

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("bridge: session %s read error: %v", sess.id, err)
			}
			return
		}

		if err := sess.send(s.handle(sess, req)); err != nil {
			s.logger.Printf("bridge: session %s write error: %v", sess.id, err)
			return
		}
	}
}

// drop forgets sess. When it held control, playback is stopped.
func (s *Server) drop(sess *session) {
	_ = sess.conn.Close()

	s.mu.Lock()
	delete(s.sessions, sess.id)
	owned := s.owner == sess
	if owned {
		s.owner = nil
		s.stopWatchLocked()
	}
	s.mu.Unlock()

	if owned {
		s.player.Stop()
		s.logger.Printf("bridge: controller %s left, playback stopped", sess.id)
	}
	s.logger.Printf("bridge: session %s disconnected", sess.id)
}

// claim makes sess the controller if nobody is.
func (s *Server) claim(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner == nil {
		s.owner = sess
		s.logger.Printf("bridge: session %s took control", sess.id)
	}
	return s.owner == sess
}

func (s *Server) isOwner(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner == sess
}
