// SPDX-License-Identifier: EPL-2.0

package bridge

import (
	"fmt"
	"os"

	"github.com/ik5/audsink"
)

func (s *Server) handle(sess *session, req Request) Reply {
	reply := Reply{ID: req.ID, Op: req.Op, Session: sess.id}

	var err error
	switch {
	case req.Op == OpStatus, req.Op == OpEmpty:
		// read-only, open to every session
	case isControl(req.Op):
		if !s.claim(sess) {
			err = ErrControlLocked
			break
		}
		err = s.control(req, &reply)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownOp, req.Op)
	}

	st := s.player.State()
	reply.State = &st
	reply.Empty = st.Empty
	reply.Owner = s.isOwner(sess)

	if err != nil {
		reply.Error = err.Error()
		return reply
	}
	reply.OK = true
	return reply
}

func (s *Server) control(req Request, reply *Reply) error {
	switch req.Op {
	case OpLoad:
		return s.load(req, reply)

	case OpPlay:
		if !s.player.Play() {
			return errorOr(s.player.Err(), ErrPlayFailed)
		}
		s.watchEnd()

	case OpPause:
		s.player.Pause()

	case OpStop:
		s.mu.Lock()
		s.stopWatchLocked()
		s.mu.Unlock()
		s.player.Stop()

	case OpVolume:
		if req.Level == nil {
			return fmt.Errorf("%w: level", ErrMissingValue)
		}
		s.player.SetVolume(*req.Level)

	case OpSpeed:
		if req.Speed == nil {
			return fmt.Errorf("%w: speed", ErrMissingValue)
		}
		s.player.SetSpeed(*req.Speed)
	}

	return nil
}

func (s *Server) load(req Request, reply *Reply) error {
	data := req.Data
	if len(data) == 0 {
		if req.Path == "" {
			return ErrNoAudio
		}

		b, err := os.ReadFile(req.Path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", req.Path, err)
		}
		data = b
	}

	s.mu.Lock()
	s.stopWatchLocked()
	s.mu.Unlock()

	if !s.player.Load(data) {
		return errorOr(s.player.Err(), ErrLoadFailed)
	}
	if req.Play != nil && !*req.Play {
		s.player.Pause()
	}

	if info, err := audsink.Probe(data); err == nil {
		reply.Info = &info
	} else {
		s.logger.Printf("bridge: probe failed after load: %v", err)
	}

	s.watchEnd()
	return nil
}

func errorOr(err, fallback error) error {
	if err != nil {
		return err
	}
	return fallback
}
