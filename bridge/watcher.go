// SPDX-License-Identifier: EPL-2.0

package bridge

import (
	"context"
	"time"
)

// watchEnd polls the player and tells the controller once the queue drains.
// A previous watcher is replaced.
func (s *Server) watchEnd() {
	s.mu.Lock()
	s.stopWatchLocked()
	if s.stopping {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.watch = cancel
	interval := s.cfg.WatchInterval
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.runWatch(ctx, interval)
	}()
}

func (s *Server) runWatch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !s.player.Empty() {
			continue
		}

		s.mu.Lock()
		if ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		owner := s.owner
		s.stopWatchLocked()
		s.mu.Unlock()

		if owner != nil {
			if err := owner.send(Event{Event: EventEnd}); err != nil {
				s.logger.Printf("bridge: sending end event to %s: %v", owner.id, err)
			}
		}
		return
	}
}

// Must hold s.mu.
func (s *Server) stopWatchLocked() {
	if s.watch != nil {
		s.watch()
		s.watch = nil
	}
}
