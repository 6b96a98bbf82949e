package main

import (
	"go.uber.org/zap"
)

// send stamps env with the current username and broadcasts it.
func (s *Session) send(env Envelope) {
	s.mu.Lock()
	env.Username = s.username
	s.mu.Unlock()

	s.broadcast(env)
}

func (s *Session) broadcast(env Envelope) {
	data, err := Encode(env)
	if err != nil {
		s.logger.Error("encode envelope", zap.String("type", env.Type), zap.Error(err))
		return
	}
	if len(data) > maxDatagram {
		// Receivers read at most maxDatagram bytes and drop the rest.
		s.logger.Warn("envelope larger than a datagram; peers will drop it",
			zap.String("type", env.Type), zap.Int("size", len(data)))
	}
	if err := s.conn.Broadcast(data); err != nil {
		s.logger.Warn("broadcast failed", zap.String("type", env.Type), zap.Error(err))
	}
}

// sendChat broadcasts text and records it locally. Our own broadcast is
// filtered on receipt, so this is the only place a sent line is logged.
func (s *Session) sendChat(text string) {
	s.send(NewGroup(text))

	s.mu.Lock()
	s.appendHistory(chatLine(s.username, text))
	s.mu.Unlock()
}

// appendHistory must be called with s.mu held.
func (s *Session) appendHistory(line string) {
	if err := s.history.Append(line); err != nil {
		s.logger.Warn("transcript append failed", zap.String("path", s.history.Path()), zap.Error(err))
	}
}
