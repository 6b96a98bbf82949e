package main

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"
)

// handleDiscovery receives datagrams until the socket is closed. It is the
// only reader of the socket, so datagrams are handled in arrival order.
func (s *Session) handleDiscovery() {
	buffer := make([]byte, maxDatagram)
	for {
		length, addr, err := s.conn.Receive(buffer)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("discovery read error", zap.Error(err))
			continue
		}
		s.handleDatagram(buffer[:length], addr)
	}
}

// handleDatagram applies one inbound datagram to the registry and the
// console. It reports whether the datagram was dispatched; malformed
// payloads and our own broadcasts are dropped.
func (s *Session) handleDatagram(payload []byte, from net.IP) bool {
	env, err := Decode(payload)
	if err != nil {
		return false
	}
	// Broadcasts loop back to the sender. Address and name are checked
	// separately: the address guess can pick the wrong interface.
	if from != nil && from.Equal(s.localIP) {
		return false
	}
	sender := env.Username
	if sender == "" {
		sender = unknownSender
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sender == s.username {
		return false
	}

	s.out.EraseLine()
	switch env.Type {
	case TypeHello:
		if s.peers.RecordPresence(sender, ipString(from)) {
			s.out.Notice("%s joined the chat.", sender)
			s.chime.Notify()
		}
	case TypeGroup:
		s.out.Chat(sender, env.Text)
		s.appendHistory(chatLine(sender, env.Text))
		s.chime.Notify()
	case TypeNameChange:
		if env.New != "" && s.peers.Rename(env.Old, env.New) {
			s.out.Notice("%s is now known as %s", env.Old, env.New)
		}
	default:
		s.logger.Debug("ignoring envelope", zap.String("type", env.Type), zap.String("from", sender))
	}
	s.out.Prompt(s.username)
	return true
}

// announcePresence broadcasts hello right away and then on every tick
// until ctx is done.
func (s *Session) announcePresence(ctx context.Context) {
	ticker := time.NewTicker(s.announceEvery)
	defer ticker.Stop()

	for {
		s.send(NewHello())

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func ipString(ip net.IP) string {
	if ip == nil {
		return ""
	}
	return ip.String()
}
