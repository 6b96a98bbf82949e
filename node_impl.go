package main

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// handleCLIInput runs one line typed by the user. It returns false when the
// session should end.
func (s *Session) handleCLIInput(input string) bool {
	msg := strings.TrimSpace(input)
	if msg == "" {
		return true
	}
	if !strings.HasPrefix(msg, commandSigil) {
		s.sendChat(msg)
		return true
	}

	command, arg := splitCommand(msg)
	switch command {
	case "@myname", "@m":
		s.changeName(arg)
	case "@people", "@p":
		s.listPeers()
	case "@quit", "@q":
		s.quit(false)
		return false
	default:
		s.notice("Unknown command \"%s\"", command)
	}
	return true
}

// splitCommand separates the first whitespace delimited token from the rest.
func splitCommand(msg string) (string, string) {
	i := strings.IndexFunc(msg, unicode.IsSpace)
	if i < 0 {
		return msg, ""
	}
	return msg[:i], strings.TrimSpace(msg[i:])
}

func (s *Session) changeName(newName string) {
	if newName == "" {
		s.notice("Usage: @myname <your_name>")
		return
	}

	s.mu.Lock()
	oldName := s.username
	s.username = newName
	s.mu.Unlock()

	if err := s.store.Save("username", newName); err != nil {
		s.logger.Warn("failed to save username", zap.Error(err))
	}
	s.notice("Your name is now %s", newName)
	s.send(NewNameChange(oldName, newName))
}

func (s *Session) listPeers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.out.Println("[Online Users:]")
	if s.peers.Len() == 0 {
		s.out.Println("  (No one else is here right now)")
		return
	}
	for _, name := range s.peers.Names() {
		s.out.Println("  - " + name)
	}
}

// quit prints the goodbye notice. interrupted starts it on a fresh line,
// since the user never pressed enter.
func (s *Session) quit(interrupted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interrupted {
		s.out.Println("")
	}
	s.out.Notice("Quitting...")
}

func (s *Session) notice(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.Notice(format, args...)
}
