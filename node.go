package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

const commandHelp = "Commands: @myname <name>, @people, @quit"

// NewSession wires a bound connection to the rest of the client. The
// session is idle until Start.
func NewSession(username string, port int, conn datagramConn, out *Console, store *ConfigStore, history *Transcript, logger *zap.Logger) *Session {
	return &Session{
		username:      username,
		port:          port,
		peers:         NewRegistry(),
		out:           out,
		conn:          conn,
		localIP:       LocalIP(),
		history:       history,
		store:         store,
		chime:         nopNotifier{},
		logger:        logger,
		announceEvery: announceInterval,
	}
}

// Run is the whole client: it resolves the identity, binds the chat port
// and blocks until the user quits. Only startup failures are returned.
func Run(ctx context.Context, stdin *os.File, stdout io.Writer) error {
	dir, err := appDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create app directory: %w", err)
	}

	store := NewConfigStore(filepath.Join(dir, "config.json"))
	settings := store.Settings()

	logger, restoreLog := newLogger(dir, settings.LogLevel)
	defer restoreLog()
	defer logger.Sync()

	console := NewConsole(stdout)
	showSplash(console)

	// bubbletea owns stdin while it runs, so the line reader is only
	// started before the prompts when they are read line by line.
	var lines <-chan string
	var ask prompter
	if isatty.IsTerminal(stdin.Fd()) || isatty.IsCygwinTerminal(stdin.Fd()) {
		ask = teaPrompter{in: stdin, out: stdout}
	} else {
		lines = readLines(stdin, logger)
		ask = linePrompter{console: console, lines: lines}
	}

	username, port, err := resolveIdentity(ctx, settings, store, ask, logger)
	if errors.Is(err, errAborted) {
		console.Println("")
		return nil
	}
	if err != nil {
		return err
	}

	conn, err := Bind(port)
	if err != nil {
		return err
	}
	defer conn.Close()

	if lines == nil {
		lines = readLines(stdin, logger)
	}

	s := NewSession(username, port, conn, console, store, OpenTranscript(dir, port), logger)
	if settings.Chime {
		if chime, err := NewChime(); err != nil {
			logger.Warn("chime disabled", zap.Error(err))
		} else {
			s.chime = chime
		}
	}

	logger.Info("session started",
		zap.String("username", username),
		zap.Int("port", port),
		zap.Stringer("local_ip", s.localIP))
	s.Start(ctx, lines)
	logger.Info("session ended")
	return nil
}

// resolveIdentity takes the username and port from settings and asks for
// whichever is missing or unusable. Answers are saved right away.
func resolveIdentity(ctx context.Context, settings Settings, store *ConfigStore, ask prompter, logger *zap.Logger) (string, int, error) {
	username := settings.Username
	if username == "" {
		name, err := ask.Ask(ctx, nameQuestion)
		if err != nil {
			return "", 0, err
		}
		username = name
		if err := store.Save("username", username); err != nil {
			logger.Warn("failed to save username", zap.Error(err))
		}
	}

	port := settings.Port
	if !validPort(port) {
		answer, err := ask.Ask(ctx, portQuestion)
		if err != nil {
			return "", 0, err
		}
		port, _ = parsePort(answer)
		if err := store.Save("port", port); err != nil {
			logger.Warn("failed to save port", zap.Error(err))
		}
	}
	return username, port, nil
}

// Start prints the greeting and the transcript, starts the listener and
// the announcer, and runs the command loop until the user quits. The
// background goroutines are not waited for.
func (s *Session) Start(ctx context.Context, lines <-chan string) {
	s.mu.Lock()
	s.out.Println(fmt.Sprintf("Welcome, %s!", s.username))
	s.out.Println(fmt.Sprintf("Connecting to the network on port %d...", s.port))
	s.replayHistory()
	s.out.Println(commandHelp)
	s.mu.Unlock()

	announceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.handleDiscovery()
	go s.announcePresence(announceCtx)

	s.mainLoop(ctx, lines)
}

// mainLoop handles one input line per iteration. The prompt is drawn under
// the lock; waiting for input is not.
func (s *Session) mainLoop(ctx context.Context, lines <-chan string) {
	for {
		s.mu.Lock()
		s.out.Prompt(s.username)
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			s.quit(true)
			return
		case line, ok := <-lines:
			if !ok {
				s.quit(true)
				return
			}
			if !s.handleCLIInput(line) {
				return
			}
		}
	}
}

// replayHistory must be called with s.mu held.
func (s *Session) replayHistory() {
	lines, err := s.history.ReadAll()
	if err != nil {
		s.logger.Warn("transcript replay failed", zap.String("path", s.history.Path()), zap.Error(err))
	}
	for _, line := range lines {
		s.out.Println(line)
	}
}

// readLines feeds stdin to a channel one line at a time and closes it at
// end of input. Lines have no length limit.
func readLines(r io.Reader, logger *zap.Logger) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(r)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				lines <- strings.TrimRight(line, "\r\n")
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					logger.Warn("stdin read error", zap.Error(err))
				}
				return
			}
		}
	}()
	return lines
}
