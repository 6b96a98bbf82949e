package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Transcript is the append-only chat log for one port.
type Transcript struct {
	path string
}

// OpenTranscript returns the transcript for port, stored as <port>.log in
// dir. The file is created on first append.
func OpenTranscript(dir string, port int) *Transcript {
	return &Transcript{path: filepath.Join(dir, strconv.Itoa(port)+".log")}
}

func (t *Transcript) Path() string {
	return t.path
}

// Append writes one line and closes the file again, so every line is on
// disk before the next message is handled.
func (t *Transcript) Append(line string) error {
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("write transcript: %w", err)
	}
	return f.Close()
}

// ReadAll returns every line in order. A transcript that was never written
// is empty, not an error.
func (t *Transcript) ReadAll() ([]string, error) {
	f, err := os.Open(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("read transcript: %w", err)
	}
	return lines, nil
}
