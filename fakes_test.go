package main

import (
	"bytes"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type datagram struct {
	payload []byte
	from    net.IP
}

// memNetwork delivers every broadcast to every member, the sender included,
// the way a real subnet broadcast does.
type memNetwork struct {
	mu      sync.Mutex
	members []*memConn
	sent    []datagram
}

func (n *memNetwork) join(ip string) *memConn {
	c := &memConn{
		network: n,
		ip:      net.ParseIP(ip).To4(),
		inbox:   make(chan datagram, 64),
		closed:  make(chan struct{}),
	}
	n.mu.Lock()
	n.members = append(n.members, c)
	n.mu.Unlock()
	return c
}

// sentBy returns the decoded envelopes broadcast from ip, in order.
func (n *memNetwork) sentBy(t *testing.T, ip string) []Envelope {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []Envelope
	for _, d := range n.sent {
		if !d.from.Equal(net.ParseIP(ip)) {
			continue
		}
		env, err := Decode(d.payload)
		if err != nil {
			t.Fatalf("sent payload does not decode: %v", err)
		}
		out = append(out, env)
	}
	return out
}

type memConn struct {
	network   *memNetwork
	ip        net.IP
	inbox     chan datagram
	closed    chan struct{}
	closeOnce sync.Once
}

func (c *memConn) Broadcast(payload []byte) error {
	d := datagram{payload: append([]byte(nil), payload...), from: c.ip}

	c.network.mu.Lock()
	defer c.network.mu.Unlock()
	c.network.sent = append(c.network.sent, d)
	for _, m := range c.network.members {
		select {
		case m.inbox <- d:
		default:
		}
	}
	return nil
}

// inject delivers a datagram as if it came from ip.
func (c *memConn) inject(payload []byte, ip string) {
	c.inbox <- datagram{payload: payload, from: net.ParseIP(ip).To4()}
}

func (c *memConn) Receive(buf []byte) (int, net.IP, error) {
	select {
	case d := <-c.inbox:
		return copy(buf, d.payload), d.from, nil
	case <-c.closed:
		return 0, nil, net.ErrClosed
	}
}

func (c *memConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

type countingNotifier struct {
	mu sync.Mutex
	n  int
}

func (c *countingNotifier) Notify() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *countingNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// testSession is a session whose console writes to a buffer.
type testSession struct {
	*Session
	buf *bytes.Buffer
	dir string
}

func newTestSession(t *testing.T, username, ip string, conn datagramConn) *testSession {
	t.Helper()
	dir := t.TempDir()
	buf := &bytes.Buffer{}
	s := NewSession(username, 9001, conn, NewConsole(buf),
		NewConfigStore(filepath.Join(dir, "config.json")),
		OpenTranscript(dir, 9001), zap.NewNop())
	s.localIP = net.ParseIP(ip).To4()
	return &testSession{Session: s, buf: buf, dir: dir}
}

// output returns everything printed so far.
func (ts *testSession) output() string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.buf.String()
}

func (ts *testSession) resetOutput() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.buf.Reset()
}

func (ts *testSession) names() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.peers.Names()
}

func (ts *testSession) transcript(t *testing.T) []string {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	lines, err := ts.history.ReadAll()
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	return lines
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func mustEncode(t *testing.T, e Envelope) []byte {
	t.Helper()
	data, err := Encode(e)
	if err != nil {
		t.Fatalf("encode %+v: %v", e, err)
	}
	return data
}

func countLines(s, want string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, want) {
			n++
		}
	}
	return n
}
