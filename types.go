package main

import (
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	appDirName       = "ΞΖ"
	maxDatagram      = 1024 // receive buffer; larger datagrams are truncated and fail to decode
	announceInterval = 10 * time.Second
	splashDelay      = 2 * time.Second
	minPort          = 1024
	maxPort          = 65535
	commandSigil     = "@"
	unknownSender    = "unknown"
)

// Session is the state of one running chat client. The mutex guards the
// peer registry, the console and the username together: every block of
// console output happens while holding it.
type Session struct {
	mu       sync.Mutex
	username string
	port     int
	peers    *Registry
	out      *Console

	conn          datagramConn
	localIP       net.IP
	history       *Transcript
	store         *ConfigStore
	chime         notifier
	logger        *zap.Logger
	announceEvery time.Duration
}
