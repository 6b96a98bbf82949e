package main

import (
	"fmt"
	"net"
)

// datagramConn is what the session needs from the network.
type datagramConn interface {
	Broadcast(payload []byte) error
	Receive(buf []byte) (int, net.IP, error)
	Close() error
}

// Transport is a single UDP socket used both to broadcast and to receive on
// the chat port.
type Transport struct {
	conn *net.UDPConn
	dest *net.UDPAddr
}

// Bind listens on port on every local interface. Broadcasts go to
// 255.255.255.255 on the same port. The runtime enables SO_BROADCAST on
// datagram sockets, so nothing else needs setting.
func Bind(port int) (*Transport, error) {
	return listenUDP(&net.UDPAddr{IP: net.IPv4zero, Port: port}, net.IPv4bcast)
}

func listenUDP(laddr *net.UDPAddr, destIP net.IP) (*Transport, error) {
	conn, err := net.ListenUDP("udp4", laddr)
	if err != nil {
		return nil, fmt.Errorf("bind udp port %d: %w", laddr.Port, err)
	}

	bound := conn.LocalAddr().(*net.UDPAddr)
	return &Transport{
		conn: conn,
		dest: &net.UDPAddr{IP: destIP, Port: bound.Port},
	}, nil
}

// Port returns the bound local port.
func (t *Transport) Port() int {
	return t.conn.LocalAddr().(*net.UDPAddr).Port
}

// Broadcast sends payload once. There is no acknowledgement and no retry.
func (t *Transport) Broadcast(payload []byte) error {
	if _, err := t.conn.WriteToUDP(payload, t.dest); err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	return nil
}

// Receive blocks until a datagram arrives. Datagrams longer than buf are
// truncated.
func (t *Transport) Receive(buf []byte) (int, net.IP, error) {
	n, addr, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		return 0, nil, err
	}
	return n, addr.IP, nil
}

func (t *Transport) Close() error {
	return t.conn.Close()
}

// LocalIP guesses the outward facing IPv4 address by "connecting" a UDP
// socket to a non-routable address. Nothing is sent. Falls back to loopback
// when the host has no route.
func LocalIP() net.IP {
	conn, err := net.Dial("udp4", "10.255.255.255:1")
	if err != nil {
		return net.IPv4(127, 0, 0, 1)
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil {
		return net.IPv4(127, 0, 0, 1)
	}
	return addr.IP
}
