// Package remote carries controller snapshots over TCP so the controller can
// be plugged into a different machine from the one driving the Arduino.
//
// Each frame is a 4-byte big-endian length, a JSON encoded input.State and a
// 4-byte CRC-32 of the JSON.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"walle/internal/input"
)

// Server accepts remote controller feeds and acts as an input.Source. Poll
// returns the most recent snapshot received from any client.
type Server struct {
	listener net.Listener
	deadzone float64

	crit    sync.Mutex
	latest  input.State
	clients int
}

// Listen opens the TCP listener. Deadzone is applied to received axes.
func Listen(addr string, deadzone float64) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	log.Printf("remote: listening on %s", listener.Addr())
	return &Server{listener: listener, deadzone: deadzone}, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts clients until ctx is cancelled or the listener is closed.
func (s *Server) Serve(ctx context.Context) {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("remote: accept error: %v", err)
			continue
		}
		go s.handleClient(conn)
	}
}

func (s *Server) Close() error {
	return s.listener.Close()
}

// Poll implements input.Source. Before the first frame, and once every client
// has gone, the state is neutral so the robot stops.
func (s *Server) Poll() (input.State, error) {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.latest, nil
}

// Connected reports whether a remote controller is attached.
func (s *Server) Connected() bool {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.clients > 0
}

func (s *Server) publish(state input.State) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.latest = state
}

func (s *Server) handleClient(conn net.Conn) {
	defer conn.Close()

	log.Printf("remote: client connected: %s", conn.RemoteAddr())

	s.crit.Lock()
	s.clients++
	s.crit.Unlock()

	defer func() {
		s.crit.Lock()
		s.clients--
		if s.clients == 0 {
			s.latest = input.State{}
		}
		s.crit.Unlock()
	}()

	lastPrint := time.Now()
	for {
		payload, err := ReadFrame(conn)
		if err != nil {
			if errors.Is(err, ErrBadCRC) || errors.Is(err, ErrTooLarge) || errors.Is(err, ErrEmptyPacket) {
				log.Printf("remote: %s: %v, dropping packet", conn.RemoteAddr(), err)
				continue
			}
			if errors.Is(err, io.EOF) {
				log.Printf("remote: client disconnected: %s", conn.RemoteAddr())
				return
			}
			log.Printf("remote: read error: %v", err)
			return
		}

		var state input.State
		if err := json.Unmarshal(payload, &state); err != nil {
			log.Printf("remote: JSON unmarshal error: %v", err)
			continue
		}
		state = state.Deadzoned(s.deadzone)
		s.publish(state)

		if time.Since(lastPrint) > time.Second {
			log.Printf("remote: %s: %v", conn.RemoteAddr(), state)
			lastPrint = time.Now()
		}
	}
}
