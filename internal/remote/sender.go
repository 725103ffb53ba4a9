package remote

import (
	"encoding/json"
	"fmt"
	"io"
	"net"

	"walle/internal/input"
)

// Sender writes controller snapshots to a Server.
type Sender struct {
	w io.Writer
}

func NewSender(w io.Writer) *Sender {
	return &Sender{w: w}
}

// Dial connects to the server at addr. The caller closes the returned
// connection.
func Dial(addr string) (*Sender, net.Conn, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	return NewSender(conn), conn, nil
}

func (s *Sender) Send(state input.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := WriteFrame(s.w, payload); err != nil {
		return fmt.Errorf("sending state: %w", err)
	}
	return nil
}
