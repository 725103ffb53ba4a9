package remote

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// MaxPacketSize is the maximum allowed payload size (in bytes) for a single packet.
var MaxPacketSize = 8192

var (
	ErrBadCRC      = errors.New("crc mismatch")
	ErrTooLarge    = errors.New("packet too large")
	ErrEmptyPacket = errors.New("zero-length packet")
)

// ComputeCRC computes CRC-32 (IEEE polynomial 0x04C11DB7) for the given data.
func ComputeCRC(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// AppendCRC appends a 4-byte big-endian CRC to the end of data and returns the new slice.
func AppendCRC(data []byte) []byte {
	crc := ComputeCRC(data)
	out := make([]byte, len(data)+4)
	copy(out, data)
	binary.BigEndian.PutUint32(out[len(data):], crc)
	return out
}

// VerifyPacket verifies a packet that is structured as: payload followed by 4-byte CRC.
// It returns the payload (a slice copy) and whether the CRC matched.
func VerifyPacket(payloadWithCRC []byte) (payload []byte, ok bool) {
	if len(payloadWithCRC) < 4 {
		return nil, false
	}
	payloadLen := len(payloadWithCRC) - 4
	payload = make([]byte, payloadLen)
	copy(payload, payloadWithCRC[:payloadLen])
	expected := binary.BigEndian.Uint32(payloadWithCRC[payloadLen:])
	return payload, ComputeCRC(payload) == expected
}

// WriteFrame writes a 4-byte big-endian length, the payload and its CRC. The
// length counts the payload and the CRC.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxPacketSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(payload), MaxPacketSize)
	}
	packet := AppendCRC(payload)
	frame := make([]byte, 4+len(packet))
	binary.BigEndian.PutUint32(frame, uint32(len(packet)))
	copy(frame[4:], packet)
	_, err := w.Write(frame)
	return err
}

// ReadFrame reads one frame and returns its payload. Oversized frames are
// drained so the stream stays in step; ErrTooLarge, ErrBadCRC and
// ErrEmptyPacket leave the reader positioned at the next frame.
func ReadFrame(r io.Reader) ([]byte, error) {
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, err
	}

	totalLen := binary.BigEndian.Uint32(hdr)
	if totalLen == 0 {
		return nil, ErrEmptyPacket
	}
	if totalLen > uint32(MaxPacketSize+4) {
		if _, err := io.CopyN(io.Discard, r, int64(totalLen)); err != nil {
			return nil, fmt.Errorf("drain: %w", err)
		}
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, totalLen, MaxPacketSize+4)
	}

	buf := make([]byte, totalLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read packet: %w", err)
	}

	payload, ok := VerifyPacket(buf)
	if !ok {
		return nil, ErrBadCRC
	}
	return payload, nil
}
