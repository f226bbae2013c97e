package ipc

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

const (
	// MaxFrameSize is the largest accepted frame body.
	MaxFrameSize = 16 << 20

	frameHeaderSize = 4
)

var (
	// ErrPeerClosed is returned when the stream ends before a frame starts.
	ErrPeerClosed = errors.New("peer closed connection")

	// ErrInvalidUTF8 is returned when a frame body is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("frame is not valid UTF-8")

	// ErrFrameTooLarge is returned for frames above MaxFrameSize.
	ErrFrameTooLarge = errors.New("frame too large")
)

type flusher interface {
	Flush() error
}

// WriteFrame writes a 4-byte big-endian length followed by payload in one
// write and flushes w when it buffers.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return errors.Wrapf(ErrFrameTooLarge, "%d bytes", len(payload))
	}

	buf := make([]byte, frameHeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload))) //nolint:gosec // bounded by MaxFrameSize
	copy(buf[frameHeaderSize:], payload)

	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "writing frame")
	}

	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, "flushing frame")
		}
	}

	return nil
}

// ReadFrame blocks until one whole frame is read and returns its body.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [frameHeaderSize]byte

	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrPeerClosed
		}

		return nil, errors.Wrap(err, "reading frame length")
	}

	size := binary.BigEndian.Uint32(header[:])
	if size > MaxFrameSize {
		return nil, errors.Wrapf(ErrFrameTooLarge, "%d bytes", size)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, errors.Wrap(err, "reading frame body")
	}

	if !utf8.Valid(body) {
		return nil, ErrInvalidUTF8
	}

	return body, nil
}

// WriteMessage encodes v as JSON and writes it as one frame.
func WriteMessage(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding message")
	}

	return WriteFrame(w, data)
}

// ReadMessage reads one frame and decodes it into v.
func ReadMessage(r io.Reader, v any) error {
	data, err := ReadFrame(r)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "decoding message")
	}

	return nil
}

// ReadInbound reads and classifies one frame sent to the daemon.
func ReadInbound(r io.Reader) (Inbound, error) {
	data, err := ReadFrame(r)
	if err != nil {
		return Inbound{}, err
	}

	return DecodeInbound(data)
}
