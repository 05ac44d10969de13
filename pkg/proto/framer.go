package proto

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// MaxFrameSize caps the declared payload length. The reference protocol
// has no cap, which lets one bad prefix allocate gigabytes.
const MaxFrameSize = 64 << 20

const prefixSize = 4

// Encode writes m to w as a 4-byte big-endian length followed by the
// JSON payload.
func Encode(w io.Writer, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("%w: encoding payload: %s", ErrProtocol, err)
	}
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%w: payload of %d bytes exceeds frame cap", ErrFraming, len(payload))
	}

	var prefix [prefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))

	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("%w: writing length prefix: %s", ErrFraming, err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("%w: writing payload: %s", ErrFraming, err)
	}

	return nil
}

// Decode blocks until a full frame is read from r and returns the parsed
// message. A clean close before any prefix byte is io.EOF; a close mid-frame
// is ErrFraming; a payload that does not parse or validate is ErrProtocol.
func Decode(r io.Reader) (Message, error) {
	var prefix [prefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return Message{}, io.EOF
		}

		return Message{}, fmt.Errorf("%w: reading length prefix: %s", ErrFraming, err)
	}

	length := binary.BigEndian.Uint32(prefix[:])
	if length > MaxFrameSize {
		return Message{}, fmt.Errorf("%w: declared length %d exceeds frame cap", ErrFraming, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Message{}, fmt.Errorf("%w: reading %d payload bytes: %s", ErrFraming, length, err)
	}

	var m Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return Message{}, fmt.Errorf("%w: parsing payload: %s", ErrProtocol, err)
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}

	return m, nil
}
