package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Version is the current wire-format version.
const Version = 1

// Field widths and the total frame size. These bound the corresponding
// text fields; longer values are truncated on encode.
const (
	GuessDigits   = 4
	GameNameLen   = 64
	PlayerNameLen = 32
	ErrorMsgLen   = 256

	headerLen = 4

	// FrameSize is the exact length of every encoded envelope.
	FrameSize = headerLen + GameNameLen + PlayerNameLen + 4 + // maxPlayers
		GuessDigits*4 + // guess
		4 + 4 + 4 + PlayerNameLen + // result
		ErrorMsgLen + 4 + 4 + 4 // errorMsg, gameCount, playerCount, isWinner
)

var magic = [2]byte{'B', 'C'}

var (
	ErrShortFrame   = errors.New("frame shorter than envelope size")
	ErrBadMagic     = errors.New("frame does not start with envelope magic")
	ErrBadVersion   = errors.New("unsupported envelope version")
	ErrTrailingData = errors.New("frame longer than envelope size")
)

// Encode serializes the message into a fresh FrameSize buffer.
func Encode(m *Message) []byte {
	buf := make([]byte, FrameSize)
	buf[0], buf[1] = magic[0], magic[1]
	buf[2] = Version
	buf[3] = byte(m.Tag)

	off := headerLen
	off = putText(buf, off, m.GameName, GameNameLen)
	off = putText(buf, off, m.PlayerName, PlayerNameLen)
	off = putInt(buf, off, m.MaxPlayers)
	for _, d := range m.Guess {
		off = putInt(buf, off, d)
	}
	off = putInt(buf, off, m.Result.Bulls)
	off = putInt(buf, off, m.Result.Cows)
	off = putInt(buf, off, m.Result.Attempt)
	off = putText(buf, off, m.Result.PlayerName, PlayerNameLen)
	off = putText(buf, off, m.ErrorMsg, ErrorMsgLen)
	off = putInt(buf, off, m.GameCount)
	off = putInt(buf, off, m.PlayerCount)
	winner := 0
	if m.IsWinner {
		winner = 1
	}
	putInt(buf, off, winner)
	return buf
}

// Decode parses a frame produced by Encode. The frame must be exactly
// FrameSize bytes and carry the expected magic and version.
func Decode(frame []byte) (*Message, error) {
	if len(frame) < FrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(frame))
	}
	if len(frame) > FrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, len(frame))
	}
	if frame[0] != magic[0] || frame[1] != magic[1] {
		return nil, ErrBadMagic
	}
	if frame[2] != Version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, frame[2])
	}

	m := &Message{Tag: Tag(frame[3])}
	off := headerLen
	m.GameName, off = getText(frame, off, GameNameLen)
	m.PlayerName, off = getText(frame, off, PlayerNameLen)
	m.MaxPlayers, off = getInt(frame, off)
	for i := range m.Guess {
		m.Guess[i], off = getInt(frame, off)
	}
	m.Result.Bulls, off = getInt(frame, off)
	m.Result.Cows, off = getInt(frame, off)
	m.Result.Attempt, off = getInt(frame, off)
	m.Result.PlayerName, off = getText(frame, off, PlayerNameLen)
	m.ErrorMsg, off = getText(frame, off, ErrorMsgLen)
	m.GameCount, off = getInt(frame, off)
	m.PlayerCount, off = getInt(frame, off)
	var winner int
	winner, _ = getInt(frame, off)
	m.IsWinner = winner != 0
	return m, nil
}

// putText writes s into a width-byte null-padded field, truncating if
// needed, and returns the next offset.
func putText(buf []byte, off int, s string, width int) int {
	if len(s) > width {
		s = s[:width]
	}
	copy(buf[off:off+width], s)
	return off + width
}

// getText reads a null-padded text field and returns it with the next
// offset.
func getText(buf []byte, off, width int) (string, int) {
	field := buf[off : off+width]
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field), off + width
}

func putInt(buf []byte, off, v int) int {
	binary.BigEndian.PutUint32(buf[off:off+4], uint32(int32(v)))
	return off + 4
}

func getInt(buf []byte, off int) (int, int) {
	return int(int32(binary.BigEndian.Uint32(buf[off : off+4]))), off + 4
}
