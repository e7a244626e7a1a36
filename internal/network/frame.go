package network

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize - длина префикса кадра (big endian uint32)
const HeaderSize = 4

// DefaultMaxFrame ограничивает память на один кадр от кривого или злого клиента
const DefaultMaxFrame = 1 << 20

var ErrFrameTooLarge = errors.New("network: frame too large")

// ReadFrame читает один кадр: 4 байта длины и payload.
// Кадр длиннее max не читается, соединение после этого надо закрывать.
func ReadFrame(r io.Reader, max int) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	size := binary.BigEndian.Uint32(header[:])
	if max > 0 && uint64(size) > uint64(max) {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFrameTooLarge, size, max)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return payload, nil
}

// WriteFrame пишет кадр одной операцией записи
func WriteFrame(w io.Writer, payload []byte) error {
	if uint64(len(payload)) > uint64(^uint32(0)) {
		return ErrFrameTooLarge
	}
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[HeaderSize:], payload)
	_, err := w.Write(buf)
	return err
}
