package websocket

import (
	"encoding/binary"
)

// ParseFragment parses one fragment from the front of buf and returns
// it together with the bytes that follow it.
//
// When the MASK bit is set the payload is XORed with the masking key
// IN PLACE: buf is mutated, and the returned fragment's payload
// aliases the unmasked region of buf.
func ParseFragment(buf []byte) (Fragment, []byte, error) {
	if len(buf) < 2 {
		return Fragment{}, nil, ErrFragmentTooShort
	}

	var frag Fragment
	frag.Final = buf[0]&0x80 != 0
	opcode := Opcode(buf[0] & 0x0F)
	frag.Masked = buf[1]&0x80 != 0
	length := uint64(buf[1] & 0x7F)
	offset := 2

	switch length {
	case 126:
		if len(buf) < offset+2 {
			return Fragment{}, nil, ErrFragmentTooShort
		}
		length = uint64(binary.BigEndian.Uint16(buf[offset:]))
		offset += 2
	case 127:
		if len(buf) < offset+8 {
			return Fragment{}, nil, ErrFragmentTooShort
		}
		length = binary.BigEndian.Uint64(buf[offset:])
		offset += 8
	}

	if frag.Masked {
		if len(buf) < offset+4 {
			return Fragment{}, nil, ErrFragmentTooShort
		}
		copy(frag.MaskKey[:], buf[offset:offset+4])
		offset += 4
	}

	if length > uint64(len(buf)-offset) {
		return Fragment{}, nil, ErrPayloadTruncated
	}
	payload := buf[offset : offset+int(length)]
	if frag.Masked {
		maskBytes(payload, frag.MaskKey)
	}

	data, err := dataForOpcode(opcode, payload)
	if err != nil {
		return Fragment{}, nil, err
	}
	frag.Data = data

	return frag, buf[offset+int(length):], nil
}

// SerializeFragment encodes frag into buf and returns the encoded
// prefix of buf.
//
// The total encoded size is checked against len(buf) before anything
// is written; a short buffer yields a *BufferTooSmallError carrying
// the required size. When frag.Masked is set the fragment's payload is
// XORed with the mask key IN PLACE before being copied, so serializing
// the same fragment twice does not reproduce the first wire form.
func SerializeFragment(buf []byte, frag *Fragment) ([]byte, error) {
	if frag.Data == nil {
		return nil, &InvalidOpcodeError{Opcode: 0xFF}
	}
	payload := frag.Data.Payload()
	length := len(payload)

	extension := 0
	switch {
	case length > 0xFFFF:
		extension = 8
	case length > 125:
		extension = 2
	}
	required := 2 + extension + length
	if frag.Masked {
		required += 4
	}
	if required > len(buf) {
		return nil, &BufferTooSmallError{Required: required}
	}

	b0 := byte(frag.Data.Opcode())
	if frag.Final {
		b0 |= 0x80
	}
	buf[0] = b0

	// Byte 1 carries MASK and LEN7 together, written once after the
	// length has been classified.
	var b1 byte
	if frag.Masked {
		b1 = 0x80
	}
	i := 2
	switch extension {
	case 0:
		b1 |= byte(length)
	case 2:
		b1 |= 126
		binary.BigEndian.PutUint16(buf[i:], uint16(length))
		i += 2
	case 8:
		b1 |= 127
		binary.BigEndian.PutUint64(buf[i:], uint64(length))
		i += 8
	}
	buf[1] = b1

	if frag.Masked {
		copy(buf[i:], frag.MaskKey[:])
		i += 4
		maskBytes(payload, frag.MaskKey)
	}
	copy(buf[i:], payload)
	i += length

	return buf[:i], nil
}

// maskBytes XORs data in place with the 4-byte key. Applying it twice
// with the same key restores the original bytes.
func maskBytes(data []byte, key [4]byte) {
	for i := range data {
		data[i] ^= key[i%4]
	}
}
