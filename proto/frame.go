package proto

import "encoding/binary"

// HeaderSize is the fixed frame prefix: magic, command, payload length,
// sequence, checksum.
const HeaderSize = 8

// Header is the decoded 8-byte frame prefix.
type Header struct {
	Magic    uint8
	Cmd      uint8
	Length   uint16
	Sequence uint16
	Checksum uint16
}

func decodeHeader(b []byte) Header {
	return Header{
		Magic:    b[0],
		Cmd:      b[1],
		Length:   binary.LittleEndian.Uint16(b[2:4]),
		Sequence: binary.LittleEndian.Uint16(b[4:6]),
		Checksum: binary.LittleEndian.Uint16(b[6:8]),
	}
}

func encodeHeader(dst []byte, h Header) {
	dst[0] = h.Magic
	dst[1] = h.Cmd
	binary.LittleEndian.PutUint16(dst[2:4], h.Length)
	binary.LittleEndian.PutUint16(dst[4:6], h.Sequence)
	binary.LittleEndian.PutUint16(dst[6:8], h.Checksum)
}

// BuildFrame assembles a command frame with the payload CRC filled in.
func BuildFrame(magic, cmd uint8, seq uint16, payload []byte) []byte {
	out := make([]byte, HeaderSize+len(payload))
	var crc uint16
	if len(payload) > 0 {
		crc = CRC16(payload)
	}
	encodeHeader(out, Header{
		Magic:    magic,
		Cmd:      cmd,
		Length:   uint16(len(payload)),
		Sequence: seq,
		Checksum: crc,
	})
	copy(out[HeaderSize:], payload)
	return out
}

// BuildCommand is BuildFrame with the standard command magic.
func BuildCommand(cmd uint8, seq uint16, payload []byte) []byte {
	return BuildFrame(MagicCmd, cmd, seq, payload)
}

// Little-endian payload field readers. Short payloads read as zero so a
// malformed frame degrades to a no-op instead of an out-of-bounds access.

func u16At(p []byte, off int) uint16 {
	if off+2 > len(p) {
		return 0
	}
	return binary.LittleEndian.Uint16(p[off:])
}

func u32At(p []byte, off int) uint32 {
	if off+4 > len(p) {
		return 0
	}
	return binary.LittleEndian.Uint32(p[off:])
}

func f32At(p []byte, off int) float32 {
	if off+4 > len(p) {
		return 0
	}
	return float32frombits(binary.LittleEndian.Uint32(p[off:]))
}

func putF32(dst []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(dst[off:], float32bits(v))
}
