package window

import "encoding/binary"

// A block is one grapheme cluster's worth of encoded cell data: a header
// varint (width flag in bit 0, payload byte count in the rest), an
// attribute-index varint, and the UTF-8 bytes of the base codepoint plus any
// zero-width combining codepoints that belong to the same cell(s). See
// spec.md §3.1. Headers and attribute indices are encoded with the same
// LEB128 varint scheme as encoding/binary.{Put,}Uvarint — spec.md describes
// exactly that scheme ("high bit continues"), so reaching for a bespoke
// varint writer here would just reimplement the standard library's.
//
// decodedBlock is the in-memory, decoded view of one block used while
// building or inspecting a line; blocks are stored packed in a line's byte
// buffer (line.go) and only unpacked transiently.
type decodedBlock struct {
	width   int    // 1 or 2 screen cells
	attr    uint32 // interned attribute index
	payload []byte // UTF-8 bytes: base rune + any combining runes
}

// byteLen returns the total encoded size of the block (header + attr index
// varint + payload), without actually encoding it.
func (b decodedBlock) byteLen() int {
	attrLen := uvarintLen(uint64(b.attr))
	header := blockHeader(len(b.payload)+attrLen, b.width == 2)
	return uvarintLen(header) + attrLen + len(b.payload)
}

// blockHeader packs a payload byte count (attr-index bytes + UTF-8 bytes)
// and a width flag into the header varint value, per spec.md §3.1: low bit
// is the width flag, remaining bits are the payload byte count.
func blockHeader(payloadBytes int, wide bool) uint64 {
	h := uint64(payloadBytes) << 1
	if wide {
		h |= 1
	}
	return h
}

func uvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// encodeBlock appends the packed encoding of b to dst and returns the
// extended slice.
func encodeBlock(dst []byte, b decodedBlock) []byte {
	attrLen := uvarintLen(uint64(b.attr))
	header := blockHeader(len(b.payload)+attrLen, b.width == 2)

	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], header)
	dst = append(dst, scratch[:n]...)
	n = binary.PutUvarint(scratch[:], uint64(b.attr))
	dst = append(dst, scratch[:n]...)
	dst = append(dst, b.payload...)
	return dst
}

// decodeBlockAt decodes the block starting at offset off in src, returning
// the decoded block, the number of bytes it occupies in src, and whether
// decoding succeeded (false if src is truncated/corrupt at off).
func decodeBlockAt(src []byte, off int) (b decodedBlock, n int, ok bool) {
	header, hn := binary.Uvarint(src[off:])
	if hn <= 0 {
		return decodedBlock{}, 0, false
	}
	width := 1
	if header&1 != 0 {
		width = 2
	}
	payloadTotal := int(header >> 1)

	attrOff := off + hn
	if attrOff > len(src) {
		return decodedBlock{}, 0, false
	}
	attr, an := binary.Uvarint(src[attrOff:])
	if an <= 0 {
		return decodedBlock{}, 0, false
	}

	payloadLen := payloadTotal - an
	if payloadLen < 0 {
		return decodedBlock{}, 0, false
	}
	payloadOff := attrOff + an
	payloadEnd := payloadOff + payloadLen
	if payloadEnd > len(src) {
		return decodedBlock{}, 0, false
	}

	total := hn + payloadTotal
	return decodedBlock{
		width:   width,
		attr:    uint32(attr),
		payload: src[payloadOff:payloadEnd],
	}, total, true
}

// blockAttrBytesLen returns just the attr-index varint length encoded at
// the start of a block's payload region.
func blockAttrBytesLen(attr uint32) int {
	return uvarintLen(uint64(attr))
}

// blockIter walks a packed block sequence from left to right.
type blockIter struct {
	data []byte
	off  int
}

func newBlockIter(data []byte) blockIter { return blockIter{data: data} }

// next returns the next block, its byte offset, and whether one was found.
func (it *blockIter) next() (b decodedBlock, off int, ok bool) {
	if it.off >= len(it.data) {
		return decodedBlock{}, 0, false
	}
	dec, n, decOK := decodeBlockAt(it.data, it.off)
	if !decOK {
		return decodedBlock{}, 0, false
	}
	off = it.off
	it.off += n
	return dec, off, true
}
