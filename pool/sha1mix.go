package pool

import (
	"encoding/binary"
	"math/bits"
)

// The mixer needs to run the SHA-1 compression function repeatedly over a
// single continuing context, reading out the 20-byte intermediate state
// after every 64-byte block, without ever applying Merkle-Damgard
// length/padding finalization in between blocks. Go's crypto/sha1 does not
// expose its block-compression step (the digest type and block function are
// unexported), so this is a small, self-contained implementation of just
// the compression step, named after the libgcrypt functions the original
// source calls it through: mixblockInit / mixblock.
//
// This stands in for spec.md's assumed-available primitive
// "mixblock(ctx, 64-byte block) -> 20-byte state update"; the other
// assumed primitive, hash_buffer, is a complete (padded) SHA-1 digest and
// is simply crypto/sha1.Sum (see mixer.go).
type mixContext struct {
	h [5]uint32
}

func mixblockInit() *mixContext {
	return &mixContext{h: [5]uint32{
		0x67452301,
		0xEFCDAB89,
		0x98BADCFE,
		0x10325476,
		0xC3D2E1F0,
	}}
}

// mixblock runs one SHA-1 compression of block, updating ctx in place.
func (ctx *mixContext) mixblock(block *[BlockLen]byte) {
	var w [80]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[i*4 : i*4+4])
	}
	for i := 16; i < 80; i++ {
		w[i] = bits.RotateLeft32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
	}

	a, b, c, d, e := ctx.h[0], ctx.h[1], ctx.h[2], ctx.h[3], ctx.h[4]

	for i := 0; i < 80; i++ {
		var f, k uint32
		switch {
		case i < 20:
			f = (b & c) | ((^b) & d)
			k = 0x5A827999
		case i < 40:
			f = b ^ c ^ d
			k = 0x6ED9EBA1
		case i < 60:
			f = (b & c) | (b & d) | (c & d)
			k = 0x8F1BBCDC
		default:
			f = b ^ c ^ d
			k = 0xCA62C1D6
		}
		tmp := bits.RotateLeft32(a, 5) + f + e + k + w[i]
		e = d
		d = c
		c = bits.RotateLeft32(b, 30)
		b = a
		a = tmp
	}

	ctx.h[0] += a
	ctx.h[1] += b
	ctx.h[2] += c
	ctx.h[3] += d
	ctx.h[4] += e
}

// digest returns the current 20-byte intermediate state.
func (ctx *mixContext) digest() [DigestLen]byte {
	var out [DigestLen]byte
	for i, v := range ctx.h {
		binary.BigEndian.PutUint32(out[i*4:i*4+4], v)
	}
	return out
}
