// Package auth provides keyed message authentication for callers that
// need to sign or verify data exchanged over a connection.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
)

// hmacBlockSize is the SHA-256 block size used for key padding.
const hmacBlockSize = 64

// SumHMACSHA256 computes the RFC 2104 HMAC of data under key using
// SHA-256. A key longer than the 64-byte block size is replaced by its
// SHA-256 digest; shorter keys are zero-padded to the block size. The
// result is SHA-256(opad || SHA-256(ipad || data)) with the usual
// 0x5C/0x36 pads.
func SumHMACSHA256(key, data []byte) [32]byte {
	if len(key) > hmacBlockSize {
		sum := sha256.Sum256(key)
		key = sum[:]
	}

	var ipad, opad [hmacBlockSize]byte
	copy(ipad[:], key)
	copy(opad[:], key)
	for i := 0; i < hmacBlockSize; i++ {
		ipad[i] ^= 0x36
		opad[i] ^= 0x5C
	}

	inner := sha256.New()
	inner.Write(ipad[:])
	inner.Write(data)
	innerSum := inner.Sum(nil)

	outer := sha256.New()
	outer.Write(opad[:])
	outer.Write(innerSum)

	var mac [32]byte
	copy(mac[:], outer.Sum(nil))
	return mac
}

// VerifyHMACSHA256 reports whether mac is the HMAC-SHA-256 of data
// under key, compared in constant time.
func VerifyHMACSHA256(key, data []byte, mac [32]byte) bool {
	want := SumHMACSHA256(key, data)
	return subtle.ConstantTimeCompare(want[:], mac[:]) == 1
}
