// Copyright 2025 The sivtools Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package polyval implements the POLYVAL universal hash function defined
// in RFC 8452.
//
// POLYVAL operates in GF(2^128) under the reduction polynomial
// x^128 + x^127 + x^126 + x^121 + 1 with a little-endian bit order. It is
// algebraically related to GHASH but uses the reverse byte/bit
// convention; the two are not interchangeable.
package polyval

import (
	"encoding/binary"
	"fmt"
)

// BlockSize is the POLYVAL block size in bytes.
const BlockSize = 16

// fieldElement is a binary polynomial of degree < 128. Bit i of the
// little-endian 128-bit value is the coefficient of x^i.
type fieldElement [2]uint64

// xMinus128 is the representation of x^-128. Folding it into the hash
// subkey turns RFC 8452's dot operation (a*b*x^-128) into a plain field
// multiplication per block.
var xMinus128 = fieldElement{1, 0x9204000000000000}

func fieldElementFromBytes(b []byte) fieldElement {
	return fieldElement{
		binary.LittleEndian.Uint64(b[:8]),
		binary.LittleEndian.Uint64(b[8:16]),
	}
}

func (f fieldElement) bytes() (out [BlockSize]byte) {
	binary.LittleEndian.PutUint64(out[:8], f[0])
	binary.LittleEndian.PutUint64(out[8:], f[1])
	return out
}

// mulX returns f*x reduced modulo x^128 + x^127 + x^126 + x^121 + 1.
func mulX(f fieldElement) fieldElement {
	carry := f[1] >> 63
	var r fieldElement
	r[1] = f[1]<<1 | f[0]>>63
	r[0] = f[0] << 1
	// x^128 = x^127 + x^126 + x^121 + 1
	r[0] ^= carry
	r[1] ^= carry * 0xc200000000000000
	return r
}

// mul returns a*b in the field. The Horner loop selects terms with masks
// rather than branches, so the running time does not depend on the
// operand bits.
func mul(a, b fieldElement) fieldElement {
	var p fieldElement
	for i := 127; i >= 0; i-- {
		p = mulX(p)
		mask := -(b[i>>6] >> (uint(i) & 63) & 1)
		p[0] ^= a[0] & mask
		p[1] ^= a[1] & mask
	}
	return p
}

// Polyval computes the POLYVAL function incrementally over 16-byte
// blocks. The zero value is not usable; construct instances with New.
type Polyval struct {
	h fieldElement // hash subkey, pre-multiplied by x^-128
	s fieldElement // accumulator
}

// New returns a Polyval keyed with the given 16-byte hash subkey.
func New(key []byte) (*Polyval, error) {
	if len(key) != BlockSize {
		return nil, fmt.Errorf("polyval: invalid key size %d", len(key))
	}
	return &Polyval{h: mul(fieldElementFromBytes(key), xMinus128)}, nil
}

// Update absorbs data into the hash state. A trailing partial block is
// zero-padded to the block boundary, so each Update call covers a
// self-contained, padded input segment as RFC 8452 requires for the
// associated data and the plaintext.
func (p *Polyval) Update(data []byte) {
	for len(data) >= BlockSize {
		x := fieldElementFromBytes(data[:BlockSize])
		p.s = mul(fieldElement{p.s[0] ^ x[0], p.s[1] ^ x[1]}, p.h)
		data = data[BlockSize:]
	}
	if len(data) > 0 {
		var block [BlockSize]byte
		copy(block[:], data)
		x := fieldElementFromBytes(block[:])
		p.s = mul(fieldElement{p.s[0] ^ x[0], p.s[1] ^ x[1]}, p.h)
	}
}

// Finish returns the current hash value. The state remains usable for
// further Update calls.
func (p *Polyval) Finish() [BlockSize]byte {
	return p.s.bytes()
}

// Wipe clears the hash subkey and the accumulator so keyed state does not
// outlive its message.
func (p *Polyval) Wipe() {
	p.h = fieldElement{}
	p.s = fieldElement{}
}
